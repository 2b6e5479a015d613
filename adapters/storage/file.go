package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const defaultDebounce = 200 * time.Millisecond

// lexiconFile is the on-disk YAML layout:
//
//	words:
//	  - foo
//	  - bar baz
type lexiconFile struct {
	Words []string `yaml:"words"`
}

// FileAdapter stores the lexicon in a YAML file and can watch it for edits.
type FileAdapter struct {
	path     string
	debounce time.Duration

	mu sync.Mutex
}

// NewFileAdapter creates an adapter for path. The file is created on first write.
func NewFileAdapter(path string) (*FileAdapter, error) {
	if path == "" {
		return nil, errors.New("storage: lexicon file path is empty")
	}
	return &FileAdapter{path: path, debounce: defaultDebounce}, nil
}

func (f *FileAdapter) AddWord(_ context.Context, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := set[word]; ok {
		return nil
	}
	set[word] = struct{}{}
	return f.store(set)
}

func (f *FileAdapter) RemoveWord(_ context.Context, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := set[word]; !ok {
		return nil
	}
	delete(set, word)
	return f.store(set)
}

func (f *FileAdapter) Words(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, err := f.load()
	if err != nil {
		return nil, err
	}
	return sortedWords(set), nil
}

func (f *FileAdapter) HasWord(_ context.Context, word string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, err := f.load()
	if err != nil {
		return false, err
	}
	_, ok := set[word]
	return ok, nil
}

// Watch calls onChange after the file is written, created or renamed, with
// bursts of events collapsed into one call. Watcher errors go to onError when
// set. It blocks until ctx is done.
func (f *FileAdapter) Watch(ctx context.Context, onChange func(), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("storage: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("storage: watch %s: %w", f.path, err)
	}

	target := filepath.Clean(f.path)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("storage: watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(f.debounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("storage: watcher errors channel closed")
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (f *FileAdapter) load() (map[string]struct{}, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]struct{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	var doc lexiconFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", f.path, err)
	}
	set := make(map[string]struct{}, len(doc.Words))
	for _, w := range doc.Words {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set, nil
}

func (f *FileAdapter) store(set map[string]struct{}) error {
	data, err := yaml.Marshal(lexiconFile{Words: sortedWords(set)})
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}

func sortedWords(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
