package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/elum-utils/safetymonitor/config"
)

func TestOpenStorageMemory(t *testing.T) {
	st, closeFn, err := openStorage(context.Background(), config.LexiconConfig{
		Backend: config.BackendMemory,
		Words:   []string{"zorblax"},
	})
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer closeFn()

	ok, err := st.HasWord(context.Background(), "zorblax")
	if err != nil || !ok {
		t.Fatalf("expected seeded word, ok=%v err=%v", ok, err)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	ctx := context.Background()
	st, closeFn, err := openStorage(ctx, config.LexiconConfig{
		Backend: config.BackendSQLite,
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "lexicon.db"), Table: config.DefaultSQLiteTable},
	})
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer closeFn()

	if err := st.AddWord(ctx, "zorblax"); err != nil {
		t.Fatalf("AddWord: %v", err)
	}
	words, err := st.Words(ctx)
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 1 || words[0] != "zorblax" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestOpenStorageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte("words:\n  - zorblax\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, closeFn, err := openStorage(context.Background(), config.LexiconConfig{
		Backend: config.BackendFile,
		File:    config.FileConfig{Path: path},
	})
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer closeFn()

	if _, ok := st.(watcher); !ok {
		t.Fatal("file storage must support watching")
	}
	words, err := st.Words(context.Background())
	if err != nil || len(words) != 1 {
		t.Fatalf("unexpected words %v, err %v", words, err)
	}
}

func TestOpenStorageUnknown(t *testing.T) {
	_, closeFn, err := openStorage(context.Background(), config.LexiconConfig{Backend: "etcd"})
	if err == nil {
		t.Fatal("expected error")
	}
	closeFn()
}
