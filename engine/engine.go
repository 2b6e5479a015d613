// Package engine holds the profanity lexicon and matches messages against it.
package engine

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
)

// Stats contains runtime lexicon metrics.
type Stats struct {
	WordCount        int64
	LastLookupNanos  int64
	TotalLookups     int64
	TotalMatches     int64
	LastReloadNanos  int64
	TotalReloadCount int64
}

type state struct {
	words   map[string]struct{}
	phrases []string
}

// Engine stores lexicon words and executes case-insensitive lookup.
// Single words match whole tokens; multi-word phrases match as substrings.
type Engine struct {
	mu    sync.RWMutex
	state state

	lastLookupNanos atomic.Int64
	totalLookups    atomic.Int64
	totalMatches    atomic.Int64
	lastReloadNanos atomic.Int64
	totalReloads    atomic.Int64
}

// New creates an engine seeded with words.
func New(words ...string) *Engine {
	e := &Engine{state: state{words: make(map[string]struct{})}}
	if len(words) > 0 {
		e.ReplaceAll(words)
	}
	return e
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// AddWord inserts one word or phrase.
func (e *Engine) AddWord(word string) bool {
	w := normalizeWord(word)
	if w == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.state.words[w]; exists {
		return false
	}
	e.state.words[w] = struct{}{}
	if strings.ContainsRune(w, ' ') {
		e.state.phrases = append(e.state.phrases, w)
	}
	return true
}

// RemoveWord deletes one word or phrase.
func (e *Engine) RemoveWord(word string) bool {
	w := normalizeWord(word)
	if w == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.state.words[w]; !exists {
		return false
	}
	delete(e.state.words, w)
	if strings.ContainsRune(w, ' ') {
		phrases := e.state.phrases[:0]
		for _, p := range e.state.phrases {
			if p != w {
				phrases = append(phrases, p)
			}
		}
		e.state.phrases = phrases
	}
	return true
}

// ReplaceAll swaps the whole lexicon atomically.
func (e *Engine) ReplaceAll(words []string) {
	start := time.Now()
	next := state{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		w := normalizeWord(word)
		if w == "" {
			continue
		}
		if _, exists := next.words[w]; exists {
			continue
		}
		next.words[w] = struct{}{}
		if strings.ContainsRune(w, ' ') {
			next.phrases = append(next.phrases, w)
		}
	}

	e.mu.Lock()
	e.state = next
	e.mu.Unlock()

	e.lastReloadNanos.Store(time.Since(start).Nanoseconds())
	e.totalReloads.Add(1)
}

// Clear removes all words.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.state = state{words: make(map[string]struct{})}
	e.mu.Unlock()
}

// Count returns the lexicon size.
func (e *Engine) Count() int {
	e.mu.RLock()
	count := len(e.state.words)
	e.mu.RUnlock()
	return count
}

// Contains reports whether the message holds any lexicon entry.
func (e *Engine) Contains(message string) bool {
	return len(e.find(message, true)) > 0
}

// Find returns the unique lexicon entries found in the message.
func (e *Engine) Find(message string) []string {
	return e.find(message, false)
}

func (e *Engine) find(message string, firstOnly bool) []string {
	start := time.Now()
	defer func() {
		e.lastLookupNanos.Store(time.Since(start).Nanoseconds())
		e.totalLookups.Add(1)
	}()

	lower := strings.ToLower(message)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.state.words) == 0 || lower == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{}, 4)
	add := func(w string) bool {
		if _, ok := seen[w]; ok {
			return false
		}
		seen[w] = struct{}{}
		out = append(out, w)
		return firstOnly
	}

	for _, tok := range splitTokens(lower) {
		if _, ok := e.state.words[tok]; ok && add(tok) {
			break
		}
	}
	if !(firstOnly && len(out) > 0) {
		for _, phrase := range e.state.phrases {
			if strings.Contains(lower, phrase) && add(phrase) {
				break
			}
		}
	}

	e.totalMatches.Add(int64(len(out)))
	return out
}

func splitTokens(s string) []string {
	res := make([]string, 0, 16)
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			res = append(res, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		res = append(res, s[start:])
	}
	return res
}

// Stats returns current metrics.
func (e *Engine) Stats() Stats {
	return Stats{
		WordCount:        int64(e.Count()),
		LastLookupNanos:  e.lastLookupNanos.Load(),
		TotalLookups:     e.totalLookups.Load(),
		TotalMatches:     e.totalMatches.Load(),
		LastReloadNanos:  e.lastReloadNanos.Load(),
		TotalReloadCount: e.totalReloads.Load(),
	}
}
