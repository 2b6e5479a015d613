package engine

import (
	"sync"
	"testing"
)

func TestEngineFindCaseInsensitive(t *testing.T) {
	e := New()
	e.AddWord("BaD")
	e.AddWord("buy now")

	got := e.Find("This is BAD. Please BUY NOW!")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
}

func TestEngineWholeTokensOnly(t *testing.T) {
	e := New("ass")
	if e.Contains("an assassin in a classic car") {
		t.Fatalf("substrings of other words must not match")
	}
	if !e.Contains("what an ASS!") {
		t.Fatalf("expected whole word match")
	}
}

func TestEngineReplaceAllAndClear(t *testing.T) {
	e := New()
	e.ReplaceAll([]string{"a", "b", "b", " "})
	if e.Count() != 2 {
		t.Fatalf("expected 2 words, got %d", e.Count())
	}
	e.Clear()
	if e.Count() != 0 {
		t.Fatalf("expected 0 after clear, got %d", e.Count())
	}
	if e.Contains("a b") {
		t.Fatalf("cleared engine must not match")
	}
}

func TestEngineRemovePhrase(t *testing.T) {
	e := New("bad word", "x")
	if !e.RemoveWord("BAD WORD") {
		t.Fatalf("expected removal")
	}
	if e.Contains("a bad word here") {
		t.Fatalf("removed phrase still matches")
	}
	if e.RemoveWord("missing") || e.RemoveWord(" ") {
		t.Fatalf("unexpected removal")
	}
}

func TestEngineDefaultLexicon(t *testing.T) {
	e := New(DefaultLexicon()...)
	if !e.Contains("This message contains fuck") {
		t.Fatalf("expected default lexicon hit")
	}
	if e.Contains("Hello team, the deploy finished") {
		t.Fatalf("clean message matched")
	}
	st := e.Stats()
	if st.WordCount == 0 || st.TotalLookups != 2 || st.TotalReloadCount != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestEngineConcurrentAccess(t *testing.T) {
	e := New("spam")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Find("SPAM spam")
			_ = e.AddWord("x")
			_ = e.RemoveWord("x")
		}()
	}
	wg.Wait()
}
