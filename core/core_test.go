package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/elum-utils/safetymonitor/filter"
	"github.com/elum-utils/safetymonitor/models"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   int
	apiKeys []string
	prompts []string
	result  models.SafetyAnalysisResult
	panicOn bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, apiKey, message, customPrompt string) models.SafetyAnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.apiKeys = append(f.apiKeys, apiKey)
	f.prompts = append(f.prompts, customPrompt)
	if f.panicOn {
		panic("boom")
	}
	return f.result
}

func (f *fakeAnalyzer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStorage struct {
	words []string
	err   error
}

func (s *fakeStorage) AddWord(ctx context.Context, word string) error {
	s.words = append(s.words, word)
	return nil
}

func (s *fakeStorage) RemoveWord(ctx context.Context, word string) error { return nil }

func (s *fakeStorage) Words(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.words...), nil
}

func (s *fakeStorage) HasWord(ctx context.Context, word string) (bool, error) { return false, nil }

type recordedDecision struct {
	verdict  models.Verdict
	category string
}

type fakeRecorder struct {
	mu        sync.Mutex
	decisions []recordedDecision
}

func (r *fakeRecorder) RecordDecision(v models.Verdict, category string, elapsed time.Duration) {
	r.mu.Lock()
	r.decisions = append(r.decisions, recordedDecision{verdict: v, category: category})
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordAnalysis(outcome string, elapsed time.Duration) {}

func safeAnalysis(score float64) models.SafetyAnalysisResult {
	return models.SafetyAnalysisResult{IsSafe: true, Score: score, Category: models.CategorySafe, Reason: "✅ looks fine"}
}

func aiOff() []models.Setting {
	return []models.Setting{{Label: "enableAICheck", Default: false}}
}

func TestModerateProfanityBlockedWithoutAI(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(1)}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "This message contains fuck", nil)
	if v.Status != models.StatusBlocked || v.Message != filter.ReasonProfanity {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Stage != models.StageStatic {
		t.Fatalf("stage = %s", v.Stage)
	}
	if ai.Calls() != 0 {
		t.Fatalf("analyzer must not be called, got %d calls", ai.Calls())
	}
}

func TestModerateSensitiveData(t *testing.T) {
	c := New(Options{Analyzer: &fakeAnalyzer{result: safeAnalysis(1)}})

	cases := []string{
		"My card is 1234567812345678",
		"Write me at john.doe@example.com",
		"Call 555-123-4567 today",
	}
	for _, msg := range cases {
		v := c.Moderate(context.Background(), msg, nil)
		if v.Status != models.StatusBlocked || v.Message != filter.ReasonSensitiveData {
			t.Fatalf("%q: unexpected verdict %+v", msg, v)
		}
	}
}

func TestModerateSpamIsBlocked(t *testing.T) {
	c := New(Options{Analyzer: &fakeAnalyzer{result: safeAnalysis(1)}})

	v := c.Moderate(context.Background(), "Click here for a prize", nil)
	if v.Status != models.StatusBlocked || v.Message != filter.ReasonSpam {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Analysis == nil || v.Analysis.Score != 0.3 {
		t.Fatalf("expected static analysis with spam score")
	}
}

func TestModerateBannedWords(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(1)}
	c := New(Options{Analyzer: ai})
	list := []models.Setting{{Label: "bannedWords", Default: "pineapple, durian"}}

	v := c.Moderate(context.Background(), "I love Durian pizza", list)
	if v.Status != models.StatusBlocked || v.Message != ReasonBannedWords {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if ai.Calls() != 0 {
		t.Fatalf("analyzer must not be called")
	}

	v = c.Moderate(context.Background(), "durians are fine", list)
	if v.Status != models.StatusSuccess {
		t.Fatalf("partial word must not match: %+v", v)
	}
}

func TestModerateMaxLength(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(1)}
	c := New(Options{Analyzer: ai})
	list := []models.Setting{{Label: "maxMessageLength", Default: 5}}

	v := c.Moderate(context.Background(), "hello there", list)
	if v.Status != models.StatusBlocked || v.Message != ReasonTooLong {
		t.Fatalf("unexpected verdict: %+v", v)
	}

	v = c.Moderate(context.Background(), "héllo", list)
	if v.Status != models.StatusSuccess {
		t.Fatalf("five runes must pass: %+v", v)
	}
}

func TestModerateMaxLengthDisabled(t *testing.T) {
	c := New(Options{})
	list := []models.Setting{
		{Label: "maxMessageLength", Default: 0},
		{Label: "enableAICheck", Default: false},
	}
	long := make([]byte, 5000)
	for i := range long {
		if i%2 == 0 {
			long[i] = 'a'
		} else {
			long[i] = 'b'
		}
	}
	v := c.Moderate(context.Background(), string(long), list)
	if v.Status != models.StatusSuccess {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestModeratePassthroughWhenAIDisabled(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(0)}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Hello team", aiOff())
	if v.Status != models.StatusSuccess || v.Message != "Hello team" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Stage != models.StagePassthrough || v.Action != models.ActionAllowed {
		t.Fatalf("unexpected stage/action: %s/%s", v.Stage, v.Action)
	}
	if ai.Calls() != 0 {
		t.Fatalf("analyzer must not be called")
	}
}

func TestModerateAIApproves(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(0.95)}
	c := New(Options{Analyzer: ai, FallbackAPIKey: "env-key"})
	list := []models.Setting{{Label: "customPrompt", Default: "be strict"}}

	v := c.Moderate(context.Background(), "Good morning everyone", list)
	if v.Status != models.StatusSuccess || v.Message != "Good morning everyone" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Action != models.ActionAllowed || v.Stage != models.StageAI {
		t.Fatalf("unexpected action/stage: %s/%s", v.Action, v.Stage)
	}
	if ai.apiKeys[0] != "env-key" {
		t.Fatalf("expected fallback key, got %q", ai.apiKeys[0])
	}
	if ai.prompts[0] != "be strict" {
		t.Fatalf("custom prompt not forwarded: %q", ai.prompts[0])
	}
}

func TestModerateSettingsKeyWins(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(1)}
	c := New(Options{Analyzer: ai, FallbackAPIKey: "env-key"})
	list := []models.Setting{{Label: "aiApiKey", Default: " user-key "}}

	c.Moderate(context.Background(), "Good morning", list)
	if ai.apiKeys[0] != "user-key" {
		t.Fatalf("expected settings key, got %q", ai.apiKeys[0])
	}
}

func TestModerateAIFlagged(t *testing.T) {
	ai := &fakeAnalyzer{result: models.SafetyAnalysisResult{IsSafe: true, Score: 0.5, Category: models.CategorySafe, Reason: "✅ borderline"}}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Borderline message", nil)
	if v.Status != models.StatusSuccess {
		t.Fatalf("flagged messages are reported as success: %+v", v)
	}
	if v.Message != "✅ borderline" {
		t.Fatalf("message = %q", v.Message)
	}
	if v.Action != models.ActionFlagged {
		t.Fatalf("action = %s", v.Action)
	}
}

func TestModerateAIBlocked(t *testing.T) {
	ai := &fakeAnalyzer{result: models.SafetyAnalysisResult{IsSafe: false, Score: 0.1, Category: "HARASSMENT", Reason: "⛔ harassment"}}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Some hostile message", nil)
	if v.Status != models.StatusBlocked || v.Message != "⛔ harassment" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestModerateUnsafeAboveHalfThresholdIsFlagged(t *testing.T) {
	ai := &fakeAnalyzer{result: models.SafetyAnalysisResult{IsSafe: false, Score: 0.9}}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Odd message", nil)
	if v.Action != models.ActionFlagged || v.Status != models.StatusSuccess {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Message != "Safety score too low: 0.9" {
		t.Fatalf("message = %q", v.Message)
	}
}

func TestModerateThresholdBoundary(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(0.7)}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Exactly on the line", nil)
	if v.Action != models.ActionAllowed {
		t.Fatalf("score equal to minimum must pass: %+v", v)
	}

	ai.result = models.SafetyAnalysisResult{IsSafe: true, Score: 0.35}
	v = c.Moderate(context.Background(), "Exactly half", nil)
	if v.Action != models.ActionFlagged {
		t.Fatalf("score equal to half the minimum is flagged: %+v", v)
	}
}

func TestModerateAIFailureFailsClosed(t *testing.T) {
	ai := &fakeAnalyzer{result: models.SafetyAnalysisResult{IsSafe: false, Score: 0, Category: models.CategorySafetyBlock, Reason: "AI service unavailable"}}
	c := New(Options{Analyzer: ai})

	v := c.Moderate(context.Background(), "Anything at all", nil)
	if v.Status != models.StatusBlocked || v.Message != "AI service unavailable" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestModerateWithoutAnalyzerIsInternalError(t *testing.T) {
	c := New(Options{})

	v := c.Moderate(context.Background(), "Hello", nil)
	if v.Status != models.StatusBlocked || v.Message != ReasonInternalError {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Stage != models.StageInternal {
		t.Fatalf("stage = %s", v.Stage)
	}
}

func TestModerateRecoversFromPanic(t *testing.T) {
	c := New(Options{Analyzer: &fakeAnalyzer{panicOn: true}})

	v := c.Moderate(context.Background(), "Hello", nil)
	if v.Status != models.StatusBlocked || v.Message != ReasonInternalError {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if c.Metrics()[models.ActionBlocked] != 1 {
		t.Fatalf("panic must be counted as blocked")
	}
}

func TestModerateCancelledContext(t *testing.T) {
	ai := &fakeAnalyzer{result: safeAnalysis(1)}
	c := New(Options{Analyzer: ai})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := c.Moderate(ctx, "Hello", nil)
	if v.Status != models.StatusBlocked || ai.Calls() != 0 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestModerateEmptyMessage(t *testing.T) {
	c := New(Options{})

	v := c.Moderate(context.Background(), "", aiOff())
	if v.Status != models.StatusSuccess || v.Message != "" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestMetricsAndRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	c := New(Options{Analyzer: &fakeAnalyzer{result: safeAnalysis(1)}, Recorder: rec})

	c.Moderate(context.Background(), "Hello", nil)
	c.Moderate(context.Background(), "shit happens", nil)

	m := c.Metrics()
	if m[models.ActionAllowed] != 1 || m[models.ActionBlocked] != 1 || m[models.ActionFlagged] != 0 {
		t.Fatalf("unexpected metrics: %v", m)
	}
	if len(rec.decisions) != 2 {
		t.Fatalf("expected 2 recorded decisions, got %d", len(rec.decisions))
	}
	if rec.decisions[1].category != models.CategoryProfanity {
		t.Fatalf("category = %q", rec.decisions[1].category)
	}
}

func TestOnHandlers(t *testing.T) {
	c := New(Options{Analyzer: &fakeAnalyzer{result: models.SafetyAnalysisResult{IsSafe: true, Score: 0.5}}})

	var got []DecisionEvent
	if err := c.OnFlagged(func(ctx context.Context, e DecisionEvent) error {
		got = append(got, e)
		return errors.New("ignored")
	}); err != nil {
		t.Fatalf("OnFlagged: %v", err)
	}
	if err := c.OnBlocked(func(ctx context.Context, e DecisionEvent) error {
		panic("handler panic")
	}); err != nil {
		t.Fatalf("OnBlocked: %v", err)
	}
	if err := c.OnAllowed(nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
	if err := c.On(models.Action("unknown"), func(context.Context, DecisionEvent) error { return nil }); err == nil {
		t.Fatal("expected error for unknown action")
	}

	c.Moderate(context.Background(), "Borderline message", nil)
	c.Moderate(context.Background(), "shit happens", nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 flagged event, got %d", len(got))
	}
	if got[0].Score != 0.5 || got[0].Message != "Borderline message" || got[0].Stage != models.StageAI {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func TestSyncOnceMergesStorage(t *testing.T) {
	st := &fakeStorage{words: []string{"zorblax"}}
	c := New(Options{Storage: st, Lexicon: []string{"heck"}})

	if err := c.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	if c.LexiconSize() != 2 {
		t.Fatalf("lexicon size = %d", c.LexiconSize())
	}

	v := c.Moderate(context.Background(), "what a zorblax", aiOff())
	if v.Status != models.StatusBlocked || v.Message != filter.ReasonProfanity {
		t.Fatalf("stored word must be matched: %+v", v)
	}

	st.words = nil
	if err := c.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	if c.LexiconSize() != 1 {
		t.Fatalf("removed storage words must be dropped, size = %d", c.LexiconSize())
	}
}

func TestSyncOnceStorageError(t *testing.T) {
	c := New(Options{Storage: &fakeStorage{err: errors.New("down")}, Lexicon: []string{"heck"}})

	if err := c.SyncOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.LexiconSize() != 1 {
		t.Fatalf("base lexicon must survive a failed sync, size = %d", c.LexiconSize())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c := New(Options{Storage: &fakeStorage{}, SyncInterval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRunInitialSyncError(t *testing.T) {
	c := New(Options{Storage: &fakeStorage{err: errors.New("down")}})

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestModerateConcurrent(t *testing.T) {
	c := New(Options{Analyzer: &fakeAnalyzer{result: safeAnalysis(1)}})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Moderate(context.Background(), "Hello", nil)
		}()
	}
	wg.Wait()

	if c.Metrics()[models.ActionAllowed] != 32 {
		t.Fatalf("metrics = %v", c.Metrics())
	}
}
