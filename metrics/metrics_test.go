package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/elum-utils/safetymonitor/models"
)

func newTestCollector() *Collector {
	return NewCollector(Options{Namespace: "test", Subsystem: "pipeline"}, prometheus.NewRegistry())
}

func TestRecordDecision(t *testing.T) {
	c := newTestCollector()

	blocked := models.Verdict{Status: models.StatusBlocked, Action: models.ActionBlocked, Stage: models.StageStatic}
	c.RecordDecision(blocked, models.CategoryProfanity, time.Millisecond)
	c.RecordDecision(blocked, models.CategoryProfanity, time.Millisecond)
	c.RecordDecision(models.Verdict{Status: models.StatusSuccess, Action: models.ActionAllowed, Stage: models.StagePassthrough}, "", time.Microsecond)

	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("blocked", "blocked", "static")); got != 2 {
		t.Fatalf("blocked decisions = %v", got)
	}
	if got := testutil.ToFloat64(c.categoriesTotal.WithLabelValues(models.CategoryProfanity)); got != 2 {
		t.Fatalf("profanity category = %v", got)
	}
	if got := testutil.CollectAndCount(c.categoriesTotal); got != 1 {
		t.Fatalf("empty category must not be counted, series = %d", got)
	}
	if got := testutil.CollectAndCount(c.decisionDuration); got != 2 {
		t.Fatalf("duration series = %d", got)
	}
}

func TestRecordAnalysis(t *testing.T) {
	c := newTestCollector()

	c.RecordAnalysis("analyzed", 200*time.Millisecond)
	c.RecordAnalysis("transport_error", time.Second)

	if got := testutil.ToFloat64(c.analysesTotal.WithLabelValues("analyzed")); got != 1 {
		t.Fatalf("analyzed = %v", got)
	}
	if got := testutil.CollectAndCount(c.analysisDuration); got != 1 {
		t.Fatalf("histogram count = %d", got)
	}
}

func TestDefaults(t *testing.T) {
	c := NewCollector(Options{}, nil)
	c.RecordAnalysis("analyzed", time.Millisecond)

	n, err := testutil.GatherAndCount(c.Registry(), "safety_monitor_analyses_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Fatalf("series = %d", n)
	}
}

func TestRegisterGaugeAndHandler(t *testing.T) {
	c := newTestCollector()
	if err := c.RegisterGauge("test", "lexicon_words", "Lexicon size", func() float64 { return 42 }); err != nil {
		t.Fatalf("RegisterGauge: %v", err)
	}
	if err := c.RegisterGauge("test", "lexicon_words", "Lexicon size", func() float64 { return 1 }); err == nil {
		t.Fatal("duplicate registration must fail")
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_lexicon_words 42") {
		t.Fatalf("gauge missing from output:\n%s", rec.Body.String())
	}
}
