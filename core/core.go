package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/elum-utils/safetymonitor/engine"
	"github.com/elum-utils/safetymonitor/filter"
	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
	"github.com/elum-utils/safetymonitor/settings"
)

const (
	defaultSyncInterval = 5 * time.Minute

	ReasonBannedWords   = "🚫 Message contains banned words"
	ReasonTooLong       = "📏 Message exceeds maximum length"
	ReasonInternalError = "Unable to process message"
	ReasonFilterBlocked = "Content blocked by filter"
)

// EventHandler handles one moderation decision.
type EventHandler func(ctx context.Context, event DecisionEvent) error

// DecisionEvent is the callback payload.
type DecisionEvent struct {
	Action   models.Action
	Status   models.Status
	Stage    models.Stage
	Category string
	Reason   string
	Score    float64
	Message  string
}

// Options configure the pipeline.
type Options struct {
	// Analyzer runs the AI stage. Without it AI checks fail closed.
	Analyzer interfaces.SafetyAnalyzer
	// Storage extends the lexicon; optional.
	Storage  interfaces.Storage
	Recorder interfaces.Recorder
	Logger   interfaces.Logger

	// Lexicon is the base profanity list; nil means engine.DefaultLexicon.
	Lexicon []string
	// FallbackAPIKey is used when the settings carry no aiApiKey.
	FallbackAPIKey string
	SyncInterval   time.Duration
}

// Core sequences the moderation stages.
type Core struct {
	analyzer interfaces.SafetyAnalyzer
	storage  interfaces.Storage
	recorder interfaces.Recorder
	logger   interfaces.Logger
	engine   *engine.Engine
	filter   *filter.Filter

	baseLexicon    []string
	fallbackAPIKey string
	syncInterval   time.Duration

	eventsMu sync.RWMutex
	events   map[models.Action][]EventHandler

	decisions map[models.Action]*atomic.Int64
}

// New creates the pipeline.
func New(opt Options) *Core {
	base := opt.Lexicon
	if base == nil {
		base = engine.DefaultLexicon()
	}
	lex := engine.New(base...)
	c := &Core{
		analyzer:       opt.Analyzer,
		storage:        opt.Storage,
		recorder:       opt.Recorder,
		logger:         opt.Logger,
		engine:         lex,
		filter:         filter.New(lex),
		baseLexicon:    base,
		fallbackAPIKey: opt.FallbackAPIKey,
		syncInterval:   defaultSyncInterval,
		events:         make(map[models.Action][]EventHandler, 3),
		decisions: map[models.Action]*atomic.Int64{
			models.ActionAllowed: new(atomic.Int64),
			models.ActionFlagged: new(atomic.Int64),
			models.ActionBlocked: new(atomic.Int64),
		},
	}
	if opt.SyncInterval > 0 {
		c.syncInterval = opt.SyncInterval
	}
	return c
}

// On registers event handlers.
func (c *Core) On(action models.Action, handler EventHandler) error {
	if handler == nil {
		return errors.New("core: handler is nil")
	}
	if _, ok := c.decisions[action]; !ok {
		return fmt.Errorf("core: unknown action %q", action)
	}
	c.eventsMu.Lock()
	c.events[action] = append(c.events[action], handler)
	c.eventsMu.Unlock()
	return nil
}

// OnAllowed registers a handler for approved messages.
func (c *Core) OnAllowed(handler EventHandler) error {
	return c.On(models.ActionAllowed, handler)
}

// OnFlagged registers a handler for messages below the safety score that were still delivered.
func (c *Core) OnFlagged(handler EventHandler) error {
	return c.On(models.ActionFlagged, handler)
}

// OnBlocked registers a handler for rejected messages.
func (c *Core) OnBlocked(handler EventHandler) error {
	return c.On(models.ActionBlocked, handler)
}

// Run loads the lexicon and re-syncs it periodically until ctx is cancelled.
func (c *Core) Run(ctx context.Context) error {
	if err := c.SyncOnce(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.SyncOnce(ctx); err != nil {
				c.logWarn("lexicon sync failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// SyncOnce rebuilds the lexicon from the base list plus storage.
func (c *Core) SyncOnce(ctx context.Context) error {
	if c.storage == nil {
		c.engine.ReplaceAll(c.baseLexicon)
		return nil
	}
	words, err := c.storage.Words(ctx)
	if err != nil {
		return err
	}
	all := make([]string, 0, len(c.baseLexicon)+len(words))
	all = append(all, c.baseLexicon...)
	all = append(all, words...)
	c.engine.ReplaceAll(all)
	c.logDebug("lexicon synced", map[string]any{"words": c.engine.Count()})
	return nil
}

// Moderate runs the pipeline for one message. It never fails: internal errors
// and panics become a blocked verdict.
func (c *Core) Moderate(ctx context.Context, message string, list []models.Setting) (v models.Verdict) {
	start := time.Now()
	category := ""
	defer func() {
		if r := recover(); r != nil {
			c.logError("moderation panic", map[string]any{"panic": fmt.Sprint(r)})
			v = internalError()
			category = ""
		}
		c.record(ctx, v, category, message, time.Since(start))
	}()

	v, category, err := c.moderate(ctx, message, list)
	if err != nil {
		c.logError("moderation failed", map[string]any{"error": err.Error()})
		return internalError()
	}
	return v
}

func (c *Core) moderate(ctx context.Context, message string, list []models.Setting) (models.Verdict, string, error) {
	cfg := settings.Resolve(list)

	check := c.filter.Check(message)
	if !check.IsSafe {
		reason := check.Reason
		if reason == "" {
			reason = ReasonFilterBlocked
		}
		return blocked(models.StageStatic, reason, &check), check.Category, nil
	}

	if filter.ContainsBannedWords(message, cfg.BannedWords) {
		return blocked(models.StageBannedWords, ReasonBannedWords, nil), "", nil
	}

	if cfg.MaxMessageLength > 0 && utf8.RuneCountInString(message) > cfg.MaxMessageLength {
		return blocked(models.StageLength, ReasonTooLong, nil), "", nil
	}

	if !cfg.EnableAICheck {
		return allowed(models.StagePassthrough, message, nil), "", nil
	}

	if err := ctx.Err(); err != nil {
		return models.Verdict{}, "", err
	}
	if c.analyzer == nil {
		return models.Verdict{}, "", errors.New("core: AI analyzer is nil")
	}

	apiKey := cfg.AIAPIKey
	if apiKey == "" {
		apiKey = c.fallbackAPIKey
	}
	analysis := c.analyzer.Analyze(ctx, apiKey, message, cfg.CustomPrompt)
	if analysis.IsSafe && analysis.Score >= cfg.MinSafetyScore {
		return allowed(models.StageAI, message, &analysis), analysis.Category, nil
	}

	reason := analysis.Reason
	if reason == "" {
		reason = "Safety score too low: " + strconv.FormatFloat(analysis.Score, 'f', -1, 64)
	}
	if analysis.Score < cfg.MinSafetyScore/2 {
		return blocked(models.StageAI, reason, &analysis), analysis.Category, nil
	}
	return models.Verdict{
		Status:   models.StatusSuccess,
		Message:  reason,
		Action:   models.ActionFlagged,
		Stage:    models.StageAI,
		Analysis: &analysis,
	}, analysis.Category, nil
}

func blocked(stage models.Stage, reason string, analysis *models.SafetyAnalysisResult) models.Verdict {
	return models.Verdict{
		Status:   models.StatusBlocked,
		Message:  reason,
		Action:   models.ActionBlocked,
		Stage:    stage,
		Analysis: analysis,
	}
}

func allowed(stage models.Stage, message string, analysis *models.SafetyAnalysisResult) models.Verdict {
	return models.Verdict{
		Status:   models.StatusSuccess,
		Message:  message,
		Action:   models.ActionAllowed,
		Stage:    stage,
		Analysis: analysis,
	}
}

func internalError() models.Verdict {
	return blocked(models.StageInternal, ReasonInternalError, nil)
}

// Metrics returns the number of decisions per action.
func (c *Core) Metrics() map[models.Action]int64 {
	out := make(map[models.Action]int64, len(c.decisions))
	for action, n := range c.decisions {
		out[action] = n.Load()
	}
	return out
}

// LexiconSize returns the number of in-memory lexicon entries.
func (c *Core) LexiconSize() int {
	return c.engine.Count()
}

// Lexicon exposes the matcher for runtime additions.
func (c *Core) Lexicon() *engine.Engine {
	return c.engine
}

func (c *Core) record(ctx context.Context, v models.Verdict, category, message string, elapsed time.Duration) {
	if n, ok := c.decisions[v.Action]; ok {
		n.Add(1)
	}
	if c.recorder != nil {
		c.recorder.RecordDecision(v, category, elapsed)
	}
	e := DecisionEvent{
		Action:   v.Action,
		Status:   v.Status,
		Stage:    v.Stage,
		Category: category,
		Reason:   v.Message,
		Message:  message,
	}
	if v.Analysis != nil {
		e.Score = v.Analysis.Score
	}
	c.dispatchEvent(context.WithoutCancel(ctx), e)
}

func (c *Core) dispatchEvent(ctx context.Context, e DecisionEvent) {
	c.eventsMu.RLock()
	handlers := append([]EventHandler(nil), c.events[e.Action]...)
	c.eventsMu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logWarn("event handler panic", map[string]any{"panic": fmt.Sprint(r), "action": e.Action})
				}
			}()
			if err := h(ctx, e); err != nil {
				c.logWarn("event handler failed", map[string]any{"error": err.Error(), "action": e.Action})
			}
		}()
	}
}

func (c *Core) logDebug(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *Core) logWarn(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}

func (c *Core) logError(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Error(msg, fields)
	}
}
