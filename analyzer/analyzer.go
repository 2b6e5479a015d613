// Package analyzer classifies messages with an external generative model.
// Every failure path fails closed: the result is never safe when the call or
// the response could not be trusted.
package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
)

const (
	ReasonNotInitialized = "🛑 Content was blocked by AI safety filters due to Google Generative AI client not initialized, Update the API key in the integration config"
	ReasonProviderSafety = "🛑 Content was blocked by AI safety filters due to potentially harmful content"
	ReasonUnavailable    = "🛑 Content was blocked by AI safety filters because the safety check could not be completed"
	ReasonParseError     = "🚨 Error analyzing content safety"
)

// Outcomes reported to the recorder.
const (
	OutcomeAnalyzed       = "analyzed"
	OutcomeNotInitialized = "not_initialized"
	OutcomeSafetyBlocked  = "safety_blocked"
	OutcomeTransportError = "transport_error"
	OutcomeParseError     = "parse_error"
)

// Options configures the analyzer.
type Options struct {
	Provider interfaces.GeneratorProvider
	Recorder interfaces.Recorder
	Logger   interfaces.Logger
}

// Analyzer implements interfaces.SafetyAnalyzer.
type Analyzer struct {
	provider interfaces.GeneratorProvider
	recorder interfaces.Recorder
	logger   interfaces.Logger
}

var _ interfaces.SafetyAnalyzer = (*Analyzer)(nil)

// New creates an analyzer.
func New(opt Options) *Analyzer {
	return &Analyzer{
		provider: opt.Provider,
		recorder: opt.Recorder,
		logger:   opt.Logger,
	}
}

// Analyze asks the model for a verdict on message.
func (a *Analyzer) Analyze(ctx context.Context, apiKey, message, customPrompt string) models.SafetyAnalysisResult {
	start := time.Now()
	res, outcome := a.analyze(ctx, apiKey, message, customPrompt)
	if a.recorder != nil {
		a.recorder.RecordAnalysis(outcome, time.Since(start))
	}
	return res
}

func (a *Analyzer) analyze(ctx context.Context, apiKey, message, customPrompt string) (models.SafetyAnalysisResult, string) {
	prompt := BuildPrompt(message, customPrompt)

	if a.provider == nil {
		return safetyBlock(ReasonNotInitialized), OutcomeNotInitialized
	}
	client, err := a.provider.ClientFor(apiKey)
	if err != nil {
		a.logWarn("ai client unavailable", map[string]any{"error": err.Error()})
		return safetyBlock(ReasonNotInitialized), OutcomeNotInitialized
	}

	a.logDebug("generated prompt", map[string]any{"provider": client.Name(), "prompt": prompt})
	text, err := client.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, models.ErrSafetyBlocked) {
			a.logWarn("prompt blocked by provider", map[string]any{"error": err.Error()})
			return safetyBlock(ReasonProviderSafety), OutcomeSafetyBlocked
		}
		a.logWarn("ai call failed", map[string]any{"error": err.Error(), "provider": client.Name()})
		return safetyBlock(ReasonUnavailable), OutcomeTransportError
	}
	a.logDebug("raw ai response", map[string]any{"response": text})

	res, err := parseAnalysis(text)
	if err != nil {
		a.logWarn("ai response parse failed", map[string]any{"error": err.Error(), "response": text})
		return models.SafetyAnalysisResult{IsSafe: false, Score: 0, Reason: ReasonParseError}, OutcomeParseError
	}
	return res, OutcomeAnalyzed
}

func safetyBlock(reason string) models.SafetyAnalysisResult {
	return models.SafetyAnalysisResult{
		IsSafe:   false,
		Score:    0,
		Category: models.CategorySafetyBlock,
		Reason:   reason,
	}
}

func (a *Analyzer) logDebug(msg string, fields map[string]any) {
	if a.logger != nil {
		a.logger.Debug(msg, fields)
	}
}

func (a *Analyzer) logWarn(msg string, fields map[string]any) {
	if a.logger != nil {
		a.logger.Warn(msg, fields)
	}
}
