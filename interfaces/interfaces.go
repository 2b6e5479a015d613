package interfaces

import (
	"context"
	"time"

	"github.com/elum-utils/safetymonitor/models"
)

// Generator submits a prompt to a generative language model and returns its free-form text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorProvider hands out a Generator for an API key.
// An empty key returns the most recently created client, if any.
type GeneratorProvider interface {
	ClientFor(apiKey string) (Generator, error)
}

// SafetyAnalyzer classifies one message with an external model.
// It never fails; errors are folded into the result.
type SafetyAnalyzer interface {
	Analyze(ctx context.Context, apiKey, message, customPrompt string) models.SafetyAnalysisResult
}

// Storage persists lexicon words.
type Storage interface {
	AddWord(ctx context.Context, word string) error
	RemoveWord(ctx context.Context, word string) error
	Words(ctx context.Context) ([]string, error)
	HasWord(ctx context.Context, word string) (bool, error)
}

// Recorder receives pipeline measurements.
type Recorder interface {
	RecordDecision(v models.Verdict, category string, elapsed time.Duration)
	RecordAnalysis(outcome string, elapsed time.Duration)
}

// Logger is an optional structured logger.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
