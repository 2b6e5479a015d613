package models

// Setting is one per-channel configuration entry supplied by the webhook caller.
// Type is advisory only; values are coerced by label.
type Setting struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
	Required    bool   `json:"required"`
}

// FilterConfig is the resolved, immutable configuration for one moderation run.
type FilterConfig struct {
	BannedWords    []string
	MinSafetyScore float64
	EnableAICheck  bool
	CustomPrompt   string
	// MaxMessageLength is measured in characters; 0 disables the check.
	MaxMessageLength int
	// NotifyAdmin is carried for callers but not used by the pipeline.
	NotifyAdmin bool
	AIAPIKey    string
}
