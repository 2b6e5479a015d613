package models

// Status is the externally visible moderation status.
type Status string

const (
	StatusSuccess Status = "success"
	StatusBlocked Status = "blocked"
)

// Action is the internal three-way decision. Flagged messages are reported
// to the caller as StatusSuccess with the analyzer's reason attached.
type Action string

const (
	ActionAllowed Action = "allowed"
	ActionFlagged Action = "flagged"
	ActionBlocked Action = "blocked"
)

// Stage names the pipeline stage that produced the decision.
type Stage string

const (
	StageStatic      Stage = "static"
	StageBannedWords Stage = "banned_words"
	StageLength      Stage = "length"
	StageAI          Stage = "ai"
	StagePassthrough Stage = "passthrough"
	StageInternal    Stage = "internal"
)

// Verdict is the pipeline output for a single message.
type Verdict struct {
	Status  Status `json:"status"`
	Message string `json:"message"`

	Action   Action                `json:"-"`
	Stage    Stage                 `json:"-"`
	Analysis *SafetyAnalysisResult `json:"-"`
}

// Blocked reports whether the verdict rejects the message.
func (v Verdict) Blocked() bool {
	return v.Status == StatusBlocked
}
