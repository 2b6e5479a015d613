package models

// Category labels what kind of content a check reacted to.
type Category = string

const (
	CategoryProfanity     Category = "PROFANITY"
	CategorySensitiveData Category = "SENSITIVE_DATA"
	CategorySpam          Category = "SPAM"
	CategorySafe          Category = "SAFE"
	CategorySafetyBlock   Category = "SAFETY_BLOCK"
)

// SafetyAnalysisResult is the uniform outcome of the static filter and the AI analyzer.
// Score is always within [0,1].
type SafetyAnalysisResult struct {
	IsSafe   bool     `json:"isSafe"`
	Score    float64  `json:"score"`
	Category Category `json:"category,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}
