// Package filter implements the fast, deterministic content checks that run
// before any AI analysis.
package filter

import (
	"regexp"
	"strings"

	"github.com/elum-utils/safetymonitor/models"
)

const (
	ReasonProfanity     = "🚫 Message contains inappropriate language"
	ReasonSensitiveData = "🔒 Message contains sensitive information"
	ReasonSpam          = "📢 Message appears to be spam"

	// spamRunLength is the number of identical consecutive characters treated as spam.
	spamRunLength = 5
)

// Lexicon matches profanity.
type Lexicon interface {
	Contains(message string) bool
}

// Sensitive-data detectors, evaluated in order. The card pattern accepts any
// 16-digit run without a checksum.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{16}\b`),
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`),
}

var spamPhrases = []string{
	"win free",
	"click here",
	"act now",
	"limited time",
	"buy now",
	"subscribe now",
	"special offer",
}

// Filter runs the static checks.
type Filter struct {
	lexicon Lexicon
}

// New creates a filter backed by the given lexicon. A nil lexicon disables the profanity check.
func New(lexicon Lexicon) *Filter {
	return &Filter{lexicon: lexicon}
}

// Check classifies the message. The first matching check wins.
func (f *Filter) Check(message string) models.SafetyAnalysisResult {
	if f.lexicon != nil && f.lexicon.Contains(message) {
		return models.SafetyAnalysisResult{
			IsSafe:   false,
			Score:    0,
			Category: models.CategoryProfanity,
			Reason:   ReasonProfanity,
		}
	}

	if ContainsSensitiveData(message) {
		return models.SafetyAnalysisResult{
			IsSafe:   false,
			Score:    0,
			Category: models.CategorySensitiveData,
			Reason:   ReasonSensitiveData,
		}
	}

	if IsSpamLike(message) {
		return models.SafetyAnalysisResult{
			IsSafe:   false,
			Score:    0.3,
			Category: models.CategorySpam,
			Reason:   ReasonSpam,
		}
	}

	return models.SafetyAnalysisResult{
		IsSafe:   true,
		Score:    1,
		Category: models.CategorySafe,
	}
}

// ContainsSensitiveData reports whether any PII pattern matches.
func ContainsSensitiveData(message string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// IsSpamLike reports repeated-character runs or known spam phrases.
func IsSpamLike(message string) bool {
	if hasRepeatedRun(message, spamRunLength) {
		return true
	}
	lower := strings.ToLower(message)
	for _, phrase := range spamPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// hasRepeatedRun reports n identical consecutive characters. Line terminators
// never form a run.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	count := 0
	for _, r := range s {
		if isLineTerminator(r) {
			count = 0
			continue
		}
		if count > 0 && r == prev {
			count++
		} else {
			prev = r
			count = 1
		}
		if count >= n {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}
