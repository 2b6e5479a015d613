package filter

import (
	"regexp"

	"github.com/elum-utils/safetymonitor/settings"
)

// wordChar is the token alphabet used for banned-word boundaries.
const wordChar = `\p{L}\p{N}_`

// ContainsBannedWords matches each banned word case-insensitively on whole-word
// boundaries. Entries may themselves be comma-delimited lists.
func ContainsBannedWords(message string, bannedWords []string) bool {
	for _, entry := range bannedWords {
		for _, word := range settings.SplitWords(entry) {
			if bannedWordPattern(word).MatchString(message) {
				return true
			}
		}
	}
	return false
}

// ContainsBannedWordList is ContainsBannedWords for a comma-delimited list.
func ContainsBannedWordList(message, bannedWords string) bool {
	return ContainsBannedWords(message, settings.SplitWords(bannedWords))
}

func bannedWordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^` + wordChar + `])` + regexp.QuoteMeta(word) + `(?:$|[^` + wordChar + `])`)
}
