package reporter

import "strings"

// bugKeywords are the lower-case substrings marking a message as bug-related.
var bugKeywords = []string{"bug", "fix", "error", "issue", "defect"}

// IsBugRelated reports whether the lower-cased message contains one of the
// bug keywords. Substrings count, so "prefix" and "debugging" match too.
func IsBugRelated(message string) bool {
	if message == "" {
		return false
	}

	lower := strings.ToLower(message)

	for _, kw := range bugKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
