package planning

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// vaguePatterns match non-answers that carry no usable information.
// Swappable for other locales.
var vaguePatterns = regexp.MustCompile(`(?i)(모르|글쎄|잘\s*모르|없음|없어|패스|pass|나중)`)

// NeedsFollowup reports whether a free-text answer is too thin to
// extract from and deserves a probing follow-up question.
func NeedsFollowup(answer string) bool {
	normalized := strings.TrimSpace(answer)
	if normalized == "" {
		return true
	}
	if utf8.RuneCountInString(normalized) < 25 || len(strings.Fields(normalized)) < 4 {
		return true
	}
	return vaguePatterns.MatchString(normalized)
}
