package card

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLineLen is the line threshold used when Truncate gets a
// non-positive maxLen.
const DefaultMaxLineLen = 30

// Truncate splits text into at most two lines.
//
// Words are packed greedily into the first line while the space-joined line
// stays within maxLen runes. The first word always goes on line one, even if
// it alone is longer than maxLen. Once a word does not fit, it and every
// word after it are joined onto line two without any further wrapping, so
// line two is unbounded.
func Truncate(text string, maxLen int) (string, string) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLen
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return "", ""
	}

	lineLen := utf8.RuneCountInString(words[0])
	split := 1
	for ; split < len(words); split++ {
		next := lineLen + 1 + utf8.RuneCountInString(words[split])
		if next > maxLen {
			break
		}
		lineLen = next
	}

	return strings.Join(words[:split], " "), strings.Join(words[split:], " ")
}
