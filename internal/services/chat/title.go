// File: internal/services/chat/title.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// deriveTitle names a conversation after its first user message: the first
// maxRunes runes, followed by an ellipsis marker when truncated, otherwise
// the text unmodified.
func deriveTitle(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return truncateRunes(text, maxRunes) + "..."
}

// truncateRunes cuts on rune boundaries so multi-byte characters survive.
func truncateRunes(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
