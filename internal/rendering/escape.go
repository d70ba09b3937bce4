package rendering

import "strings"

// EscapeMarkdown backslash-escapes characters that Markdown would otherwise
// interpret. Plain-text fields (subject, strategy note) go through it; the
// email and follow-ups are Markdown already.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '{', '}', '[', ']', '<', '>', '(', ')', '#', '+', '-', '.', '!', '|', '~':
			result.WriteByte('\\')
		}
		result.WriteRune(r)
	}
	return result.String()
}
