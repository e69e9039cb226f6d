package platform

import "strings"

// EscapeQuotes replaces every '"' with '\"' and leaves all other bytes,
// backslashes and control characters included, untouched. Slack and Matrix
// bodies are built with it for wire compatibility with existing senders.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
