package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultPassToken is the marker the reviewer is asked to reply with.
const DefaultPassToken = "PASS"

// VerdictMode decides how a free-text review is read as pass or fail.
type VerdictMode string

const (
	// VerdictSubstring passes when the token appears anywhere in the reply,
	// ignoring case. "this does NOT PASS" is a false positive in this mode.
	VerdictSubstring VerdictMode = "substring"
	// VerdictLeading passes only when the first word of the reply is the token.
	VerdictLeading VerdictMode = "leading"
)

// ParseVerdictMode converts a config string into a VerdictMode.
func ParseVerdictMode(s string) (VerdictMode, error) {
	switch VerdictMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", VerdictSubstring:
		return VerdictSubstring, nil
	case VerdictLeading:
		return VerdictLeading, nil
	default:
		return "", fmt.Errorf("unknown verdict mode %q (want %q or %q)", s, VerdictSubstring, VerdictLeading)
	}
}

// IsPass reports whether a review reply counts as a pass under mode.
func IsPass(reply, token string, mode VerdictMode) bool {
	if token == "" {
		token = DefaultPassToken
	}
	switch mode {
	case VerdictLeading:
		return leadingWord(reply) == strings.ToUpper(token)
	default:
		return strings.Contains(strings.ToUpper(reply), strings.ToUpper(token))
	}
}

// leadingWord returns the first word of s, upper-cased, with surrounding
// punctuation and Markdown emphasis removed.
func leadingWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimFunc(fields[0], func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToUpper(word)
}
