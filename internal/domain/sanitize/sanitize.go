// Package sanitize strips markup from untrusted text and validates player names.
package sanitize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Name length bounds, counted in code points after sanitization.
const (
	MinNameLength = 2
	MaxNameLength = 50
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	scriptPattern     = regexp.MustCompile(`(?i)javascript:`)
	eventAttrPattern  = regexp.MustCompile(`(?i)on\w+\s*=`)
	alphanumericMatch = regexp.MustCompile(`[a-zA-Z0-9]`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// SanitizeText removes tag-like substrings, javascript: schemes and
// on<event>= attributes, then trims surrounding whitespace. Removal can splice
// a new match together ("jajavascript:vascript:"), so passes repeat until the
// text stops changing.
func SanitizeText(input string) string {
	out := input
	for {
		next := tagPattern.ReplaceAllString(out, "")
		next = scriptPattern.ReplaceAllString(next, "")
		next = eventAttrPattern.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == out {
			return out
		}
		out = next
	}
}

// ValidatePlayerName checks raw against the interactive naming rules and
// returns the first failing rule, or nil.
func ValidatePlayerName(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyName
	}

	sanitized := SanitizeText(raw)
	if sanitized == "" {
		return ErrInvalidCharacters
	}

	n := utf8.RuneCountInString(sanitized)
	if n > MaxNameLength {
		return ErrNameTooLong
	}
	if n < MinNameLength {
		return ErrNameTooShort
	}
	if !alphanumericMatch.MatchString(sanitized) {
		return ErrNoAlphanumeric
	}
	return nil
}

// StoredNameAcceptable reports whether an already sanitized name may be held
// as the player's name: non-empty and within MaxNameLength.
func StoredNameAcceptable(sanitized string) bool {
	return sanitized != "" && utf8.RuneCountInString(sanitized) <= MaxNameLength
}

// EscapeHTML replaces the five HTML-significant characters with entities.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// SanitizeNumber parses input as a float and falls back to def when it is
// unparsable, NaN or infinite.
func SanitizeNumber(input string, def float64) float64 {
	num, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return def
	}
	return num
}
