// Package match normalizes company names, domains and free text so records
// from different services can be compared.
package match

import (
	"regexp"
	"strings"
)

var (
	legalSuffix     = regexp.MustCompile(`(?i)\s+(inc|llc|ltd|corp|co|company)\.?$`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace      = regexp.MustCompile(`\s+`)
	trailingParen   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	anyParen        = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	incSuffix       = regexp.MustCompile(`,\s*Inc\.?$`)
	htmlTag         = regexp.MustCompile(`<[^>]+>`)
)

// NormalizeName reduces a company name to a comparison key: lower case,
// without a trailing legal suffix, punctuation or repeated spaces.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = legalSuffix.ReplaceAllString(name, "")
	name = nonAlphanumeric.ReplaceAllString(name, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
}

// SameName reports whether two names normalize to the same key.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// CleanCompanyName removes a trailing parenthetical such as "(YC W24)".
func CleanCompanyName(name string) string {
	return strings.TrimSpace(trailingParen.ReplaceAllString(name, ""))
}

// CleanSheetName strips decorations people and data vendors add to company
// names: parentheticals, emoji and other non-ASCII characters, trademark
// marks, a trailing ", Inc." and trailing punctuation.
func CleanSheetName(name string) string {
	clean := strings.TrimSpace(anyParen.ReplaceAllString(name, " "))

	clean = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, clean)

	clean = strings.TrimSpace(clean)
	clean = strings.TrimSpace(incSuffix.ReplaceAllString(clean, ""))
	clean = strings.TrimSpace(whitespace.ReplaceAllString(clean, " "))

	return strings.TrimSpace(strings.TrimRight(clean, ".,"))
}

// FirstName returns the first word of a full name.
func FirstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Truncate flattens s onto one line and cuts it to max characters,
// marking the cut with "...".
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)

	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// StripHTML removes markup tags.
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}
