// Package matching correlates incoming bank notifications with pending
// deposit requests. Matching is deliberately exact: normalized payer name
// equality plus an amount tolerance. Middle-name omission, transliteration or
// diacritic variants therefore do not match; that is a known limitation of
// the upstream matching rule, kept as-is rather than replaced with fuzzy
// scoring.
package matching

import "strings"

// Normalize canonicalizes a free-text name for comparison: Unicode
// upper-casing plus surrounding-whitespace trim. Empty or absent input yields
// the empty string.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
