// Package catalog turns free-text author and genre names into catalog references.
//
// Matching always uses the key produced by MatchKey (whitespace collapsed,
// unicode composed, case folded). Storage always uses CanonicalCase.
//
//	Normalize("  jane   austen ")   → "jane austen"
//	MatchKey("Jane  AUSTEN")        → "jane austen"
//	CanonicalCase("jANE  austen")   → "Jane Austen"
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims the string and collapses internal runs of whitespace to one space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// MatchKey returns the case-insensitive comparison key for a name or title.
func MatchKey(raw string) string {
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Fold().String(norm.NFC.String(Normalize(raw)))
}

// CanonicalCase returns the title-cased, whitespace-normalized form that is persisted.
func CanonicalCase(raw string) string {
	return cases.Title(language.English).String(norm.NFC.String(Normalize(raw)))
}
