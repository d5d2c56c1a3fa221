// Package branchname normalizes user-supplied branch names before they
// reach git.
package branchname

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxBranchNameLength = 60

var nonAlphaHyphen = regexp.MustCompile(`[^a-z0-9/-]`)
var multiHyphen = regexp.MustCompile(`-{2,}`)

// Slugify converts a free-form name into a branch-safe slug.
// Examples: "Fix São Paulo TZ handling" → "fix-sao-paulo-tz-handling".
// A single "/" namespace separator is preserved ("shoji/Fix Login" →
// "shoji/fix-login").
func Slugify(name string) string {
	name = strings.TrimSpace(name)

	// NFD decomposition then remove diacritical marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, name)
	if err != nil {
		result = name
	}

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = nonAlphaHyphen.ReplaceAllString(result, "")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-/")

	return result
}

// Sanitize slugifies and caps the length of a requested branch name.
// Returns the empty string when nothing usable remains; callers must
// treat that as a validation failure, not pass it to git.
func Sanitize(name string) string {
	result := Slugify(name)
	if len(result) > maxBranchNameLength {
		result = result[:maxBranchNameLength]
		result = strings.TrimRight(result, "-/")
	}
	return result
}
