package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold produces a form suitable for equality comparison: lowercased
// with all whitespace removed. "Tamil Nadu" and "TAMILNADU" fold to
// the same string.
func Fold(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Clean trims a display string and collapses runs of inner whitespace
// into single spaces.
func Clean(name string) string {
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

func ContainsFolded(name, substr string) bool {
	return strings.Contains(Fold(name), Fold(substr))
}
