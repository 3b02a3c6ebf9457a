package sandbox

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinCodeLength is the number of characters, after comments and redundant
// whitespace are removed, below which a source file counts as empty
const MinCodeLength = 10

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`(?m)(^|\s)//.*$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// StripComments removes block comments and line comments that begin a
// line or follow whitespace. It does not understand string literals, so
// "http://x" survives while a "//" inside a string after a space does not.
func StripComments(code string) string {
	code = blockComment.ReplaceAllString(code, "")
	return lineComment.ReplaceAllString(code, "$1")
}

// CompactWhitespace collapses whitespace runs to a single space and trims
func CompactWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// IsEmptyCode reports whether code has fewer than MinCodeLength
// characters once comments and whitespace are removed
func IsEmptyCode(code string) bool {
	return utf8.RuneCountInString(CompactWhitespace(StripComments(code))) < MinCodeLength
}
