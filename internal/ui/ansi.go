package ui

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SGR codes (ESC[...m), including the 24-bit forms swatches use
var ansiSGRPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes color codes from a string
func StripAnsi(input string) string {
	return ansiSGRPattern.ReplaceAllString(input, "")
}

// VisibleWidth returns the rune count of a string, ignoring color codes
func VisibleWidth(input string) int {
	return utf8.RuneCountInString(StripAnsi(input))
}

// spaces returns a string of n spaces
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
