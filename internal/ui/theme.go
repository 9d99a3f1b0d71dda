package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
)

// Styled text helpers. NO_COLOR and FORCE_COLOR are respected.

var (
	noColor    = os.Getenv("NO_COLOR") != ""
	forceColor = isForceColor()
)

func init() {
	if forceColor {
		color.NoColor = false
	}
}

func isForceColor() bool {
	fc := strings.TrimSpace(os.Getenv("FORCE_COLOR"))
	return fc != "" && fc != "0"
}

// IsRich returns true if the terminal supports rich output (colors)
func IsRich() bool {
	if noColor && !forceColor {
		return false
	}
	return !color.NoColor
}

// Success returns success-styled text
func Success(format string, a ...interface{}) string {
	return color.New(color.FgGreen).Sprintf(format, a...)
}

// Warn returns warning-styled text
func Warn(format string, a ...interface{}) string {
	return color.New(color.FgYellow).Sprintf(format, a...)
}

// Muted returns secondary/hint text
func Muted(format string, a ...interface{}) string {
	return color.New(color.FgHiBlack).Sprintf(format, a...)
}

// Heading returns bold text for section headers
func Heading(format string, a ...interface{}) string {
	return color.New(color.FgMagenta, color.Bold).Sprintf(format, a...)
}
