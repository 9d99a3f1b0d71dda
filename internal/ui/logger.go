package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	clrDim    = color.New(color.FgHiBlack)
	clrSubtle = color.New(color.FgWhite)

	clrPrimary   = color.New(color.FgMagenta, color.Bold)
	clrSecondary = color.New(color.FgCyan)
	clrAccent    = color.New(color.FgCyan, color.Bold)

	clrSuccess = color.New(color.FgGreen)
	clrError   = color.New(color.FgRed)
	clrWarning = color.New(color.FgYellow)
	clrInfo    = color.New(color.FgBlue)

	badgePrimary = color.New(color.BgMagenta, color.FgWhite, color.Bold)
)

const (
	boxTopLeft     = "╭"
	boxTopRight    = "╮"
	boxBottomLeft  = "╰"
	boxBottomRight = "╯"
	boxHorizontal  = "─"
	boxVertical    = "│"
)

// Version is printed in the banner
var Version = "v1.0.0"

var (
	outMu sync.Mutex
	out   io.Writer = color.Output
	debug bool
)

// SetOutput redirects all log output; tests use it to capture lines
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// SetLevel enables debug lines for "debug" and silences them otherwise
func SetLevel(level string) {
	outMu.Lock()
	defer outMu.Unlock()
	debug = strings.EqualFold(level, "debug")
}

func writeLine(line string) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintln(out, line)
}

func timestamp() string {
	return clrDim.Sprint(time.Now().Format("15:04:05"))
}

// PrintBanner displays the service header
func PrintBanner() {
	badge := badgePrimary.Sprint(" ◆ MONO ")
	version := clrDim.Sprint(Version)

	writeLine("")
	writeLine(clrDim.Sprint(boxTopLeft + strings.Repeat(boxHorizontal, 60) + boxTopRight))
	writeLine(fmt.Sprintf("%s  %s %s  %s",
		clrDim.Sprint(boxVertical),
		badge,
		version,
		clrDim.Sprint(strings.Repeat(" ", 38-len(Version))+boxVertical)))
	writeLine(fmt.Sprintf("%s  %s%s",
		clrDim.Sprint(boxVertical),
		clrSubtle.Sprint("Admin Palette Service"),
		clrDim.Sprint(strings.Repeat(" ", 37)+boxVertical)))
	writeLine(clrDim.Sprint(boxBottomLeft + strings.Repeat(boxHorizontal, 60) + boxBottomRight))
	writeLine("")
}

// LogStatus displays a status message with appropriate styling
func LogStatus(category, message string) {
	var icon string
	var styledMsg string

	switch category {
	case "success":
		icon = clrSuccess.Sprint("✔")
		styledMsg = clrSuccess.Sprint(message)
	case "error":
		icon = clrError.Sprint("✖")
		styledMsg = clrError.Sprint(message)
	case "warning", "warn":
		icon = clrWarning.Sprint("⚠")
		styledMsg = clrWarning.Sprint(message)
	case "info":
		icon = clrInfo.Sprint("ℹ")
		styledMsg = clrSubtle.Sprint(message)
	default:
		icon = clrDim.Sprint("●")
		styledMsg = clrSubtle.Sprint(message)
	}

	writeLine(fmt.Sprintf("%s  %s  %s", timestamp(), icon, styledMsg))
}

// LogDebug logs only when the level is debug
func LogDebug(message string) {
	outMu.Lock()
	enabled := debug
	outMu.Unlock()
	if !enabled {
		return
	}
	writeLine(fmt.Sprintf("%s  %s  %s", timestamp(), clrDim.Sprint("·"), clrDim.Sprint(message)))
}

// LogGroup starts a grouped block of messages
func LogGroup(title string) {
	writeLine("")
	pad := 50 - len(title)
	if pad < 0 {
		pad = 0
	}
	writeLine(clrDim.Sprintf("%s%s %s %s%s",
		boxTopLeft,
		strings.Repeat(boxHorizontal, 2),
		clrPrimary.Sprint(title),
		clrDim.Sprint(strings.Repeat(boxHorizontal, pad)),
		boxTopRight))
}

// LogGroupItem logs an item within a group
func LogGroupItem(label, value string) {
	writeLine(fmt.Sprintf("%s  %s %s",
		clrDim.Sprint(boxVertical),
		clrDim.Sprint(label+":"),
		clrAccent.Sprint(value)))
}

// LogGroupEnd closes a grouped block
func LogGroupEnd() {
	writeLine(clrDim.Sprint(boxBottomLeft + strings.Repeat(boxHorizontal, 56) + boxBottomRight))
	writeLine("")
}

// LogRequest prints one line per palette API call
func LogRequest(method, path, user string, status int, elapsed time.Duration) {
	var icon string
	switch {
	case status >= 500:
		icon = clrError.Sprint("✖")
	case status >= 400:
		icon = clrWarning.Sprint("⚠")
	default:
		icon = clrSuccess.Sprint("→")
	}
	if user == "" {
		user = "-"
	}

	writeLine(fmt.Sprintf("%s  %s  %s %s  %s  %s %s",
		timestamp(),
		icon,
		clrAccent.Sprintf("%-6s", method),
		clrSecondary.Sprintf("%-28s", path),
		clrDim.Sprintf("%-16s", user),
		clrSubtle.Sprintf("%d", status),
		clrDim.Sprint(elapsed.Round(time.Microsecond).String())))
}

// LogGracefulShutdown announces shutdown
func LogGracefulShutdown() {
	LogStatus("info", "Shutting down gracefully...")
}
