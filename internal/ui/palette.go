package ui

import (
	"strings"

	"github.com/fatih/color"

	"monochrome/internal/palette"
)

// Swatch returns a block filled with c, with sample text in fg.
// Without color support it returns an empty string.
func Swatch(c, fg palette.Color, text string) string {
	if !IsRich() {
		return ""
	}
	style := color.BgRGB(int(c.R), int(c.G), int(c.B)).AddRGB(int(fg.R), int(fg.G), int(fg.B))
	return style.Sprint(text)
}

// FormatPalette renders the six slots as a table of name, hex and swatch
func FormatPalette(p palette.Palette) string {
	// The text slot each background is read against
	fgFor := map[int]palette.Color{
		0: p.TextColor,
		1: p.BaseColor,
		2: p.TextColor,
		3: p.AdminbarText,
		4: p.AdminbarColor,
		5: p.AdminbarText,
	}

	rows := make([]map[string]string, 0, len(palette.SlotNames))
	for i, c := range p.Slots() {
		rows = append(rows, map[string]string{
			"slot":   palette.SlotNames[i],
			"hex":    c.String(),
			"swatch": Swatch(c, fgFor[i], "  Aa  "),
		})
	}

	cols := []TableColumn{
		{Key: "slot", Header: "Slot"},
		{Key: "hex", Header: "Hex"},
	}
	if IsRich() {
		cols = append(cols, TableColumn{Key: "swatch", Header: "Swatch", Align: AlignCenter})
	}

	return RenderTable(RenderTableOptions{Columns: cols, Rows: rows})
}

// PrintPalette writes FormatPalette to the log output under a heading
func PrintPalette(title string, p palette.Palette) {
	writeLine("")
	writeLine(Heading("%s", title) + " " + Muted("(%s)", p.BaseColor))
	writeLine(strings.TrimRight(FormatPalette(p), "\n"))
}
