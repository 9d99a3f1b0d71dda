package ui

import "strings"

// Align type for table column alignment
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// TableColumn defines a column in a table
type TableColumn struct {
	Key    string
	Header string
	Align  Align
}

// RenderTableOptions configures table rendering
type RenderTableOptions struct {
	Columns []TableColumn
	Rows    []map[string]string
}

type boxChars struct {
	tl, tr, bl, br  string
	h, v            string
	t, ml, m, mr, b string
}

var (
	unicodeBox = boxChars{
		tl: "┌", tr: "┐", bl: "└", br: "┘",
		h: "─", v: "│",
		t: "┬", ml: "├", m: "┼", mr: "┤", b: "┴",
	}
	asciiBox = boxChars{
		tl: "+", tr: "+", bl: "+", br: "+",
		h: "-", v: "|",
		t: "+", ml: "+", m: "+", mr: "+", b: "+",
	}
)

// RenderTable renders a bordered table, falling back to ASCII borders
// when colors are off.
func RenderTable(opts RenderTableOptions) string {
	box := unicodeBox
	if !IsRich() {
		box = asciiBox
	}

	widths := make([]int, len(opts.Columns))
	for i, col := range opts.Columns {
		widths[i] = VisibleWidth(col.Header)
		for _, row := range opts.Rows {
			if w := VisibleWidth(row[col.Key]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	hLine := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat(box.h, w+2)
		}
		return left + strings.Join(parts, mid) + right
	}

	renderRow := func(values []string) string {
		parts := make([]string, len(values))
		for i, val := range values {
			pad := widths[i] - VisibleWidth(val)
			switch opts.Columns[i].Align {
			case AlignRight:
				val = spaces(pad) + val
			case AlignCenter:
				val = spaces(pad/2) + val + spaces(pad-pad/2)
			default:
				val = val + spaces(pad)
			}
			parts[i] = " " + val + " "
		}
		return box.v + strings.Join(parts, box.v) + box.v
	}

	headers := make([]string, len(opts.Columns))
	for i, col := range opts.Columns {
		headers[i] = col.Header
	}

	lines := []string{hLine(box.tl, box.t, box.tr), renderRow(headers), hLine(box.ml, box.m, box.mr)}
	for _, row := range opts.Rows {
		values := make([]string, len(opts.Columns))
		for i, col := range opts.Columns {
			values[i] = row[col.Key]
		}
		lines = append(lines, renderRow(values))
	}
	lines = append(lines, hLine(box.bl, box.b, box.br))

	return strings.Join(lines, "\n") + "\n"
}
