// Package palette derives a six-color admin palette from a single base
// color.
//
// Every function here is pure apart from the random draw in the Generator;
// a Palette is fully determined by its BaseColor.
package palette

const (
	lighterPercent = 0.4
	darkerPercent  = -0.3
)

// Palette is the six-color record stored per user.
type Palette struct {
	BaseColor      Color `json:"base_color"`
	TextColor      Color `json:"text_color"`
	BaseLighter    Color `json:"base_lighter"`
	AdminbarColor  Color `json:"adminbar_color"`
	AdminbarText   Color `json:"adminbar_text"`
	AdminbarDarker Color `json:"adminbar_darker"`
}

// Assemble derives the full palette from base.
func Assemble(base Color) Palette {
	adminbar := Adjust(base, darkerPercent)

	return Palette{
		BaseColor:      base,
		TextColor:      ContrastFor(base),
		BaseLighter:    Adjust(base, lighterPercent),
		AdminbarColor:  adminbar,
		AdminbarText:   ContrastFor(adminbar),
		AdminbarDarker: Adjust(adminbar, darkerPercent),
	}
}

// Random assembles a palette around a freshly generated base color
func Random() Palette {
	return Assemble(GenerateBase())
}

// Consistent reports whether every derived field matches what Assemble
// produces for the base color.
func (p Palette) Consistent() bool {
	return p == Assemble(p.BaseColor)
}

// Slots returns the colors in stylesheet slot order, 1 through 6.
func (p Palette) Slots() [6]Color {
	return [6]Color{
		p.BaseColor,
		p.TextColor,
		p.BaseLighter,
		p.AdminbarColor,
		p.AdminbarText,
		p.AdminbarDarker,
	}
}

// SlotNames names each entry of Slots
var SlotNames = [6]string{
	"base_color",
	"text_color",
	"base_lighter",
	"adminbar_color",
	"adminbar_text",
	"adminbar_darker",
}
