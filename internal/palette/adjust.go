package palette

import "math"

// ContrastFor returns Black for light colors and White for dark ones.
func ContrastFor(c Color) Color {
	if c.Luminance() > 0.5 {
		return Black
	}
	return White
}

// Adjust shifts c by percent, a signed fraction usually within [-1, 1].
//
// A positive percent lightens each channel by that fraction of its
// distance to 255. Zero or a negative percent scales each channel toward 0.
// The two directions are not inverses of each other.
func Adjust(c Color, percent float64) Color {
	shade := func(ch uint8) uint8 {
		v := float64(ch)
		if percent > 0 {
			v = math.Round(v + (255-v)*percent)
		} else {
			v = math.Round(v * (1 + percent))
		}
		return clamp(v)
	}

	out := Color{R: shade(c.R), G: shade(c.G), B: shade(c.B)}
	return Validate(out.String())
}

func clamp(v float64) uint8 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
