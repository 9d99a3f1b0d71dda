package palette

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by Parse for anything that is not #rrggbb
var ErrInvalidColor = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Color is an RGB color with 8-bit channels.
// Its canonical text form is a lowercase "#rrggbb" string.
type Color struct {
	R, G, B uint8
}

var (
	// Black is also the fallback for any invalid input
	Black = Color{0, 0, 0}
	// White is the light contrast color
	White = Color{255, 255, 255}
)

// Validate returns the color described by input, or Black when input is
// not "#" followed by exactly six hex digits. It never fails.
func Validate(input string) Color {
	c, err := Parse(input)
	if err != nil {
		return Black
	}
	return c
}

// Parse is the strict form of Validate
func Parse(input string) (Color, error) {
	if !hexPattern.MatchString(input) {
		return Black, fmt.Errorf("%w: %q", ErrInvalidColor, input)
	}
	v, err := strconv.ParseUint(input[1:], 16, 32)
	if err != nil {
		return Black, fmt.Errorf("%w: %q", ErrInvalidColor, input)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// IsValid reports whether input is already a well-formed hex color
func IsValid(input string) bool {
	return hexPattern.MatchString(input)
}

// String returns the canonical lowercase "#rrggbb" form
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the perceptual luminance in [0, 1]
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unlike Validate it rejects malformed input so stored records can be
// told apart from a genuine black.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
