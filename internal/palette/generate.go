package palette

import (
	"errors"
	"math/rand/v2"
)

const (
	// maxChannel is the inclusive upper bound of a generated channel
	maxChannel = 90
	// minLuminance keeps generated bases from collapsing into flat black
	minLuminance = 0.05
)

// ErrSamplingExhausted is returned when a Generator with MaxAttempts set
// draws that many rejected candidates in a row.
var ErrSamplingExhausted = errors.New("no acceptable base color within attempt limit")

// Source supplies uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource uses the top-level math/rand/v2 functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator draws random dark base colors by rejection sampling.
type Generator struct {
	// Source defaults to the global generator when nil
	Source Source

	// MaxAttempts caps the number of draws; 0 means no cap
	MaxAttempts int

	// Observe, if set, receives the number of draws taken for each
	// accepted color
	Observe func(attempts int)
}

// NewGenerator returns a Generator on the global random source
func NewGenerator() *Generator {
	return &Generator{Source: globalSource{}}
}

// Next draws candidates until one reaches the minimum luminance.
func (g *Generator) Next() (Color, error) {
	src := g.Source
	if src == nil {
		src = globalSource{}
	}

	for attempts := 1; ; attempts++ {
		c := Color{
			R: uint8(src.IntN(maxChannel + 1)),
			G: uint8(src.IntN(maxChannel + 1)),
			B: uint8(src.IntN(maxChannel + 1)),
		}
		if c.Luminance() >= minLuminance {
			if g.Observe != nil {
				g.Observe(attempts)
			}
			return Validate(c.String()), nil
		}
		if g.MaxAttempts > 0 && attempts >= g.MaxAttempts {
			return Black, ErrSamplingExhausted
		}
	}
}

// GenerateBase returns a random dark color with every channel in [0, 90]
// and luminance of at least 0.05.
func GenerateBase() Color {
	// An uncapped generator cannot return an error
	c, _ := NewGenerator().Next()
	return c
}
