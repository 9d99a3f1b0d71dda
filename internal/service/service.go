// Package service ties the palette core to its store and stylesheet
// renderer. Every operation takes the user identity explicitly.
package service

import (
	"context"
	"errors"
	"fmt"

	"monochrome/internal/palette"
	"monochrome/internal/store"
	"monochrome/internal/stylesheet"
	"monochrome/internal/ui"
)

// Sources label why a palette was written
const (
	SourceRandom = "random"
	SourcePicker = "picker"
	SourceRepair = "repair"
)

// Result is what the randomize and set commands hand back to the caller
type Result struct {
	Palette palette.Palette `json:"palette"`
	CSS     string          `json:"css"`
	Base    palette.Color   `json:"base"`
}

// Service manages per-user palettes.
type Service struct {
	store     store.Repository
	renderer  *stylesheet.Renderer
	generator *palette.Generator
}

// New creates a Service. A nil generator uses the global random source.
func New(repo store.Repository, renderer *stylesheet.Renderer, gen *palette.Generator) *Service {
	if gen == nil {
		gen = palette.NewGenerator()
	}
	if gen.Observe == nil {
		gen.Observe = func(n int) { MetricSamplingAttempts.Observe(float64(n)) }
	}
	return &Service{store: repo, renderer: renderer, generator: gen}
}

// Renderer returns the stylesheet renderer in use
func (s *Service) Renderer() *stylesheet.Renderer {
	return s.renderer
}

// Palette returns the user's stored palette, generating and saving one
// when it is missing or malformed.
func (s *Service) Palette(ctx context.Context, userID string) (palette.Palette, error) {
	stored, err := s.store.Get(ctx, userID)
	switch {
	case errors.Is(err, store.ErrMalformedRecord):
		ui.LogStatus("warning", "Discarding malformed palette for "+userID+": "+err.Error())
		stored = nil
	case err != nil:
		MetricStoreErrors.WithLabelValues("get").Inc()
		return palette.Palette{}, fmt.Errorf("load palette for %s: %w", userID, err)
	}

	if stored == nil {
		p, err := s.random()
		if err != nil {
			return palette.Palette{}, err
		}
		return p, s.save(ctx, userID, p, SourceRandom)
	}

	if !stored.Consistent() {
		// Derived fields are a function of the base; rebuild them
		p := palette.Assemble(stored.BaseColor)
		ui.LogDebug("Rebuilt inconsistent palette for " + userID + " from " + p.BaseColor.String())
		return p, s.save(ctx, userID, p, SourceRepair)
	}

	return *stored, nil
}

// Randomize replaces the user's palette with a new random one.
func (s *Service) Randomize(ctx context.Context, userID string) (Result, error) {
	p, err := s.random()
	if err != nil {
		return Result{}, err
	}
	if err := s.save(ctx, userID, p, SourceRandom); err != nil {
		return Result{}, err
	}
	return s.result(p)
}

// SetBase replaces the user's palette with one built around input.
// Invalid or empty input becomes #000000.
func (s *Service) SetBase(ctx context.Context, userID, input string) (Result, error) {
	p := palette.Assemble(palette.Validate(input))
	if err := s.save(ctx, userID, p, SourcePicker); err != nil {
		return Result{}, err
	}
	return s.result(p)
}

// Stylesheet renders the user's palette, generating one if needed.
func (s *Service) Stylesheet(ctx context.Context, userID string) (string, error) {
	p, err := s.Palette(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(p)
}

// Reset forgets the user's palette; the next read generates a new one.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		MetricStoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("reset palette for %s: %w", userID, err)
	}
	return nil
}

func (s *Service) random() (palette.Palette, error) {
	base, err := s.generator.Next()
	if err != nil {
		return palette.Palette{}, fmt.Errorf("generate base color: %w", err)
	}
	return palette.Assemble(base), nil
}

func (s *Service) save(ctx context.Context, userID string, p palette.Palette, source string) error {
	if err := s.store.Save(ctx, userID, p); err != nil {
		MetricStoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("save palette for %s: %w", userID, err)
	}
	MetricPalettesTotal.WithLabelValues(source).Inc()
	return nil
}

func (s *Service) result(p palette.Palette) (Result, error) {
	css, err := s.renderer.Render(p)
	if err != nil {
		return Result{}, err
	}
	return Result{Palette: p, CSS: css, Base: p.BaseColor}, nil
}
