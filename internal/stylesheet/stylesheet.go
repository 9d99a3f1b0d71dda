// Package stylesheet renders a palette into the admin color scheme CSS.
//
// The templates are fixed; the only inputs are the scheme slug and the six
// palette colors.
package stylesheet

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"monochrome/internal/palette"
)

var (
	//go:embed admin.css.tmpl
	adminCSS string

	//go:embed picker.css.tmpl
	pickerCSS string

	adminTmpl  = template.Must(template.New("admin").Parse(adminCSS))
	pickerTmpl = template.Must(template.New("picker").Parse(pickerCSS))

	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

const (
	DefaultSlug = "mymono"
	DefaultName = "Mono"
)

// Scheme identifies the color scheme the stylesheet is scoped to.
type Scheme struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Descriptor is what the host lists in its scheme picker.
type Descriptor struct {
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Colors []palette.Color `json:"colors"`
}

// Validate checks the slug is safe to embed in a CSS class name
func (s Scheme) Validate() error {
	if !slugPattern.MatchString(s.Slug) {
		return fmt.Errorf("invalid scheme slug %q: use lowercase letters, digits and dashes", s.Slug)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scheme name is required")
	}
	return nil
}

// Descriptor returns the registration record for p. Only the base color is
// shown as the swatch.
func (s Scheme) Descriptor(p palette.Palette) Descriptor {
	return Descriptor{
		Slug:   s.Slug,
		Name:   s.Name,
		Colors: []palette.Color{p.BaseColor},
	}
}

// Renderer formats palettes into CSS for one scheme.
type Renderer struct {
	Scheme Scheme
}

// NewRenderer returns a Renderer, falling back to the default scheme for
// empty fields.
func NewRenderer(scheme Scheme) (*Renderer, error) {
	if scheme.Slug == "" {
		scheme.Slug = DefaultSlug
	}
	if scheme.Name == "" {
		scheme.Name = DefaultName
	}
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{Scheme: scheme}, nil
}

type templateData struct {
	Slug    string
	Palette palette.Palette
}

// Render fills the admin stylesheet with the palette's six colors.
func (r *Renderer) Render(p palette.Palette) (string, error) {
	var b strings.Builder
	if err := adminTmpl.Execute(&b, templateData{Slug: r.Scheme.Slug, Palette: p}); err != nil {
		return "", fmt.Errorf("render stylesheet: %w", err)
	}
	return b.String(), nil
}

// PickerStyles returns the profile page styles for the randomize and
// picker icons.
func (r *Renderer) PickerStyles() (string, error) {
	var b strings.Builder
	if err := pickerTmpl.Execute(&b, templateData{Slug: r.Scheme.Slug}); err != nil {
		return "", fmt.Errorf("render picker styles: %w", err)
	}
	return b.String(), nil
}
