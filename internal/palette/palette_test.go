package palette

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"#",
		"000000",
		"#00000",
		"#0000000",
		"#gggggg",
		"not-a-color",
		" #2a2a2a",
		"#2a2a2a ",
		"#2a2a2a\n",
		"#fff",
		"rgb(1,2,3)",
		"##2a2a2a",
	}
	for _, in := range inputs {
		if got := Validate(in); got != Black {
			t.Errorf("Validate(%q) = %s, want #000000", in, got)
		}
	}
}

func TestValidate_Valid(t *testing.T) {
	inputs := []string{"#000000", "#ffffff", "#2a2a2a", "#ABCDEF", "#aBc123", "#5A5A5A"}
	for _, in := range inputs {
		got := Validate(in)
		if got.String() != strings.ToLower(in) {
			t.Errorf("Validate(%q) = %s, want %s", in, got, strings.ToLower(in))
		}
		// round-trip through the canonical form
		if again := Validate(got.String()); again != got {
			t.Errorf("Validate(%q) did not round-trip: %s vs %s", in, again, got)
		}
	}
}

func TestParse_Error(t *testing.T) {
	_, err := Parse("#12345z")
	if !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}

	c, err := Parse("#0a0b0c")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c != (Color{R: 0x0a, G: 0x0b, B: 0x0c}) {
		t.Errorf("unexpected channels: %+v", c)
	}
}

func TestContrastFor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000000", White},
		{"#ffffff", Black},
		{"#2a2a2a", White},
		{"#808080", Black}, // luminance 0.502
		{"#7f7f7f", White}, // luminance 0.498
		{"#ffff00", Black},
		{"#0000ff", White},
	}
	for _, tt := range tests {
		if got := ContrastFor(Validate(tt.in)); got != tt.want {
			t.Errorf("ContrastFor(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestContrastFor_OnlyBlackOrWhite(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		c := Color{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256))}
		got := ContrastFor(c)
		if got != Black && got != White {
			t.Fatalf("ContrastFor(%s) = %s", c, got)
		}
	}
}

func TestAdjust_Golden(t *testing.T) {
	tests := []struct {
		in      string
		percent float64
		want    string
	}{
		{"#808080", 0.4, "#b3b3b3"},
		{"#808080", -0.3, "#5a5a5a"},
		{"#2a2a2a", 0.4, "#7f7f7f"},
		{"#2a2a2a", -0.3, "#1d1d1d"},
		{"#1d1d1d", -0.3, "#141414"},
		{"#000000", 0.4, "#666666"},
		{"#123456", 0, "#123456"},
		{"#ffffff", 1, "#ffffff"},
		{"#ffffff", -1, "#000000"},
	}
	for _, tt := range tests {
		if got := Adjust(Validate(tt.in), tt.percent).String(); got != tt.want {
			t.Errorf("Adjust(%s, %v) = %s, want %s", tt.in, tt.percent, got, tt.want)
		}
	}
}

func TestAdjust_Asymmetric(t *testing.T) {
	base := Validate("#808080")
	back := Adjust(Adjust(base, 0.3), -0.3)
	if back == base {
		t.Fatalf("expected +30%% then -30%% to drift from %s", base)
	}
	// 128 -> round(128+127*0.3)=166 -> round(166*0.7)=116
	if back.String() != "#747474" {
		t.Errorf("got %s, want #747474", back)
	}
}

func TestAdjust_ChannelsInRange(t *testing.T) {
	percents := []float64{-5, -1, -0.5, -0.3, -0.0001, 0, 0.0001, 0.4, 0.99, 1, 3, math.Inf(1), math.Inf(-1), math.NaN()}
	for v := 0; v < 256; v++ {
		c := Color{uint8(v), uint8(255 - v), uint8(v / 2)}
		for _, p := range percents {
			got := Adjust(c, p)
			if !IsValid(got.String()) {
				t.Fatalf("Adjust(%s, %v) produced non-canonical %q", c, p, got.String())
			}
		}
	}
	if got := Adjust(Validate("#102030"), 2); got != White {
		t.Errorf("lightening past 100%% should clamp to white, got %s", got)
	}
	if got := Adjust(Validate("#102030"), -2); got != Black {
		t.Errorf("darkening past 100%% should clamp to black, got %s", got)
	}
}

// seqSource replays a fixed list of draws.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestGenerator_RejectsTooDark(t *testing.T) {
	src := &seqSource{vals: []int{10, 10, 10, 0, 0, 0, 50, 50, 50}}
	var observed int
	g := &Generator{Source: src, Observe: func(n int) { observed = n }}

	c, err := g.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if c.String() != "#323232" {
		t.Errorf("got %s, want #323232", c)
	}
	if observed != 3 {
		t.Errorf("expected 3 draws, observed %d", observed)
	}
}

func TestGenerator_MaxAttempts(t *testing.T) {
	g := &Generator{Source: &seqSource{vals: []int{0}}, MaxAttempts: 5}

	_, err := g.Next()
	if !errors.Is(err, ErrSamplingExhausted) {
		t.Fatalf("expected ErrSamplingExhausted, got %v", err)
	}
	if src := g.Source.(*seqSource); src.i != 15 {
		t.Errorf("expected 15 channel draws, got %d", src.i)
	}
}

func TestGenerator_Bounds(t *testing.T) {
	g := &Generator{
		Source:      rand.New(rand.NewPCG(1, 2)),
		MaxAttempts: 1000,
	}
	for i := 0; i < 2000; i++ {
		c, err := g.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if c.R > 90 || c.G > 90 || c.B > 90 {
			t.Fatalf("channel out of range: %s", c)
		}
		if c.Luminance() < 0.05 {
			t.Fatalf("luminance too low for %s: %f", c, c.Luminance())
		}
	}
}

func TestGenerateBase(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := GenerateBase()
		if c.R > 90 || c.G > 90 || c.B > 90 || c.Luminance() < 0.05 {
			t.Fatalf("GenerateBase returned %s", c)
		}
		if ContrastFor(c) != White {
			t.Fatalf("generated base %s should take white text", c)
		}
	}
}

func TestAssemble_Golden(t *testing.T) {
	tests := []struct {
		base string
		want Palette
	}{
		{
			base: "#2a2a2a",
			want: Palette{
				BaseColor:      Validate("#2a2a2a"),
				TextColor:      White,
				BaseLighter:    Validate("#7f7f7f"),
				AdminbarColor:  Validate("#1d1d1d"),
				AdminbarText:   White,
				AdminbarDarker: Validate("#141414"),
			},
		},
		{
			base: "#000000",
			want: Palette{
				BaseColor:      Black,
				TextColor:      White,
				BaseLighter:    Validate("#666666"),
				AdminbarColor:  Black,
				AdminbarText:   White,
				AdminbarDarker: Black,
			},
		},
		{
			base: "#e0e0e0",
			want: Palette{
				BaseColor:      Validate("#e0e0e0"),
				TextColor:      Black,
				BaseLighter:    Validate("#ececec"),
				AdminbarColor:  Validate("#9d9d9d"),
				AdminbarText:   Black,
				AdminbarDarker: Validate("#6e6e6e"),
			},
		},
	}
	for _, tt := range tests {
		got := Assemble(Validate(tt.base))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Assemble(%s) mismatch (-want +got):\n%s", tt.base, diff)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	base := GenerateBase()
	a, b := Assemble(base), Assemble(base)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Assemble not deterministic:\n%s", diff)
	}
	if !a.Consistent() {
		t.Error("assembled palette should be consistent")
	}
}

func TestAssemble_InvalidInput(t *testing.T) {
	got := Assemble(Validate("not-a-color"))
	want := Assemble(Validate("#000000"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invalid input should behave like black:\n%s", diff)
	}
}

func TestPalette_Consistent(t *testing.T) {
	p := Assemble(Validate("#334455"))
	p.TextColor = Black
	if p.Consistent() {
		t.Fatal("tampered palette reported as consistent")
	}
}

func TestPalette_JSON(t *testing.T) {
	p := Assemble(Validate("#2A2A2A"))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"base_color":"#2a2a2a","text_color":"#ffffff","base_lighter":"#7f7f7f",` +
		`"adminbar_color":"#1d1d1d","adminbar_text":"#ffffff","adminbar_darker":"#141414"}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}

	var bad Palette
	err = json.Unmarshal([]byte(`{"base_color":"blue"}`), &bad)
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor for malformed record, got %v", err)
	}
}
