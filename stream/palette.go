package stream

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []struct {
	Hue float64
	Pos float64
}

// BrandGradient sweeps through the purples used by the brand palette.
var BrandGradient = GradientTable{
	{262.0, 0.0},
	{275.0, 0.5},
	{287.0, 1.0},
}

const (
	gradientChroma    = 0.9
	gradientLuminance = 0.55
)

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l).Clamped()
		}
	}

	// Past the last keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, c, l).Clamped()
}

// Spread picks n colours evenly along the table.
func (g GradientTable) Spread(n int) []colorful.Color {
	colours := make([]colorful.Color, n)
	for i := range colours {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colours[i] = g.GetColor(t, gradientChroma, gradientLuminance)
	}
	return colours
}

// Palette colours the cards of one sequence.
type Palette struct {
	Background colorful.Color
	cards      []colorful.Color
	gradient   GradientTable
}

// NewPalette parses hex colours for the cards, cycling them when there are
// fewer colours than cards. With no colours the cards are spread along
// BrandGradient instead.
func NewPalette(hexes []string, background string, n int) (*Palette, error) {
	bg, err := colorful.Hex(background)
	if err != nil {
		return nil, fmt.Errorf("background %q: %w", background, err)
	}

	p := &Palette{Background: bg}
	if len(hexes) == 0 {
		p.gradient = BrandGradient
		p.cards = p.gradient.Spread(n)
		return p, nil
	}

	p.cards = make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		if p.cards[i], err = colorful.Hex(h); err != nil {
			return nil, fmt.Errorf("palette colour %q: %w", h, err)
		}
	}
	return p, nil
}

// Resize respreads a gradient palette over n cards. Explicit palettes are
// left as they are.
func (p *Palette) Resize(n int) {
	if p.gradient != nil {
		p.cards = p.gradient.Spread(n)
	}
}

// Colour returns the base colour of a card.
func (p *Palette) Colour(index int) colorful.Color {
	if len(p.cards) == 0 || index < 0 {
		return p.Background
	}
	return p.cards[index%len(p.cards)]
}

// Tint blends the background toward a card's colour by opacity.
func (p *Palette) Tint(index int, opacity float64) colorful.Color {
	return p.Background.BlendHcl(p.Colour(index), opacity).Clamped()
}
