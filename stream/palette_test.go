package stream

import (
	"testing"
)

func TestNewPaletteCyclesExplicitColours(t *testing.T) {
	p, err := NewPalette([]string{"#915EFF", "#7c3aed"}, "#000000", 6)
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if p.Colour(0).Hex() != "#915eff" || p.Colour(1).Hex() != "#7c3aed" {
		t.Errorf("unexpected colours %s %s", p.Colour(0).Hex(), p.Colour(1).Hex())
	}
	if p.Colour(4) != p.Colour(0) || p.Colour(5) != p.Colour(1) {
		t.Error("expected colours to cycle")
	}
}

func TestNewPaletteRejectsBadHex(t *testing.T) {
	if _, err := NewPalette(nil, "nope", 3); err == nil {
		t.Error("expected bad background to fail")
	}
	if _, err := NewPalette([]string{"#12"}, "#000000", 3); err == nil {
		t.Error("expected bad palette colour to fail")
	}
}

func TestGradientPaletteSpreadsAndResizes(t *testing.T) {
	p, err := NewPalette(nil, "#000000", 4)
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if len(p.cards) != 4 {
		t.Fatalf("expected 4 gradient colours, got %d", len(p.cards))
	}
	if p.Colour(0) == p.Colour(3) {
		t.Error("expected the ends of the gradient to differ")
	}

	p.Resize(7)
	if len(p.cards) != 7 {
		t.Errorf("expected 7 colours after resize, got %d", len(p.cards))
	}
}

func TestExplicitPaletteIgnoresResize(t *testing.T) {
	p, _ := NewPalette([]string{"#ffffff"}, "#000000", 2)
	p.Resize(9)
	if len(p.cards) != 1 {
		t.Errorf("explicit palette should keep its colours, got %d", len(p.cards))
	}
}

func TestTintBlendsFromBackground(t *testing.T) {
	p, _ := NewPalette([]string{"#ffffff"}, "#000000", 1)

	if got := p.Tint(0, 0).Hex(); got != "#000000" {
		t.Errorf("opacity 0 should be the background, got %s", got)
	}
	if got := p.Tint(0, 1).Hex(); got != "#ffffff" {
		t.Errorf("opacity 1 should be the card colour, got %s", got)
	}

	_, _, lMid := p.Tint(0, 0.5).Hcl()
	if lMid <= 0.1 || lMid >= 0.9 {
		t.Errorf("expected a mid luminance at half opacity, got %v", lMid)
	}
}

func TestGetColorPastLastKeypoint(t *testing.T) {
	c := BrandGradient.GetColor(2, gradientChroma, gradientLuminance)
	last := BrandGradient.GetColor(1, gradientChroma, gradientLuminance)
	if c.Hex() != last.Hex() {
		t.Errorf("expected the last keypoint colour, got %s vs %s", c.Hex(), last.Hex())
	}
}
