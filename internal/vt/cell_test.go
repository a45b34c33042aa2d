package vt

import "testing"

func TestCellRoundTrip(t *testing.T) {
	a := Attr(0).WithForeground(RGB4{R: 5, G: 10, B: 15}).WithBackground(RGB4{R: 1, G: 2, B: 3}) | AttrBold | AttrUnderline
	c := MakeCell('x', a)

	if c.Rune() != 'x' {
		t.Fatalf("Rune() = %q, want 'x'", c.Rune())
	}
	if c.Attr() != a {
		t.Fatalf("Attr() = %v, want %v", c.Attr(), a)
	}

	fg, set := c.Attr().Foreground()
	if !set || fg != (RGB4{R: 5, G: 10, B: 15}) {
		t.Fatalf("Foreground() = %v,%v", fg, set)
	}
	bg, set := c.Attr().Background()
	if !set || bg != (RGB4{R: 1, G: 2, B: 3}) {
		t.Fatalf("Background() = %v,%v", bg, set)
	}
	if !c.Attr().Has(AttrBold) || !c.Attr().Has(AttrUnderline) {
		t.Fatalf("expected bold+underline flags set")
	}
}

func TestCellDefaultColorUnset(t *testing.T) {
	c := MakeCell('y', 0)
	_, fgSet := c.Attr().Foreground()
	_, bgSet := c.Attr().Background()
	if fgSet || bgSet {
		t.Fatalf("expected default (unset) colors on a zero attribute word")
	}
}

func TestCellWithoutColor(t *testing.T) {
	a := Attr(0).WithForeground(RGB4{R: 15, G: 15, B: 15}) | AttrBold
	cleared := a.WithoutColor()
	_, set := cleared.Foreground()
	if set {
		t.Fatalf("WithoutColor left fg-set raised")
	}
	if !cleared.Has(AttrBold) {
		t.Fatalf("WithoutColor should not clear non-color flags")
	}
}

func TestWideRightHalf(t *testing.T) {
	c := MakeCell(0, AttrBold)
	if !c.IsWideRightHalf() {
		t.Fatalf("zero code point must report as wide right half")
	}
}

func TestQuantizeRGB8RoundTripIsLossyButStable(t *testing.T) {
	q := QuantizeRGB8(255, 128, 0)
	r, g, b := q.Expand8()
	if r != 255 || g != 136 || b != 0 {
		t.Fatalf("Expand8() = %d,%d,%d", r, g, b)
	}
}
