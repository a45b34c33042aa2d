// Package vt implements the per-pane VT220/xterm screen emulator: it turns a
// byte stream of ANSI/DEC/xterm escape sequences into mutations of a packed
// cell grid.
package vt

// Cell is a single grid position packed into 64 bits: the low 32 bits hold a
// Unicode code point, the high 32 bits hold the Attr word below. A zero code
// point denotes the right half of a wide character and must be skipped by
// anything walking a row; it inherits its style from the cell to its left.
type Cell uint64

// Attr is the high 32 bits of a Cell, addressed on its own for SGR handling.
type Attr uint32

const (
	attrBgShift = 0
	attrBgMask  = 0xFFF

	attrFgShift = 12
	attrFgMask  = 0xFFF

	AttrUnderline Attr = 1 << 24
	AttrInverse   Attr = 1 << 25
	AttrConceal   Attr = 1 << 26
	AttrBold      Attr = 1 << 27
	AttrFgSet     Attr = 1 << 28
	AttrBgSet     Attr = 1 << 29
)

// RGB4 is a 4-bit-per-channel color, the storage form packed into a Cell's
// attribute word.
type RGB4 struct {
	R, G, B uint8 // each 0-15
}

// QuantizeRGB8 rounds an 8-bit-per-channel color down to 4 bits per channel.
func QuantizeRGB8(r, g, b uint8) RGB4 {
	return RGB4{R: r >> 4, G: g >> 4, B: b >> 4}
}

// Expand8 scales a 4-bit channel value back up to an 8-bit approximation.
func (c RGB4) Expand8() (r, g, b uint8) {
	return c.R<<4 | c.R, c.G<<4 | c.G, c.B<<4 | c.B
}

func (c RGB4) pack() uint32 {
	return uint32(c.R)<<8 | uint32(c.G)<<4 | uint32(c.B)
}

func unpackRGB4(bits uint32) RGB4 {
	return RGB4{
		R: uint8(bits>>8) & 0xF,
		G: uint8(bits>>4) & 0xF,
		B: uint8(bits) & 0xF,
	}
}

// MakeCell packs a rune and an attribute word into a Cell.
func MakeCell(r rune, a Attr) Cell {
	return Cell(uint32(r)) | Cell(a)<<32
}

// BlankCell is a single space with no explicit colors and no attributes set.
var BlankCell = MakeCell(' ', 0)

// Rune returns the cell's code point.
func (c Cell) Rune() rune {
	return rune(uint32(c))
}

// Attr returns the cell's attribute word.
func (c Cell) Attr() Attr {
	return Attr(c >> 32)
}

// WithRune returns a copy of c with the code point replaced.
func (c Cell) WithRune(r rune) Cell {
	return MakeCell(r, c.Attr())
}

// WithAttr returns a copy of c with the attribute word replaced.
func (c Cell) WithAttr(a Attr) Cell {
	return MakeCell(c.Rune(), a)
}

// IsWideRightHalf reports whether this cell is the placeholder right half of
// a wide character.
func (c Cell) IsWideRightHalf() bool {
	return c.Rune() == 0
}

// Background returns the background color and whether it was explicitly set
// (as opposed to inheriting the render-time theme default).
func (a Attr) Background() (RGB4, bool) {
	return unpackRGB4(uint32(a) & attrBgMask << attrBgShift >> attrBgShift), a&AttrBgSet != 0
}

// Foreground returns the foreground color and whether it was explicitly set.
func (a Attr) Foreground() (RGB4, bool) {
	return unpackRGB4((uint32(a) >> attrFgShift) & attrFgMask), a&AttrFgSet != 0
}

// WithBackground returns a copy of a with the background color set and the
// bg-set bit raised.
func (a Attr) WithBackground(c RGB4) Attr {
	cleared := uint32(a) &^ (attrBgMask << attrBgShift)
	return Attr(cleared|c.pack()<<attrBgShift) | AttrBgSet
}

// WithForeground returns a copy of a with the foreground color set and the
// fg-set bit raised.
func (a Attr) WithForeground(c RGB4) Attr {
	cleared := uint32(a) &^ (attrFgMask << attrFgShift)
	return Attr(cleared|c.pack()<<attrFgShift) | AttrFgSet
}

// WithoutColor clears both color fields and their set bits, restoring the
// "use render-time default" state.
func (a Attr) WithoutColor() Attr {
	return a &^ (Attr(attrBgMask<<attrBgShift) | Attr(attrFgMask<<attrFgShift) | AttrFgSet | AttrBgSet)
}

func (a Attr) has(flag Attr) bool { return a&flag != 0 }

// Has reports whether flag is set in a. flag must be one of the non-color
// Attr constants (AttrUnderline, AttrInverse, AttrConceal, AttrBold).
func (a Attr) Has(flag Attr) bool { return a.has(flag) }
