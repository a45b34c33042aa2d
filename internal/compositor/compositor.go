// Package compositor merges a window's panes into one styled framebuffer
// and diffs it against the previous frame to produce the minimal escape
// sequences the host terminal needs to catch up.
package compositor

import (
	"fmt"
	"time"

	"github.com/halftone-labs/vtmux/internal/vt"
)

// Colors used for overlays and border highlighting, expressed in the same
// 4-bit-per-channel space a Cell's attribute word packs.
var (
	ClockColor        = vt.RGB4{R: 0, G: 15, B: 0}
	ActiveBorderColor = vt.RGB4{R: 0, G: 15, B: 15}
	NeutralBorderColor = vt.RGB4{R: 8, G: 8, B: 8}
	StatusBarColor    = vt.RGB4{R: 0, G: 0, B: 8}
)

// PaneView is the read-only snapshot of one pane the compositor needs:
// its rectangle, its grid, whether it's active, and whether it should
// render as a clock instead of its grid content.
type PaneView struct {
	ID        int
	X, Y      int
	W, H      int
	Active    bool
	ClockMode bool
	Grid      *vt.Grid
	Cursor    vt.Cursor
}

// Frame is one composed rows x cols buffer plus the cursor position the
// host should place its own cursor at.
type Frame struct {
	Cols, Rows int
	Cells      []vt.Cell
	CursorX    int
	CursorY    int
	CursorShown bool
}

func newFrame(cols, rows int) *Frame {
	f := &Frame{Cols: cols, Rows: rows, Cells: make([]vt.Cell, cols*rows)}
	for i := range f.Cells {
		f.Cells[i] = vt.BlankCell
	}
	return f
}

func (f *Frame) set(x, y int, c vt.Cell) {
	if x < 0 || x >= f.Cols || y < 0 || y >= f.Rows {
		return
	}
	f.Cells[y*f.Cols+x] = c
}

func (f *Frame) get(x, y int) vt.Cell {
	if x < 0 || x >= f.Cols || y < 0 || y >= f.Rows {
		return vt.BlankCell
	}
	return f.Cells[y*f.Cols+x]
}

// drawBorderSegment merges a line segment into the existing cell at
// (x,y), preserving whatever other segments already meet there.
func (f *Frame) drawBorderSegment(x, y int, add side, attr vt.Attr) {
	cur := f.get(x, y)
	merged := mergeBorder(cur.Rune(), add)
	f.set(x, y, vt.MakeCell(merged, attr))
}

func borderAttr(active bool) vt.Attr {
	color := NeutralBorderColor
	if active {
		color = ActiveBorderColor
	}
	a := Attr(0).WithForeground(color)
	if active {
		a |= vt.AttrBold
	}
	return a
}

// Attr is a convenience alias so borderAttr's arithmetic reads naturally;
// vt.Attr's WithForeground/WithBackground already return vt.Attr.
type Attr = vt.Attr

// Compose runs the seven-step merge algorithm: blank, content-or-clock,
// identify overlay, borders, junction resolution (folded into the border
// step via drawBorderSegment), and the blank status row. The escape-diff
// step lives in diff.go, run separately against the previous Frame.
func Compose(cols, rows int, panes []PaneView, identify bool, now time.Time) *Frame {
	f := newFrame(cols, rows)

	for _, p := range panes {
		if p.ClockMode {
			drawClock(f, p, now)
		} else {
			copyGrid(f, p)
		}
		if p.Active {
			f.CursorX = p.X + p.Cursor.X
			f.CursorY = p.Y + p.Cursor.Y
			f.CursorShown = p.Cursor.Visible
		}
	}

	if identify {
		for _, p := range panes {
			drawIdentify(f, p)
		}
	}

	for _, p := range panes {
		drawBorder(f, p)
	}

	drawStatusBar(f)

	return f
}

func copyGrid(f *Frame, p PaneView) {
	if p.Grid == nil {
		return
	}
	for row := 0; row < p.Grid.Rows() && row < p.H; row++ {
		for col := 0; col < p.Grid.Cols() && col < p.W; col++ {
			f.set(p.X+col, p.Y+row, p.Grid.Cell(row, col))
		}
	}
}

// drawGlyphString centers s as 5x5 block glyphs within p, colored attr.
func drawGlyphString(f *Frame, p PaneView, s string, attr vt.Attr) {
	width := len(s)*(GlyphWidth+1) - 1
	if width <= 0 {
		return
	}
	originX := p.X + (p.W-width)/2
	originY := p.Y + (p.H-GlyphHeight)/2

	for i, r := range s {
		gl, ok := Glyph(r)
		if !ok {
			continue
		}
		baseX := originX + i*(GlyphWidth+1)
		for gy := 0; gy < GlyphHeight; gy++ {
			for gx := 0; gx < GlyphWidth; gx++ {
				if !gl[gy][gx] {
					continue
				}
				f.set(baseX+gx, originY+gy, vt.MakeCell('█', attr))
			}
		}
	}
}

func drawClock(f *Frame, p PaneView, now time.Time) {
	attr := Attr(0).WithForeground(ClockColor)
	drawGlyphString(f, p, now.Format("15:04:05"), attr)
}

func drawIdentify(f *Frame, p PaneView) {
	attr := Attr(0).WithForeground(ActiveBorderColor) | vt.AttrBold
	drawGlyphString(f, p, fmt.Sprintf("%d", p.ID), attr)
}

// drawBorder writes the 1-cell frame around p: top/bottom rows just
// outside its content, left/right columns just outside, and the four
// corners, merging with any segment already drawn by a neighboring pane.
func drawBorder(f *Frame, p PaneView) {
	attr := borderAttr(p.Active)
	top, bottom := p.Y-1, p.Y+p.H
	left, right := p.X-1, p.X+p.W

	for x := p.X; x < p.X+p.W; x++ {
		f.drawBorderSegment(x, top, sideLeft|sideRight, attr)
		f.drawBorderSegment(x, bottom, sideLeft|sideRight, attr)
	}
	for y := p.Y; y < p.Y+p.H; y++ {
		f.drawBorderSegment(left, y, sideUp|sideDown, attr)
		f.drawBorderSegment(right, y, sideUp|sideDown, attr)
	}
	f.drawBorderSegment(left, top, sideDown|sideRight, attr)
	f.drawBorderSegment(right, top, sideDown|sideLeft, attr)
	f.drawBorderSegment(left, bottom, sideUp|sideRight, attr)
	f.drawBorderSegment(right, bottom, sideUp|sideLeft, attr)
}

func drawStatusBar(f *Frame) {
	if f.Rows == 0 {
		return
	}
	row := f.Rows - 1
	attr := Attr(0).WithBackground(StatusBarColor)
	for x := 0; x < f.Cols; x++ {
		f.set(x, row, vt.MakeCell(' ', attr))
	}
}
