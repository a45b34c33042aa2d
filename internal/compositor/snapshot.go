package compositor

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/halftone-labs/vtmux/internal/vt"
)

// one embedded bitmap font is enough for a debug dump; no font-finder
// abstraction is exposed since screenshots only ever need a single face.
var snapshotFace = basicfont.Face7x13

const (
	snapshotCellWidth  = 7
	snapshotCellHeight = 13
)

// PNG renders f to an RGBA image: every cell's background fill, its
// character (if any), and the host cursor as an inverted block when shown.
func (f *Frame) PNG() *image.RGBA {
	w := f.Cols * snapshotCellWidth
	h := f.Rows * snapshotCellHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < f.Rows; y++ {
		for x := 0; x < f.Cols; x++ {
			drawCell(img, x, y, f.get(x, y))
		}
	}

	if f.CursorShown {
		drawCursor(img, f.CursorX, f.CursorY)
	}

	return img
}

// WritePNG encodes f.PNG() to w.
func (f *Frame) WritePNG(w io.Writer) error {
	return png.Encode(w, f.PNG())
}

func drawCell(img *image.RGBA, col, row int, c vt.Cell) {
	px, py := col*snapshotCellWidth, row*snapshotCellHeight
	attr := c.Attr()

	fg := color.RGBA{R: 229, G: 229, B: 229, A: 255}
	bg := color.RGBA{A: 255}
	if rgb, ok := attr.Foreground(); ok {
		fg = rgbaOf(rgb)
	}
	if rgb, ok := attr.Background(); ok {
		bg = rgbaOf(rgb)
	}
	if attr.Has(vt.AttrInverse) {
		fg, bg = bg, fg
	}

	for y := 0; y < snapshotCellHeight; y++ {
		for x := 0; x < snapshotCellWidth; x++ {
			img.Set(px+x, py+y, bg)
		}
	}

	r := c.Rune()
	if r == 0 || r == ' ' {
		return
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: snapshotFace,
		Dot:  fixed.P(px, py+snapshotFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(r))

	if attr.Has(vt.AttrUnderline) {
		uy := py + snapshotCellHeight - 2
		for x := 0; x < snapshotCellWidth; x++ {
			img.Set(px+x, uy, fg)
		}
	}
}

func drawCursor(img *image.RGBA, col, row int) {
	px, py := col*snapshotCellWidth, row*snapshotCellHeight
	for y := 0; y < snapshotCellHeight; y++ {
		for x := 0; x < snapshotCellWidth; x++ {
			cx, cy := px+x, py+y
			if !(image.Point{X: cx, Y: cy}.In(img.Bounds())) {
				continue
			}
			existing := img.RGBAAt(cx, cy)
			img.Set(cx, cy, color.RGBA{
				R: 255 - existing.R,
				G: 255 - existing.G,
				B: 255 - existing.B,
				A: 255,
			})
		}
	}
}

func rgbaOf(c vt.RGB4) color.RGBA {
	r, g, b := c.Expand8()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
