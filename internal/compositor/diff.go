package compositor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/halftone-labs/vtmux/internal/vt"
)

// Diff compares cur against prev (which may be nil, meaning "nothing drawn
// yet") and returns the escape sequences needed to bring the host terminal's
// screen up to date: cursor positioning plus styled runs of changed cells,
// followed, when any cell or the cursor changed, by a final cursor placement
// and visibility toggle. Unchanged cells emit nothing, so redrawing an
// unchanged frame returns "".
func Diff(prev, cur *Frame) string {
	var b strings.Builder

	for y := 0; y < cur.Rows; y++ {
		x := 0
		for x < cur.Cols {
			if !cellChanged(prev, cur, x, y) {
				x++
				continue
			}
			run, attr := collectRun(prev, cur, x, y)
			fmt.Fprintf(&b, "\x1b[%d;%dH", y+1, x+1)
			b.WriteString(renderRun(run, attr))
			x += len([]rune(run))
		}
	}

	if prev != nil && b.Len() == 0 && prev.CursorX == cur.CursorX &&
		prev.CursorY == cur.CursorY && prev.CursorShown == cur.CursorShown {
		return ""
	}

	fmt.Fprintf(&b, "\x1b[%d;%dH", cur.CursorY+1, cur.CursorX+1)
	if cur.CursorShown {
		b.WriteString("\x1b[?25h")
	} else {
		b.WriteString("\x1b[?25l")
	}

	return b.String()
}

func cellChanged(prev, cur *Frame, x, y int) bool {
	if prev == nil || prev.Cols != cur.Cols || prev.Rows != cur.Rows {
		return true
	}
	return prev.get(x, y) != cur.get(x, y)
}

// collectRun gathers consecutive changed cells on row y starting at x that
// share cur's attribute word, so they can be styled and emitted as one
// lipgloss-rendered string instead of one escape sequence per cell.
func collectRun(prev, cur *Frame, x, y int) (string, vt.Attr) {
	attr := cur.get(x, y).Attr()
	var sb strings.Builder
	for ; x < cur.Cols; x++ {
		c := cur.get(x, y)
		if c.Attr() != attr {
			break
		}
		if !cellChanged(prev, cur, x, y) {
			break
		}
		r := c.Rune()
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String(), attr
}

func renderRun(text string, attr vt.Attr) string {
	style := lipgloss.NewStyle()
	if fg, ok := attr.Foreground(); ok {
		style = style.Foreground(rgb4Color(fg))
	}
	if bg, ok := attr.Background(); ok {
		style = style.Background(rgb4Color(bg))
	}
	if attr.Has(vt.AttrBold) {
		style = style.Bold(true)
	}
	if attr.Has(vt.AttrUnderline) {
		style = style.Underline(true)
	}
	return style.Render(text)
}

func rgb4Color(c vt.RGB4) lipgloss.Color {
	r, g, b := c.Expand8()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
