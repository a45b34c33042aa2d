package vt

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// This file implements ansicode.Handler, one method per escape sequence the
// decoder dispatches. Input, Goto and SGR attribute changes pass through
// the middleware hooks to an unexported *Locked worker, which takes the
// mutex itself; the other methods lock and act directly.

// Input writes a decoded rune at the cursor, honoring autowrap, insert mode,
// and wide-character spacer cells.
func (t *ScreenTerminal) Input(r rune) { t.input(r) }

func (t *ScreenTerminal) inputLocked(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.activeCharset >= 0 && t.activeCharset < 4 {
		r = t.charsets[t.activeCharset].Translate(r)
	}

	width := RuneWidth(r)
	if width == 0 {
		return
	}

	cols := t.active.Cols()
	if t.cursor.X+width > cols {
		if t.modes&ModeLineWrap != 0 {
			t.cursor.X = 0
			t.cursor.Y++
			if t.cursor.Y > t.scrollBottom {
				t.active.ScrollUp(t.scrollTop, t.scrollBottom+1, t.cursor.Y-t.scrollBottom)
				t.cursor.Y = t.scrollBottom
			}
		} else if width == 2 {
			return
		} else {
			t.cursor.X = cols - 1
		}
	}

	if t.modes&ModeInsert != 0 {
		t.active.InsertBlanks(t.cursor.Y, t.cursor.X, width)
	}
	t.active.SetCell(t.cursor.Y, t.cursor.X, MakeCell(r, t.template))
	if width == 2 {
		t.cursor.X++
		if t.cursor.X < cols {
			t.active.SetCell(t.cursor.Y, t.cursor.X, MakeCell(0, t.template))
		}
	}
	t.cursor.X++
	if t.cursor.X > cols {
		t.cursor.X = cols
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) Backspace() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor.X > 0 {
		t.cursor.X--
	}
}

func (t *ScreenTerminal) Bell() {
	if t.bell != nil {
		t.bell.Bell()
	}
}

func (t *ScreenTerminal) CarriageReturn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.X = 0
}

func (t *ScreenTerminal) LineFeed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.indexDownLocked()
	t.markDirtyLocked()
}

func (t *ScreenTerminal) indexDownLocked() {
	if t.cursor.Y == t.scrollBottom {
		t.active.ScrollUp(t.scrollTop, t.scrollBottom+1, 1)
	} else if t.cursor.Y < t.active.Rows()-1 {
		t.cursor.Y++
	}
}

func (t *ScreenTerminal) ReverseIndex() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor.Y == t.scrollTop {
		t.active.ScrollDown(t.scrollTop, t.scrollBottom+1, 1)
	} else if t.cursor.Y > 0 {
		t.cursor.Y--
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) Tab(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < n; i++ {
		t.cursor.X = t.active.NextTabStop(t.cursor.X)
	}
}

func (t *ScreenTerminal) HorizontalTabSet() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.SetTabStop(t.cursor.X)
}

func (t *ScreenTerminal) MoveForwardTabs(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < n; i++ {
		t.cursor.X = t.active.NextTabStop(t.cursor.X)
	}
}

func (t *ScreenTerminal) MoveBackwardTabs(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < n; i++ {
		t.cursor.X = t.active.PrevTabStop(t.cursor.X)
	}
}

func (t *ScreenTerminal) ClearTabs(mode ansicode.TabulationClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		t.active.ClearTabStop(t.cursor.X)
	default:
		t.active.ClearAllTabStops()
	}
}

// --- Cursor movement ---

func (t *ScreenTerminal) clampCursor() {
	if t.cursor.X < 0 {
		t.cursor.X = 0
	}
	if t.cursor.X >= t.active.Cols() {
		t.cursor.X = t.active.Cols() - 1
	}
	if t.cursor.Y < 0 {
		t.cursor.Y = 0
	}
	if t.cursor.Y >= t.active.Rows() {
		t.cursor.Y = t.active.Rows() - 1
	}
}

func (t *ScreenTerminal) Goto(row, col int) { t.gotoPos(row, col) }

func (t *ScreenTerminal) gotoLocked(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.modes&ModeOrigin != 0 {
		row += t.scrollTop
	}
	t.cursor.Y = row
	t.cursor.X = col
	t.clampCursor()
}

func (t *ScreenTerminal) GotoLine(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.modes&ModeOrigin != 0 {
		row += t.scrollTop
	}
	t.cursor.Y = row
	t.clampCursor()
}

func (t *ScreenTerminal) GotoCol(col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.X = col
	t.clampCursor()
}

func (t *ScreenTerminal) MoveUp(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.Y -= n
	t.clampCursor()
}

func (t *ScreenTerminal) MoveDown(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.Y += n
	t.clampCursor()
}

func (t *ScreenTerminal) MoveForward(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.X += n
	t.clampCursor()
}

func (t *ScreenTerminal) MoveBackward(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.X -= n
	t.clampCursor()
}

func (t *ScreenTerminal) MoveUpCr(n int) {
	t.mu.Lock()
	t.cursor.Y -= n
	t.cursor.X = 0
	t.clampCursor()
	t.mu.Unlock()
}

func (t *ScreenTerminal) MoveDownCr(n int) {
	t.mu.Lock()
	t.cursor.Y += n
	t.cursor.X = 0
	t.clampCursor()
	t.mu.Unlock()
}

func (t *ScreenTerminal) SaveCursorPosition() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.saved = SavedCursor{X: t.cursor.X, Y: t.cursor.Y, Attr: t.template, ActiveCharset: t.activeCharset, OriginMode: t.modes&ModeOrigin != 0}
	t.hasSaved = true
}

func (t *ScreenTerminal) RestoreCursorPosition() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasSaved {
		return
	}
	t.cursor.X, t.cursor.Y = t.saved.X, t.saved.Y
	t.template = t.saved.Attr
	t.activeCharset = t.saved.ActiveCharset
	if t.saved.OriginMode {
		t.modes |= ModeOrigin
	} else {
		t.modes &^= ModeOrigin
	}
	t.clampCursor()
}

// --- Erase / scroll / line editing ---

func (t *ScreenTerminal) ClearLine(mode ansicode.LineClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch mode {
	case ansicode.LineClearModeRight:
		t.active.ClearRowRange(t.cursor.Y, t.cursor.X, t.active.Cols())
	case ansicode.LineClearModeLeft:
		t.active.ClearRowRange(t.cursor.Y, 0, t.cursor.X+1)
	default:
		t.active.ClearRow(t.cursor.Y)
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) ClearScreen(mode ansicode.ClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch mode {
	case ansicode.ClearModeBelow:
		t.active.ClearRowRange(t.cursor.Y, t.cursor.X, t.active.Cols())
		for r := t.cursor.Y + 1; r < t.active.Rows(); r++ {
			t.active.ClearRow(r)
		}
	case ansicode.ClearModeAbove:
		t.active.ClearRowRange(t.cursor.Y, 0, t.cursor.X+1)
		for r := 0; r < t.cursor.Y; r++ {
			t.active.ClearRow(r)
		}
	default:
		t.active.ClearAll()
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) Decaln() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for r := 0; r < t.active.Rows(); r++ {
		for c := 0; c < t.active.Cols(); c++ {
			t.active.SetCell(r, c, MakeCell('E', 0))
		}
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) InsertBlank(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.InsertBlanks(t.cursor.Y, t.cursor.X, n)
	t.markDirtyLocked()
}

func (t *ScreenTerminal) DeleteChars(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.DeleteChars(t.cursor.Y, t.cursor.X, n)
	t.markDirtyLocked()
}

func (t *ScreenTerminal) EraseChars(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.ClearRowRange(t.cursor.Y, t.cursor.X, t.cursor.X+n)
	t.markDirtyLocked()
}

func (t *ScreenTerminal) InsertBlankLines(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bottom := t.scrollBottom + 1
	if t.cursor.Y >= t.scrollTop && t.cursor.Y <= t.scrollBottom {
		t.active.ScrollDown(t.cursor.Y, bottom, n)
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) DeleteLines(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bottom := t.scrollBottom + 1
	if t.cursor.Y >= t.scrollTop && t.cursor.Y <= t.scrollBottom {
		t.active.ScrollUp(t.cursor.Y, bottom, n)
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) ScrollUp(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.ScrollUp(t.scrollTop, t.scrollBottom+1, n)
	t.markDirtyLocked()
}

func (t *ScreenTerminal) ScrollDown(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.ScrollDown(t.scrollTop, t.scrollBottom+1, n)
	t.markDirtyLocked()
}

func (t *ScreenTerminal) SetScrollingRegion(top, bottom int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if top < 0 {
		top = 0
	}
	if bottom <= top || bottom >= t.active.Rows() {
		bottom = t.active.Rows() - 1
	}
	t.scrollTop, t.scrollBottom = top, bottom
	t.cursor.X, t.cursor.Y = 0, top
	if t.modes&ModeOrigin != 0 {
		t.cursor.Y = top
	}
}

func (t *ScreenTerminal) Substitute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.SetCell(t.cursor.Y, t.cursor.X, MakeCell(' ', t.template))
}

// --- Charsets ---

func (t *ScreenTerminal) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := int(index)
	if i < 0 || i > 3 {
		return
	}
	t.charsets[i] = Charset(charset)
}

func (t *ScreenTerminal) SetActiveCharset(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n >= 0 && n <= 3 {
		t.activeCharset = n
	}
}

// --- Modes ---

func (t *ScreenTerminal) SetMode(mode ansicode.TerminalMode) { t.setModeLocked(mode, true) }

func (t *ScreenTerminal) UnsetMode(mode ansicode.TerminalMode) { t.setModeLocked(mode, false) }

func (t *ScreenTerminal) setModeLocked(mode ansicode.TerminalMode, set bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var m Mode
	switch mode {
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
		t.cursor.Visible = set
	case ansicode.TerminalModeReportMouseClicks:
		m = ModeReportMouseClicks
	case ansicode.TerminalModeReportCellMouseMotion:
		m = ModeReportCellMouseMotion
	case ansicode.TerminalModeReportAllMouseMotion:
		m = ModeReportAllMouseMotion
	case ansicode.TerminalModeSGRMouse:
		m = ModeSGRMouse
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		m = ModeSwapScreenAndSetRestoreCursor
		if set {
			t.useAlt = true
			t.active = t.alt
			t.active.ClearAll()
		} else {
			t.useAlt = false
			t.active = t.primary
		}
	case ansicode.TerminalModeBracketedPaste:
		m = ModeBracketedPaste
	default:
		return
	}

	if set {
		t.modes |= m
	} else {
		t.modes &^= m
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) SetKeypadApplicationMode()   {}
func (t *ScreenTerminal) UnsetKeypadApplicationMode() {}

func (t *ScreenTerminal) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
}
func (t *ScreenTerminal) PushKeyboardMode(mode ansicode.KeyboardMode) {}
func (t *ScreenTerminal) PopKeyboardMode(n int)                       {}
func (t *ScreenTerminal) ReportKeyboardMode()                         {}
func (t *ScreenTerminal) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {}
func (t *ScreenTerminal) ReportModifyOtherKeys()                             {}

// --- SGR / colors ---

func (t *ScreenTerminal) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	t.setCharAttribute(attrFromAnsicode(t.template, attr))
}

func (t *ScreenTerminal) setCharAttributeLocked(attr Attr) {
	t.mu.Lock()
	t.template = attr
	t.mu.Unlock()
}

// attrFromAnsicode folds one SGR attribute onto the running template.
func attrFromAnsicode(template Attr, attr ansicode.TerminalCharAttribute) Attr {
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		return 0
	case ansicode.CharAttributeBold:
		return template | AttrBold
	case ansicode.CharAttributeUnderline:
		return template | AttrUnderline
	case ansicode.CharAttributeReverse:
		return template | AttrInverse
	case ansicode.CharAttributeHidden:
		return template | AttrConceal
	case ansicode.CharAttributeCancelBold:
		return template &^ AttrBold
	case ansicode.CharAttributeCancelUnderline:
		return template &^ AttrUnderline
	case ansicode.CharAttributeCancelReverse:
		return template &^ AttrInverse
	case ansicode.CharAttributeCancelHidden:
		return template &^ AttrConceal
	case ansicode.CharAttributeForeground:
		return template.WithForeground(colorFromAttr(attr))
	case ansicode.CharAttributeBackground:
		return template.WithBackground(colorFromAttr(attr))
	default:
		return template
	}
}

func colorFromAttr(attr ansicode.TerminalCharAttribute) RGB4 {
	if attr.RGBColor != nil {
		return QuantizeRGB8(attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B)
	}
	if attr.IndexedColor != nil {
		return IndexedRGB4(int(attr.IndexedColor.Index))
	}
	if attr.NamedColor != nil {
		idx := int(*attr.NamedColor)
		if idx >= 0 && idx < 16 {
			return Palette256[idx]
		}
	}
	return RGB4{}
}

func (t *ScreenTerminal) SetColor(index int, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index > 255 {
		return
	}
	r, g, b, _ := c.RGBA()
	Palette256[index] = QuantizeRGB8(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func (t *ScreenTerminal) ResetColor(i int) {}

func (t *ScreenTerminal) SetDynamicColor(prefix string, index int, terminator string) {}

// SetCursorStyle maps a DECSCUSR parameter onto the three tracked shapes
// (blink is not tracked).
func (t *ScreenTerminal) SetCursorStyle(style ansicode.CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch int(style) {
	case 3, 4:
		t.cursor.Style = CursorStyleUnderline
	case 5, 6:
		t.cursor.Style = CursorStyleBar
	default:
		t.cursor.Style = CursorStyleBlock
	}
}

func (t *ScreenTerminal) SetHyperlink(hyperlink *ansicode.Hyperlink) {}

// --- Title / identification / status reports ---

func (t *ScreenTerminal) SetTitle(title string) {
	t.mu.Lock()
	t.title = title
	t.mu.Unlock()
	if t.onTitle != nil {
		t.onTitle.SetTitle(title)
	}
}

func (t *ScreenTerminal) PushTitle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.titleStack = append(t.titleStack, t.title)
}

func (t *ScreenTerminal) PopTitle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.titleStack); n > 0 {
		t.title = t.titleStack[n-1]
		t.titleStack = t.titleStack[:n-1]
	}
}

// IdentifyTerminal answers DA with the fixed VT220 identity "CSI ? 62;1;6 c".
func (t *ScreenTerminal) IdentifyTerminal(b byte) {
	t.writeResponse([]byte("\x1b[?62;1;6c"))
}

func (t *ScreenTerminal) DeviceStatus(n int) {
	switch n {
	case 6:
		t.mu.Lock()
		row, col := t.cursor.Y+1, t.cursor.X+1
		t.mu.Unlock()
		t.writeResponse([]byte(cprResponse(row, col)))
	default:
		t.writeResponse([]byte("\x1b[0n"))
	}
}

func (t *ScreenTerminal) ResetState() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primary.ClearAll()
	t.alt.ClearAll()
	t.active = t.primary
	t.useAlt = false
	t.cursor = Cursor{Visible: true}
	t.template = 0
	t.scrollTop = 0
	t.scrollBottom = t.active.Rows() - 1
	t.modes = ModeLineWrap | ModeShowCursor
	t.charsets = [4]Charset{}
	t.activeCharset = 0
	t.title = ""
	t.titleStack = nil
}

func (t *ScreenTerminal) TextAreaSizeChars() {
	t.mu.Lock()
	cols, rows := t.active.Cols(), t.active.Rows()
	t.mu.Unlock()
	t.writeResponse([]byte(sizeResponse(8, rows, cols)))
}

func (t *ScreenTerminal) TextAreaSizePixels() {
	t.mu.Lock()
	cols, rows := t.active.Cols(), t.active.Rows()
	t.mu.Unlock()
	t.writeResponse([]byte(sizeResponse(4, rows*16, cols*8)))
}

func (t *ScreenTerminal) CellSizePixels() {
	t.writeResponse([]byte("\x1b[6;16;8t"))
}

// --- Out-of-scope channels accepted but not rendered: sixel/kitty graphics
// and shell-integration OSCs aren't surfaced by the compositor (DESIGN.md). ---

func (t *ScreenTerminal) ApplicationCommandReceived(data []byte)  {}
func (t *ScreenTerminal) PrivacyMessageReceived(data []byte)      {}
func (t *ScreenTerminal) StartOfStringReceived(data []byte)       {}
func (t *ScreenTerminal) SixelReceived(params [][]uint16, data []byte) {}
func (t *ScreenTerminal) ClipboardLoad(clipboard byte, terminator string) {
	t.writeResponse([]byte{})
}
func (t *ScreenTerminal) ClipboardStore(clipboard byte, data []byte) {}
func (t *ScreenTerminal) SetWorkingDirectory(uri string)             {}
