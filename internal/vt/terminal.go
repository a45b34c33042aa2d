package vt

import (
	"sync"

	"github.com/danielgatis/go-ansicode"
)

// Ensure ScreenTerminal implements ansicode.Handler.
var _ ansicode.Handler = (*ScreenTerminal)(nil)

// Mode is a bitmask of the terminal behavior flags a VT220/xterm emulator
// tracks.
type Mode uint16

const (
	ModeInsert Mode = 1 << iota
	ModeOrigin
	ModeLineWrap
	ModeShowCursor
	ModeSwapScreenAndSetRestoreCursor
	ModeReportMouseClicks
	ModeReportCellMouseMotion
	ModeReportAllMouseMotion
	ModeSGRMouse
	ModeBracketedPaste
)

const (
	DefaultCols = 80
	DefaultRows = 24
)

// ScreenTerminal is the per-pane VT emulator: it decodes a byte stream via
// go-ansicode and mutates a Grid. Constructed with functional options,
// exposes provider callbacks for bell/title/reply/dirty, and routes Input,
// Goto and SGR attribute changes through an unexported *Locked worker so
// middleware can wrap the default behavior.
type ScreenTerminal struct {
	mu sync.Mutex

	primary  *Grid
	alt      *Grid
	active   *Grid
	useAlt   bool
	cursor   Cursor
	saved    SavedCursor
	hasSaved bool

	template Attr

	charsets      [4]Charset
	activeCharset int

	scrollTop, scrollBottom int

	modes Mode

	title      string
	titleStack []string

	decoder *ansicode.Decoder

	middleware *Middleware

	response ResponseWriter
	bell     BellHandler
	onTitle  TitleHandler
	dirty    DirtyHandler
}

// Option configures a ScreenTerminal at construction.
type Option func(*ScreenTerminal)

// WithSize sets the initial grid dimensions. Non-positive values fall back
// to the package defaults.
func WithSize(cols, rows int) Option {
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	return func(t *ScreenTerminal) {
		t.primary = NewGrid(cols, rows)
		t.alt = NewGrid(cols, rows)
	}
}

// WithResponse sets the writer for reply bytes (DA, CPR, DSR).
func WithResponse(w ResponseWriter) Option {
	return func(t *ScreenTerminal) { t.response = w }
}

// WithBell sets the bell handler.
func WithBell(h BellHandler) Option {
	return func(t *ScreenTerminal) { t.bell = h }
}

// WithTitle sets the title-change handler.
func WithTitle(h TitleHandler) Option {
	return func(t *ScreenTerminal) { t.onTitle = h }
}

// WithDirty sets the mark_dirty() callback the scheduler wakes on.
func WithDirty(h DirtyHandler) Option {
	return func(t *ScreenTerminal) { t.dirty = h }
}

// WithMiddleware installs handler interception hooks.
func WithMiddleware(m *Middleware) Option {
	return func(t *ScreenTerminal) { t.middleware = m }
}

// New constructs a ScreenTerminal ready to accept bytes via Write.
func New(opts ...Option) *ScreenTerminal {
	t := &ScreenTerminal{}
	for _, opt := range opts {
		opt(t)
	}
	if t.primary == nil {
		t.primary = NewGrid(DefaultCols, DefaultRows)
		t.alt = NewGrid(DefaultCols, DefaultRows)
	}
	t.active = t.primary
	t.cursor.Visible = true
	t.modes = ModeLineWrap | ModeShowCursor
	t.scrollTop = 0
	t.scrollBottom = t.primary.Rows() - 1
	t.decoder = ansicode.NewDecoder(t)
	return t
}

// Write feeds raw bytes (the pane's master-output) through the decoder,
// which dispatches parsed sequences back onto t as an ansicode.Handler.
func (t *ScreenTerminal) Write(p []byte) (int, error) {
	return t.decoder.Write(p)
}

// Grid returns the currently active grid (primary or alternate).
func (t *ScreenTerminal) Grid() *Grid {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Cursor returns the current cursor state.
func (t *ScreenTerminal) Cursor() Cursor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// HasMode reports whether m is currently set.
func (t *ScreenTerminal) HasMode(m Mode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.modes&m != 0
}

// Resize changes the emulator's grid dimensions in place, clamping the
// cursor and scroll region to stay in bounds.
func (t *ScreenTerminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.primary.Resize(cols, rows)
	t.alt.Resize(cols, rows)
	if t.cursor.X >= cols {
		t.cursor.X = cols - 1
	}
	if t.cursor.Y >= rows {
		t.cursor.Y = rows - 1
	}
	if t.scrollBottom >= rows {
		t.scrollBottom = rows - 1
	}
	t.markDirtyLocked()
}

func (t *ScreenTerminal) markDirtyLocked() {
	if t.dirty != nil {
		t.dirty.MarkDirty()
	}
}

func (t *ScreenTerminal) writeResponse(p []byte) {
	if t.response != nil {
		t.response.WriteResponse(p)
	}
}

// Title returns the current window title (OSC 0/2).
func (t *ScreenTerminal) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}
