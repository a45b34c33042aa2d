// Package mux ties the layout tree, panes, keymap, and command interpreter
// together into one addressable session: the Mux context. Per the "no
// ambient globals" design note, server options and the keymap live as
// fields of Mux and are threaded explicitly rather than held in package
// state, so nothing here depends on process-wide mutable state.
package mux

import (
	"fmt"
	"sync"
	"time"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/keymap"
	"github.com/halftone-labs/vtmux/internal/layout"
	"github.com/halftone-labs/vtmux/internal/pane"
)

// RunnerFactory starts a new pane's child program on a master I/O stream
// of the given size. The reference binary wires this to
// pane.StartPTYWithTerm.
type RunnerFactory func(cols, rows int) (pane.Runner, error)

// Window is an ordered list of panes arranged by a layout Tree, with one
// active pane and a most-recently-active ordering among them.
type Window struct {
	name   string
	tree   *layout.Tree
	panes  map[int]*pane.VirtualConsole
	order  []int // insertion order, stable for ListWindows/iteration
	active int    // active pane id
}

func (w *Window) leafPanes() []*pane.VirtualConsole {
	out := make([]*pane.VirtualConsole, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.panes[id])
	}
	return out
}

// Mux is the full multiplexer session: server options, the keymap, the
// window list, and the pane-construction hooks needed to grow the layout.
// It implements command.Context so the interpreter can drive it without
// reaching into its fields.
type Mux struct {
	mu sync.Mutex

	options map[string]string
	prefix  []byte
	trie    *keymap.Trie

	windows []*Window
	active  int

	nextPaneID   int
	nextGenerion int

	cols, rows int // content area: host size minus one status row

	identify      bool
	running       bool
	escapeTimeout time.Duration

	newRunner RunnerFactory
	onDirty   func()
}

// New builds a Mux with one window containing a single pane of size
// cols x (rows-1) — the last host row is reserved for the status bar, per
// the layout invariant that root.sy equals the window content area.
func New(cols, rows int, prefix []byte, newRunner RunnerFactory, onDirty func()) (*Mux, error) {
	m := &Mux{
		options:       DefaultOptions(prefix),
		prefix:        append([]byte{}, prefix...),
		trie:          keymap.Defaults(prefix),
		cols:          cols,
		rows:          rows - 1,
		newRunner:     newRunner,
		onDirty:       onDirty,
		running:       true,
		escapeTimeout: keymap.DefaultEscapeTimeout,
	}

	if err := m.addWindow(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetEscapeTimeout overrides the chord reader's disambiguation timeout,
// the --escape-timeout CLI knob's landing spot.
func (m *Mux) SetEscapeTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.escapeTimeout = d
	}
}

// EscapeTimeout returns the chord reader's current disambiguation timeout.
func (m *Mux) EscapeTimeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.escapeTimeout
}

// addWindow creates a new window with a single pane filling the content
// area, appending it to the window list.
func (m *Mux) addWindow() error {
	id := m.allocPaneID()
	tree := layout.New(m.cols, m.rows, id)
	runner, err := m.newRunner(m.cols, m.rows)
	if err != nil {
		return fmt.Errorf("mux: start runner: %w", err)
	}

	p := pane.New(id, tree, tree.Root(), runner, m.onDirty)
	p.Touch(m.allocGeneration())

	w := &Window{
		name:   fmt.Sprintf("%d", len(m.windows)),
		tree:   tree,
		panes:  map[int]*pane.VirtualConsole{id: p},
		order:  []int{id},
		active: id,
	}
	m.windows = append(m.windows, w)
	m.startPump(p)
	return nil
}

// startPump spawns the one goroutine per pane per §5's "N runner threads":
// it blocks on the child's master output and feeds every chunk into the
// VT emulator, which in turn fires onDirty. A read error (almost always
// the child exiting) tears the pane down like an explicit close would.
func (m *Mux) startPump(p *pane.VirtualConsole) {
	go func() {
		buf := make([]byte, 4096)
		for {
			_, err := p.PumpOutput(buf)
			if err != nil {
				m.mu.Lock()
				_ = m.closePaneLocked(p.ID())
				m.mu.Unlock()
				if m.onDirty != nil {
					m.onDirty()
				}
				return
			}
		}
	}()
}

func (m *Mux) allocPaneID() int {
	m.nextPaneID++
	return m.nextPaneID
}

func (m *Mux) allocGeneration() int {
	m.nextGenerion++
	return m.nextGenerion
}

func (m *Mux) activeWindow() *Window {
	return m.windows[m.active]
}

// Running reports whether the scheduler loops should keep going.
func (m *Mux) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Stop clears running, the signal both scheduler loops watch for exit.
func (m *Mux) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

// Trie returns the current keymap, for the input loop's chord reader.
func (m *Mux) Trie() *keymap.Trie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trie
}

// ActivePane returns the currently active window's currently active pane.
func (m *Mux) ActivePane() *pane.VirtualConsole {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	return w.panes[w.active]
}

// LeafPanes returns every pane in the active window, for the compositor's
// input set. Distinct from the command.Context Panes() method, which
// returns the read-only geometry view commands operate on.
func (m *Mux) LeafPanes() []*pane.VirtualConsole {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeWindow().leafPanes()
}

// ContentSize returns the active window's content area (host size minus
// the status row).
func (m *Mux) ContentSize() (cols, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols, m.rows
}

// Identify reports whether the display-panes overlay is currently active.
func (m *Mux) Identify() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identify
}

// SetIdentify toggles the display-panes overlay; the scheduler's timer
// loop calls it to clear the overlay (see DisplayPanes for the timing).
func (m *Mux) SetIdentify(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identify = on
}

// AnyClockMode reports whether any pane in the active window is in
// clock-mode, the condition under which the timer loop's 1s tick marks
// the frame dirty.
func (m *Mux) AnyClockMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.activeWindow().leafPanes() {
		if p.ClockMode() {
			return true
		}
	}
	return false
}

// HandleResize applies a new host size to the active window's layout and
// every pane in it, per the redraw loop's resize-flag handling.
func (m *Mux) HandleResize(cols, rows int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cols, m.rows = cols, rows-1
	w := m.activeWindow()
	w.tree.ResizeWindow(m.cols, m.rows)
	for _, p := range w.leafPanes() {
		if err := p.Resize(); err != nil {
			return err
		}
	}
	return nil
}

// ClosePane tears down pane id, removes it from the layout, and promotes
// the most-recently-active survivor to active. Closing the window's last
// pane leaves the window empty and stops the Mux if it was the only one.
func (m *Mux) ClosePane(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closePaneLocked(id)
}

func (m *Mux) closePaneLocked(id int) error {
	w := m.activeWindow()
	p, ok := w.panes[id]
	if !ok {
		return nil
	}
	_ = p.Close()

	if len(w.order) == 1 {
		delete(w.panes, id)
		w.order = nil
		if len(m.windows) == 1 {
			m.running = false
		}
		return nil
	}

	if err := w.tree.Remove(p.Leaf()); err != nil {
		return err
	}
	delete(w.panes, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	if w.active == id {
		w.active = mostRecentlyActive(w)
	}
	for _, other := range w.leafPanes() {
		if err := other.Resize(); err != nil {
			return err
		}
	}
	return nil
}

func mostRecentlyActive(w *Window) int {
	best, bestGen := 0, -1
	for _, id := range w.order {
		g := w.panes[id].Generation()
		if g > bestGen {
			best, bestGen = id, g
		}
	}
	return best
}

var _ command.Context = (*Mux)(nil)
