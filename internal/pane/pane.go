package pane

import (
	"sync"
	"syscall"

	"github.com/halftone-labs/vtmux/internal/layout"
	"github.com/halftone-labs/vtmux/internal/linedisc"
	"github.com/halftone-labs/vtmux/internal/vt"
)

// VirtualConsole is one pane: a layout leaf, its VT emulator, its line
// discipline, and the child process reading/writing its master streams.
// Geometry is never cached — it's read lazily from the leaf every time,
// so a layout change never leaves a pane holding a stale rectangle.
type VirtualConsole struct {
	id int

	tree *layout.Tree
	leaf layout.NodeID

	term   *vt.ScreenTerminal
	disc   *linedisc.Discipline
	runner Runner

	mu         sync.Mutex
	generation int
	clockMode  bool
}

// New builds a pane whose grid matches leaf's current size in tree, fed
// by runner's output and notifying onDirty (via vt.WithDirty) whenever
// the grid changes.
func New(id int, tree *layout.Tree, leaf layout.NodeID, runner Runner, onDirty func()) *VirtualConsole {
	sx, sy := tree.Size(leaf)
	pc := &VirtualConsole{id: id, tree: tree, leaf: leaf, runner: runner}

	opts := []vt.Option{vt.WithSize(sx, sy), vt.WithResponse(vt.ResponseWriterFunc(pc.writeResponse))}
	if onDirty != nil {
		opts = append(opts, vt.WithDirty(vt.DirtyHandlerFunc(onDirty)))
	}
	pc.term = vt.New(opts...)
	pc.disc = linedisc.New(pc)

	return pc
}

// ID returns the pane's identity.
func (p *VirtualConsole) ID() int { return p.id }

// Leaf returns the layout leaf backing this pane's geometry, so an owning
// window can drive splits/resizes/removal through the same Tree.
func (p *VirtualConsole) Leaf() layout.NodeID { return p.leaf }

// Cursor returns the pane's VT emulator cursor position and visibility.
func (p *VirtualConsole) Cursor() vt.Cursor { return p.term.Cursor() }

// Geometry returns the pane's content rectangle, read straight from its
// layout leaf.
func (p *VirtualConsole) Geometry() (x, y, w, h int) {
	w, h = p.tree.Size(p.leaf)
	x, y = p.tree.Offset(p.leaf)
	return x, y, w, h
}

// Term returns the pane's VT emulator.
func (p *VirtualConsole) Term() *vt.ScreenTerminal { return p.term }

// Runner returns the pane's child-process handle.
func (p *VirtualConsole) Runner() Runner { return p.runner }

// Touch sets the pane's most-recently-active generation counter to next.
func (p *VirtualConsole) Touch(next int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation = next
}

// Generation returns the pane's last-touched generation counter.
func (p *VirtualConsole) Generation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// SetClockMode toggles the clock overlay the compositor draws in place
// of this pane's content.
func (p *VirtualConsole) SetClockMode(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clockMode = on
}

// ClockMode reports whether the clock overlay is active.
func (p *VirtualConsole) ClockMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clockMode
}

// HandleInput routes host-delivered SelfInsert bytes through the line
// discipline: lines it releases go to the child; whatever it echoes is
// rendered directly into the grid, the way a real tty's local echo would
// appear on screen.
func (p *VirtualConsole) HandleInput(data []byte) error {
	for _, b := range data {
		if line := p.disc.Input(b); line != nil {
			if _, err := p.runner.Write(line); err != nil {
				return err
			}
		}
	}
	if echoed := p.disc.Output(); len(echoed) > 0 {
		p.term.Write(echoed)
	}
	return nil
}

// PumpOutput reads one chunk of the runner's output and feeds it to the
// VT emulator, returning the number of bytes consumed. Intended to be
// called in a loop by the owning scheduler/reader goroutine.
func (p *VirtualConsole) PumpOutput(buf []byte) (int, error) {
	n, err := p.runner.Read(buf)
	if n > 0 {
		p.term.Write(buf[:n])
	}
	return n, err
}

// Resize propagates a new leaf size to both the VT emulator and the
// child's PTY.
func (p *VirtualConsole) Resize() error {
	sx, sy := p.tree.Size(p.leaf)
	p.term.Resize(sx, sy)
	return p.runner.Resize(sx, sy)
}

// Raise implements linedisc.SignalRaiser: ISIG translates INTR/SUSP into
// a real signal delivered to the child process.
func (p *VirtualConsole) Raise(sig linedisc.Signal) {
	switch sig {
	case linedisc.SIGINT:
		_ = p.runner.Signal(syscall.SIGINT)
	case linedisc.SIGTSTP:
		_ = p.runner.Signal(syscall.SIGTSTP)
	}
}

func (p *VirtualConsole) writeResponse(b []byte) {
	_, _ = p.runner.Write(b)
}

// Close tears down the child process and its PTY.
func (p *VirtualConsole) Close() error {
	return p.runner.Close()
}
