package mux

import (
	"errors"
	"sync"
	"syscall"
	"testing"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/layout"
	"github.com/halftone-labs/vtmux/internal/pane"
)

// fakeRunner is a pane.Runner with no real child process: its Read blocks
// on an empty channel until Close unblocks it with an error, the same
// shape PumpOutput sees when a real child exits.
type fakeRunner struct {
	mu      sync.Mutex
	written []byte
	cols    int
	rows    int
	signals []syscall.Signal
	closed  bool
	pending chan []byte
}

func newFakeRunner(cols, rows int) *fakeRunner {
	return &fakeRunner{cols: cols, rows: rows, pending: make(chan []byte, 8)}
}

func (r *fakeRunner) Read(p []byte) (int, error) {
	chunk, ok := <-r.pending
	if !ok {
		return 0, errors.New("fakeRunner: closed")
	}
	n := copy(p, chunk)
	return n, nil
}

func (r *fakeRunner) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, p...)
	return len(p), nil
}

func (r *fakeRunner) Resize(cols, rows int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols, r.rows = cols, rows
	return nil
}

func (r *fakeRunner) Signal(sig syscall.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, sig)
	return nil
}

func (r *fakeRunner) Wait() error { return nil }

func (r *fakeRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.pending)
	}
	return nil
}

// newTestMux builds a Mux backed entirely by fakeRunners, recording every
// runner it ever starts so a test can reach in and drive/close one of them.
func newTestMux(t *testing.T, cols, rows int) (*Mux, *[]*fakeRunner) {
	t.Helper()
	var runners []*fakeRunner
	runnerSlice := &runners

	m, err := New(cols, rows, []byte("`"), func(c, r int) (pane.Runner, error) {
		rn := newFakeRunner(c, r)
		*runnerSlice = append(*runnerSlice, rn)
		return rn, nil
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, runnerSlice
}

func TestNewStartsOneWindowOnePane(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	panes := m.Panes()
	if len(panes) != 1 {
		t.Fatalf("len(Panes()) = %d, want 1", len(panes))
	}
	if cols, rows := m.ContentSize(); cols != 80 || rows != 23 {
		t.Fatalf("ContentSize() = (%d,%d), want (80,23) — last row reserved for status bar", cols, rows)
	}
	if !m.Running() {
		t.Fatalf("expected Running() true right after New")
	}
}

func TestSplitActiveAddsPaneAndMakesItActive(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	before := m.ActivePaneID()

	if err := m.SplitActive(layout.TopBottom, false, true, false, command.SplitSize{}); err != nil {
		t.Fatalf("SplitActive: %v", err)
	}

	panes := m.Panes()
	if len(panes) != 2 {
		t.Fatalf("len(Panes()) = %d, want 2", len(panes))
	}
	if m.ActivePaneID() == before {
		t.Fatalf("expected a new active pane after split with makeActive=true")
	}
}

func TestSplitActiveDetachedKeepsOriginalActive(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	before := m.ActivePaneID()

	if err := m.SplitActive(layout.LeftRight, false, false, false, command.SplitSize{}); err != nil {
		t.Fatalf("SplitActive: %v", err)
	}
	if m.ActivePaneID() != before {
		t.Fatalf("ActivePaneID() changed despite makeActive=false")
	}
}

func TestClosePaneOfTwoPromotesSurvivor(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	first := m.ActivePaneID()

	if err := m.SplitActive(layout.TopBottom, false, true, false, command.SplitSize{}); err != nil {
		t.Fatalf("SplitActive: %v", err)
	}
	second := m.ActivePaneID()
	if second == first {
		t.Fatalf("split did not change active pane")
	}

	if err := m.ClosePane(second); err != nil {
		t.Fatalf("ClosePane: %v", err)
	}
	if len(m.Panes()) != 1 {
		t.Fatalf("len(Panes()) = %d, want 1 after close", len(m.Panes()))
	}
	if !m.Running() {
		t.Fatalf("one surviving pane should keep the session running")
	}
}

func TestClosingLastPaneStopsMux(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	id := m.ActivePaneID()

	if err := m.ClosePane(id); err != nil {
		t.Fatalf("ClosePane: %v", err)
	}
	if m.Running() {
		t.Fatalf("Running() should be false once every pane is gone")
	}
}

func TestSetOptionPrefixRebindsTrie(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.SetOption("prefix", "\x01"); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	if string(m.Prefix()) != "\x01" {
		t.Fatalf("Prefix() = %q, want \\x01", m.Prefix())
	}

	// the old prefix no longer starts any chord in the rebuilt trie.
	if _, ok := m.Trie().Root().Child('`'); ok {
		t.Fatalf("old prefix byte still bound after rebind")
	}
	if _, ok := m.Trie().Root().Child(0x01); !ok {
		t.Fatalf("new prefix byte not bound after rebind")
	}
}

func TestEscapeTimeoutDefaultsAndOverrides(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if m.EscapeTimeout() <= 0 {
		t.Fatalf("EscapeTimeout() = %v, want positive default", m.EscapeTimeout())
	}
	m.SetEscapeTimeout(0) // non-positive override must be ignored
	if m.EscapeTimeout() <= 0 {
		t.Fatalf("EscapeTimeout() became non-positive after a zero override")
	}
}

func TestHandleResizeShrinksContentArea(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.HandleResize(100, 30); err != nil {
		t.Fatalf("HandleResize: %v", err)
	}
	if cols, rows := m.ContentSize(); cols != 100 || rows != 29 {
		t.Fatalf("ContentSize() = (%d,%d), want (100,29)", cols, rows)
	}
}

func TestHandleResizePropagatesToRunners(t *testing.T) {
	m, runners := newTestMux(t, 80, 24)
	if err := m.HandleResize(120, 40); err != nil {
		t.Fatalf("HandleResize: %v", err)
	}
	rn := (*runners)[0]
	rn.mu.Lock()
	cols, rows := rn.cols, rn.rows
	rn.mu.Unlock()
	if cols != 120 || rows != 39 {
		t.Fatalf("runner size = (%d,%d), want (120,39)", cols, rows)
	}
}

func TestSendKeysWritesTranslatedBytesToRunner(t *testing.T) {
	m, runners := newTestMux(t, 80, 24)
	if err := m.SendKeys(false, 2, []string{"Up"}); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	rn := (*runners)[0]
	rn.mu.Lock()
	got := string(rn.written)
	rn.mu.Unlock()
	want := "\x1b[A\x1b[A"
	if got != want {
		t.Fatalf("written = %q, want %q", got, want)
	}
}
