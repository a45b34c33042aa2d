package mux

import (
	"errors"
	"testing"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/keymap"
	"github.com/halftone-labs/vtmux/internal/layout"
	"github.com/halftone-labs/vtmux/internal/pane"
)

func TestResizePaneExactDimension(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.SplitActive(layout.LeftRight, false, true, false, command.SplitSize{}); err != nil {
		t.Fatalf("SplitActive: %v", err)
	}
	w := 20
	if err := m.ResizePane(nil, &w, nil, 0); err != nil {
		t.Fatalf("ResizePane: %v", err)
	}
	found := false
	for _, p := range m.Panes() {
		if p.W == 20 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no pane resized to width 20: %+v", m.Panes())
	}
}

func TestResizePaneNoActivePaneIsUserError(t *testing.T) {
	m := &Mux{windows: []*Window{{panes: map[int]*pane.VirtualConsole{}}}}
	err := m.ResizePane(nil, nil, nil, 5)
	var ue *UserError
	if !errors.As(err, &ue) {
		t.Fatalf("ResizePane err = %v, want *UserError", err)
	}
	if ue.Command != "resize-pane" {
		t.Fatalf("UserError.Command = %q, want resize-pane", ue.Command)
	}
}

func TestSetClockModeTogglesActivePane(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.SetClockMode(true); err != nil {
		t.Fatalf("SetClockMode: %v", err)
	}
	if !m.AnyClockMode() {
		t.Fatalf("AnyClockMode() = false after SetClockMode(true)")
	}
	if err := m.SetClockMode(false); err != nil {
		t.Fatalf("SetClockMode: %v", err)
	}
	if m.AnyClockMode() {
		t.Fatalf("AnyClockMode() = true after SetClockMode(false)")
	}
}

func TestDisplayPanesSetsIdentify(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if m.Identify() {
		t.Fatalf("Identify() true before DisplayPanes")
	}
	if err := m.DisplayPanes(); err != nil {
		t.Fatalf("DisplayPanes: %v", err)
	}
	if !m.Identify() {
		t.Fatalf("Identify() false after DisplayPanes")
	}
}

func TestBindKeyAndListKeysRoundTrip(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.BindKey([]byte("x"), "select-pane -U"); err != nil {
		t.Fatalf("BindKey: %v", err)
	}
	rows := m.ListKeys()
	found := false
	for _, r := range rows {
		if r == "bind-key -T prefix x select-pane -U" {
			found = true
		}
	}
	if !found {
		t.Fatalf("ListKeys() = %v, missing bound chord", rows)
	}
}

func TestUnbindKeyRemovesCommandBinding(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.BindKey([]byte("x"), "select-pane -U"); err != nil {
		t.Fatalf("BindKey: %v", err)
	}
	if err := m.UnbindKey([]byte("x")); err != nil {
		t.Fatalf("UnbindKey: %v", err)
	}
	for _, r := range m.ListKeys() {
		if r == "bind-key -T prefix x select-pane -U" {
			t.Fatalf("ListKeys() still reports unbound chord: %v", m.ListKeys())
		}
	}
}

func TestSendPrefixWritesConfiguredPrefixBytes(t *testing.T) {
	m, runners := newTestMux(t, 80, 24)
	if err := m.SendPrefix(); err != nil {
		t.Fatalf("SendPrefix: %v", err)
	}
	rn := (*runners)[0]
	rn.mu.Lock()
	got := string(rn.written)
	rn.mu.Unlock()
	if got != "`" {
		t.Fatalf("written = %q, want the configured prefix", got)
	}
}

func TestWindowNavigationWraps(t *testing.T) {
	m, _ := newTestMux(t, 80, 24)
	if err := m.NewWindow(); err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	if len(m.ListWindows()) != 2 {
		t.Fatalf("ListWindows() = %v, want 2 windows", m.ListWindows())
	}

	if err := m.NextWindow(); err != nil {
		t.Fatalf("NextWindow: %v", err)
	}
	if err := m.NextWindow(); err != nil {
		t.Fatalf("NextWindow: %v", err)
	}
	// two windows, two NextWindow calls from window 1: back to window 1.
	if m.active != 1 {
		t.Fatalf("active window = %d, want 1 after wrapping twice", m.active)
	}

	if err := m.PreviousWindow(); err != nil {
		t.Fatalf("PreviousWindow: %v", err)
	}
	if m.active != 0 {
		t.Fatalf("active window = %d, want 0", m.active)
	}
}

func TestSelfInsertDefaultBindingForUnboundByte(t *testing.T) {
	trie := keymap.Defaults([]byte("`"))
	// an ordinary byte with no prefix match at all never reaches the trie
	// in the scheduler (see scheduler.go's Root().Child pre-check); this
	// checks that a plain byte such as 'a' starts no chord in the default
	// table, so it always takes that self-insert path.
	if _, ok := trie.Root().Child('a'); ok {
		t.Fatalf("plain byte 'a' should not start any chord in Defaults()")
	}
}

