package mux

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/keymap"
	"github.com/halftone-labs/vtmux/internal/layout"
	"github.com/halftone-labs/vtmux/internal/pane"
)

// ActivePaneID returns the active window's active pane id.
func (m *Mux) ActivePaneID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeWindow().active
}

// Panes returns the active window's panes as the read-only geometry view
// the selection algorithm and split/resize handlers need.
func (m *Mux) Panes() []command.PaneGeometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	out := make([]command.PaneGeometry, 0, len(w.order))
	for _, id := range w.order {
		p := w.panes[id]
		x, y, width, height := p.Geometry()
		out = append(out, command.PaneGeometry{
			ID: id, X: x, Y: y, W: width, H: height, Generation: p.Generation(),
		})
	}
	return out
}

// Prefix returns the currently configured prefix byte sequence.
func (m *Mux) Prefix() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte{}, m.prefix...)
}

// SplitActive splits the active window's active pane, starting a new
// runner in the new leaf and making it active unless makeActive is false.
// wholeWindow (-f) is honored only when the window currently has a single
// pane (its root is itself a leaf); beyond that, Tree's leaf-granularity
// Split API has no notion of "split around everything already split", so
// it falls back to splitting the active pane exactly as a plain split
// would — a deliberate scope cut, not a bug (see DESIGN.md).
func (m *Mux) SplitActive(kind layout.Kind, before, makeActive, wholeWindow bool, size command.SplitSize) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.activeWindow()
	active, ok := w.panes[w.active]
	if !ok {
		return userErrorf("split-window", "no active pane")
	}
	targetLeaf := active.Leaf()
	_ = wholeWindow // see doc comment: only a no-op distinction today

	requestedSize := -1
	total, _ := splitTotal(w.tree, targetLeaf, kind)
	if size.Exact != nil {
		requestedSize = *size.Exact
	} else if size.Percent != nil {
		requestedSize = total * (*size.Percent) / 100
	}

	newID := m.allocPaneID()
	newLeaf, err := w.tree.Split(targetLeaf, kind, requestedSize, before, newID)
	if err != nil {
		return fmt.Errorf("split-window: %w", err)
	}

	sx, sy := w.tree.Size(newLeaf)
	runner, err := m.newRunner(sx, sy)
	if err != nil {
		return fmt.Errorf("split-window: start runner: %w", err)
	}
	p := pane.New(newID, w.tree, newLeaf, runner, m.onDirty)
	p.Touch(m.allocGeneration())
	w.panes[newID] = p
	w.order = append(w.order, newID)
	m.startPump(p)

	if err := active.Resize(); err != nil {
		return err
	}

	if makeActive {
		w.active = newID
		p.Touch(m.allocGeneration())
	}
	return nil
}

func splitTotal(tree *layout.Tree, leaf layout.NodeID, kind layout.Kind) (int, int) {
	sx, sy := tree.Size(leaf)
	if kind == layout.LeftRight {
		return sx, sy
	}
	return sy, sx
}

// SetActivePane makes id the active pane in the active window, bumping
// its most-recently-active generation.
func (m *Mux) SetActivePane(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	p, ok := w.panes[id]
	if !ok {
		return userErrorf("select-pane", "no such pane %d", id)
	}
	w.active = id
	p.Touch(m.allocGeneration())
	return nil
}

// ResizePane applies resize-pane's directional growth, exact-dimension,
// or default-adjustment forms to the active pane.
func (m *Mux) ResizePane(dir *layout.Direction, exactW, exactH *int, adjust int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	p, ok := w.panes[w.active]
	if !ok {
		return userErrorf("resize-pane", "no active pane")
	}
	leaf := p.Leaf()

	if exactW != nil {
		if err := w.tree.ResizeTo(leaf, layout.LeftRight, *exactW); err != nil {
			return fmt.Errorf("resize-pane: %w", err)
		}
	}
	if exactH != nil {
		if err := w.tree.ResizeTo(leaf, layout.TopBottom, *exactH); err != nil {
			return fmt.Errorf("resize-pane: %w", err)
		}
	}
	if dir != nil {
		if err := w.tree.Resize(leaf, *dir, adjust); err != nil {
			return fmt.Errorf("resize-pane: %w", err)
		}
	}

	for _, other := range w.leafPanes() {
		if err := other.Resize(); err != nil {
			return err
		}
	}
	return nil
}

// SetClockMode sets the active pane's clock-mode flag.
func (m *Mux) SetClockMode(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	p, ok := w.panes[w.active]
	if !ok {
		return userErrorf("clock-mode", "no active pane")
	}
	p.SetClockMode(on)
	return nil
}

// DisplayPanes turns on the identify overlay. The scheduler's timer loop
// sees the flag on its next one-second tick and clears it on the first
// tick more than identifyDuration after that, so the overlay stays up for
// one to three seconds.
func (m *Mux) DisplayPanes() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identify = true
	return nil
}

// SetOption writes a server option. Setting "prefix" rewrites the keymap
// and every binding that began with the old prefix.
func (m *Mux) SetOption(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[name] = value
	if name == "prefix" {
		old := m.prefix
		m.prefix = []byte(value)
		m.trie.Rebind(old, m.prefix)
	}
	return nil
}

// BindKey binds the prefix+key chord to a command string.
func (m *Mux) BindKey(key []byte, cmd string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := append(append([]byte{}, m.prefix...), key...)
	m.trie.Bind(seq, keymap.Binding{Kind: keymap.Command, Command: cmd})
	return nil
}

// UnbindKey replaces the prefix+key chord's binding with Discard.
func (m *Mux) UnbindKey(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := append(append([]byte{}, m.prefix...), key...)
	m.trie.Bind(seq, keymap.Binding{Kind: keymap.Discard})
	return nil
}

// ListKeys formats every Command-kind binding as a sorted
// "bind-key -T TABLE KEY CMD" line: TABLE is "prefix" with KEY the bytes
// after the prefix, or "root" with KEY the whole sequence.
func (m *Mux) ListKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []string
	walkTrie(m.trie.Root(), nil, func(seq []byte, b keymap.Binding) {
		if b.Kind != keymap.Command {
			return
		}
		table, key := "root", seq
		if bytes.HasPrefix(seq, m.prefix) {
			table, key = "prefix", seq[len(m.prefix):]
		}
		rows = append(rows, fmt.Sprintf("bind-key -T %s %s %s", table, keySeqString(key), b.Command))
	})
	sort.Strings(rows)
	return rows
}

func keySeqString(seq []byte) string {
	var sb strings.Builder
	for _, b := range seq {
		if b >= 0x20 && b < 0x7f {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "\\x%02x", b)
		}
	}
	return sb.String()
}

// SendPrefix writes the configured prefix bytes to the active pane.
func (m *Mux) SendPrefix() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	p, ok := w.panes[w.active]
	if !ok {
		return userErrorf("send-prefix", "no active pane")
	}
	return p.HandleInput(m.prefix)
}

// SendKeys injects keys into the active pane's master-input, repeat
// times, either literally (raw bytes) or translated through the named-key
// table.
func (m *Mux) SendKeys(literal bool, repeat int, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.activeWindow()
	p, ok := w.panes[w.active]
	if !ok {
		return userErrorf("send-keys", "no active pane")
	}
	if repeat < 1 {
		repeat = 1
	}

	var payload []byte
	for _, k := range keys {
		if literal {
			payload = append(payload, []byte(k)...)
			continue
		}
		b, err := command.TranslateKey(k)
		if err != nil {
			return fmt.Errorf("send-keys: %w", err)
		}
		payload = append(payload, b...)
	}

	for i := 0; i < repeat; i++ {
		if err := p.HandleInput(payload); err != nil {
			return err
		}
	}
	return nil
}

// NewWindow appends a new window with a single pane and makes it active.
func (m *Mux) NewWindow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.addWindow(); err != nil {
		return err
	}
	m.active = len(m.windows) - 1
	return nil
}

// NextWindow activates the window after the current one, wrapping.
func (m *Mux) NextWindow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = (m.active + 1) % len(m.windows)
	return nil
}

// PreviousWindow activates the window before the current one, wrapping.
func (m *Mux) PreviousWindow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = (m.active - 1 + len(m.windows)) % len(m.windows)
	return nil
}

// ListWindows formats each window as "INDEX: NAME (N panes)", with a "*"
// right after the active window's NAME.
func (m *Mux) ListWindows() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.windows))
	for i, w := range m.windows {
		marker := ""
		if i == m.active {
			marker = "*"
		}
		out = append(out, fmt.Sprintf("%d: %s%s (%d panes)", i, w.name, marker, len(w.order)))
	}
	return out
}

// walkTrie visits every definite binding reachable from n, passing the
// full byte sequence matched so far.
func walkTrie(n *keymap.Node, prefix []byte, visit func(seq []byte, b keymap.Binding)) {
	if b, ok := n.Binding(); ok {
		visit(prefix, b)
	}
	for i := 0; i < 256; i++ {
		if child, ok := n.Child(byte(i)); ok {
			walkTrie(child, append(append([]byte{}, prefix...), byte(i)), visit)
		}
	}
}
