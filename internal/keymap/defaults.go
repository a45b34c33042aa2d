package keymap

import "strconv"

// Arrow and modified-arrow escape sequences the default table binds
// after the prefix, in xterm's normal and ctrl-modified CSI forms.
var (
	arrowUp    = []byte("\x1b[A")
	arrowDown  = []byte("\x1b[B")
	arrowRight = []byte("\x1b[C")
	arrowLeft  = []byte("\x1b[D")

	ctrlArrowUp    = []byte("\x1b[1;5A")
	ctrlArrowDown  = []byte("\x1b[1;5B")
	ctrlArrowRight = []byte("\x1b[1;5C")
	ctrlArrowLeft  = []byte("\x1b[1;5D")

	escArrowUp    = append([]byte("\x1b"), arrowUp...)
	escArrowDown  = append([]byte("\x1b"), arrowDown...)
	escArrowRight = append([]byte("\x1b"), arrowRight...)
	escArrowLeft  = append([]byte("\x1b"), arrowLeft...)
)

// defaultResizeStep is the column/row count a resize-pane binding applies
// per chord, larger than resize-pane's own default adjustment of 1.
const defaultResizeStep = 5

// Defaults builds the trie of root bindings generated from prefix, per
// the table: send-prefix, the two split directions, pane selection and
// resizing via the arrow keys, the single-letter commands, and a silent
// Discard for every other byte following the prefix.
func Defaults(prefix []byte) *Trie {
	t := New()

	for b := 0; b < 256; b++ {
		t.Bind(append(append([]byte{}, prefix...), byte(b)), Binding{Kind: Discard})
	}

	bind := func(rest []byte, cmd string) {
		seq := append(append([]byte{}, prefix...), rest...)
		t.Bind(seq, Binding{Kind: Command, Command: cmd})
	}

	bind(prefix, "send-prefix")

	bind([]byte(`"`), "split-window -v")
	bind([]byte(`%`), "split-window -h")

	bind(arrowUp, "select-pane -U")
	bind(arrowDown, "select-pane -D")
	bind(arrowLeft, "select-pane -L")
	bind(arrowRight, "select-pane -R")

	bind(ctrlArrowUp, resizeCmd("-U"))
	bind(ctrlArrowDown, resizeCmd("-D"))
	bind(ctrlArrowLeft, resizeCmd("-L"))
	bind(ctrlArrowRight, resizeCmd("-R"))
	bind(escArrowUp, resizeCmd("-U"))
	bind(escArrowDown, resizeCmd("-D"))
	bind(escArrowLeft, resizeCmd("-L"))
	bind(escArrowRight, resizeCmd("-R"))

	bind([]byte("q"), "display-panes")
	bind([]byte("t"), "clock-mode")
	bind([]byte("c"), "new-window")
	bind([]byte("n"), "next-window")
	bind([]byte("p"), "previous-window")

	return t
}

func resizeCmd(dir string) string {
	return "resize-pane " + dir + " " + strconv.Itoa(defaultResizeStep)
}
