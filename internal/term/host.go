// Package term drives the host terminal: the one real tty the Mux owns
// directly, as opposed to the virtual consoles it emulates per pane.
package term

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Capability escape strings the Mux emits directly to the host, grounded
// on the xterm/screen control sequences every terminal in the corpus
// assumes.
const (
	EnterAltScreen  = "\x1b[?1049h"
	ExitAltScreen   = "\x1b[?1049l"
	KeypadOn        = "\x1b[?1h\x1b="
	KeypadOff       = "\x1b[?1l\x1b>"
	ClearScreen     = "\x1b[2J\x1b[H"
	CursorVisible   = "\x1b[?25h"
	CursorInvisible = "\x1b[?25l"
	MouseTrackingOn = "\x1b[?1000h\x1b[?1002h\x1b[?1003h\x1b[?1006h"
	MouseTrackingOff = "\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l"
	BracketedPasteOn  = "\x1b[?2004h"
	BracketedPasteOff = "\x1b[?2004l"
)

// Host is the real terminal the Mux's input/redraw loops read from and
// write to: stdin/stdout, wrapped with raw-mode control and resize/signal
// subscriptions.
type Host struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State

	winch    chan struct{}
	childSig chan ChildSignal
}

// Open wraps stdin/stdout as a Host. It does not enter raw mode; call
// EnterRaw once the caller is ready to take over the screen.
func Open() *Host {
	return &Host{in: os.Stdin, out: os.Stdout}
}

// Read reads raw bytes typed at the host terminal.
func (h *Host) Read(p []byte) (int, error) { return h.in.Read(p) }

// Write writes raw bytes (content or escape sequences) to the host.
func (h *Host) Write(p []byte) (int, error) { return h.out.Write(p) }

// Size reports the host terminal's current column/row count.
func (h *Host) Size() (cols, rows int, err error) {
	return term.GetSize(int(h.in.Fd()))
}

// EnterRaw puts the host terminal into raw mode, stashing the previous
// state for ExitRaw, and writes the alt-screen/keypad/clear-screen/
// cursor-hide setup sequences expected by a full-screen application.
// Mouse tracking is not enabled.
func (h *Host) EnterRaw() error {
	state, err := term.MakeRaw(int(h.in.Fd()))
	if err != nil {
		return fmt.Errorf("term: enter raw mode: %w", err)
	}
	h.mu.Lock()
	h.oldState = state
	h.mu.Unlock()

	_, err = h.Write([]byte(EnterAltScreen + KeypadOn + ClearScreen + CursorInvisible))
	return err
}

// ExitRaw restores cooked mode and undoes the full-screen setup. Safe to
// call more than once; a nil saved state is a no-op.
func (h *Host) ExitRaw() {
	_, _ = h.Write([]byte(CursorVisible + KeypadOff + ExitAltScreen))

	h.mu.Lock()
	state := h.oldState
	h.oldState = nil
	h.mu.Unlock()

	if state != nil {
		_ = term.Restore(int(h.in.Fd()), state)
	}
}

// Resizes returns a channel that receives a value each time the host
// terminal's size changes (SIGWINCH).
func (h *Host) Resizes() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.winch != nil {
		return h.winch
	}
	h.winch = make(chan struct{}, 1)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			select {
			case h.winch <- struct{}{}:
			default:
			}
		}
	}()
	return h.winch
}

// ChildSignal identifies the process-control signals the scheduler
// forwards to the active pane's child rather than handling itself.
type ChildSignal int

const (
	SigInt ChildSignal = iota
	SigTstp
)

// ChildSignals returns a channel that receives INT and TSTP as they
// arrive at the Mux process, for the scheduler to forward to the active
// pane (§5: "signals are never treated as errors; they are first-class
// events" and are forwarded, not handled locally).
func (h *Host) ChildSignals() <-chan ChildSignal {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.childSig != nil {
		return h.childSig
	}
	raw := make(chan os.Signal, 2)
	signal.Notify(raw, syscall.SIGINT, syscall.SIGTSTP)
	h.childSig = make(chan ChildSignal, 2)
	go forwardChildSignals(raw, h.childSig)
	return h.childSig
}

func forwardChildSignals(in <-chan os.Signal, out chan<- ChildSignal) {
	for s := range in {
		switch s {
		case syscall.SIGINT:
			out <- SigInt
		case syscall.SIGTSTP:
			out <- SigTstp
		}
	}
}

// RawSize queries TIOCGWINSZ directly via golang.org/x/sys/unix, the path
// term.GetSize itself uses internally; exposed for callers that need the
// pixel dimensions term.GetSize discards.
func (h *Host) RawSize() (cols, rows, xpixel, ypixel int, err error) {
	ws, err := unix.IoctlGetWinsize(int(h.in.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return int(ws.Col), int(ws.Row), int(ws.Xpixel), int(ws.Ypixel), nil
}
