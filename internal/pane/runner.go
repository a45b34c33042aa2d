// Package pane implements the VirtualConsole: a pane's identity,
// geometry, VT emulator, line discipline, and child-process plumbing.
package pane

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// Runner is a pane's child process abstraction: whatever program is
// reading and writing the pane's master I/O streams.
type Runner interface {
	// Read returns bytes the child has written (the pane's master-output).
	Read(p []byte) (int, error)
	// Write delivers bytes to the child's stdin (the pane's master-input).
	Write(p []byte) (int, error)
	// Resize updates the child's terminal size.
	Resize(cols, rows int) error
	// Signal delivers a process-control signal (e.g. SIGINT, SIGTSTP).
	Signal(sig syscall.Signal) error
	// Wait blocks until the child exits, returning its exit error if any.
	Wait() error
	// Close releases the runner's resources.
	Close() error
}

// PTYRunner runs a child program on a real pseudo-terminal, grounded on
// the allocate-pty/set-env/exec pattern common to terminal multiplexers.
type PTYRunner struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

// StartPTY allocates a PTY of the given size and starts name(args...) on
// it, with TERM/COLUMNS/LINES set in its environment. TERM defaults to
// screen-256color, the terminfo every pane is emulated against.
func StartPTY(name string, args []string, cols, rows int) (*PTYRunner, error) {
	return StartPTYWithTerm(name, args, cols, rows, "screen-256color")
}

// StartPTYWithTerm is StartPTY with an explicit TERM value, which replaces
// any TERM inherited from the Mux's own environment, so a host
// that reports fewer than 256 colors can downgrade panes to "screen"
// rather than advertising a capability the host can't render.
func StartPTYWithTerm(name string, args []string, cols, rows int, term string) (*PTYRunner, error) {
	cmd := exec.Command(name, args...)

	var env []string
	for _, e := range os.Environ() {
		if !(len(e) > 5 && e[:5] == "TERM=") {
			env = append(env, e)
		}
	}
	cmd.Env = append(env,
		"TERM="+term,
		fmt.Sprintf("COLUMNS=%d", cols),
		fmt.Sprintf("LINES=%d", rows),
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, fmt.Errorf("pane: pty start: %w", err)
	}

	return &PTYRunner{cmd: cmd, ptmx: ptmx}, nil
}

func (r *PTYRunner) Read(p []byte) (int, error)  { return r.ptmx.Read(p) }
func (r *PTYRunner) Write(p []byte) (int, error) { return r.ptmx.Write(p) }

func (r *PTYRunner) Resize(cols, rows int) error {
	return pty.Setsize(r.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (r *PTYRunner) Signal(sig syscall.Signal) error {
	if r.cmd.Process == nil {
		return nil
	}
	return r.cmd.Process.Signal(sig)
}

func (r *PTYRunner) Wait() error { return r.cmd.Wait() }

func (r *PTYRunner) Close() error { return r.ptmx.Close() }
