package command

import (
	"fmt"

	"github.com/halftone-labs/vtmux/internal/layout"
)

// PaneGeometry is the read-only view of one pane a selection/layout
// command needs: its rectangle and most-recent-use ordering.
type PaneGeometry struct {
	ID         int
	X, Y, W, H int
	Generation int
}

// SplitSize expresses the new leaf's dimension for split-window: at most
// one of Exact or Percent is set; neither set means "split in half".
type SplitSize struct {
	Exact   *int
	Percent *int
}

// Context is everything a command handler may observe or mutate. A Mux
// implements it; commands never reach into Mux fields directly, so the
// interpreter stays testable against a fake.
type Context interface {
	ActivePaneID() int
	Panes() []PaneGeometry
	Prefix() []byte

	SplitActive(kind layout.Kind, before, makeActive, wholeWindow bool, size SplitSize) error
	SetActivePane(id int) error
	ResizePane(dir *layout.Direction, exactW, exactH *int, adjust int) error
	SetClockMode(on bool) error
	DisplayPanes() error

	SetOption(name, value string) error
	BindKey(key []byte, cmd string) error
	UnbindKey(key []byte) error
	ListKeys() []string

	SendPrefix() error
	SendKeys(literal bool, repeat int, keys []string) error

	NewWindow() error
	NextWindow() error
	PreviousWindow() error
	ListWindows() []string
}

// Handler executes one command's parsed arguments against ctx, returning
// any informational text the command produces (e.g. list-keys' table).
type Handler func(ctx Context, args []string) (string, error)

type entry struct {
	canonical string
	handler   Handler
}

var registry = map[string]entry{}

func register(canonical string, h Handler, aliases ...string) {
	e := entry{canonical: canonical, handler: h}
	registry[canonical] = e
	for _, a := range aliases {
		registry[a] = e
	}
}

func init() {
	register("send-prefix", cmdSendPrefix)
	register("split-window", cmdSplitWindow, "splitw")
	register("select-pane", cmdSelectPane, "selectp")
	register("resize-pane", cmdResizePane, "resizep")
	register("display-panes", cmdDisplayPanes, "displayp")
	register("clock-mode", cmdClockMode)
	register("set-option", cmdSetOption, "set")
	register("bind-key", cmdBindKey, "bind")
	register("unbind-key", cmdUnbindKey, "unbind")
	register("list-keys", cmdListKeys, "lsk")
	register("send-keys", cmdSendKeys, "send")
	register("new-window", cmdNewWindow, "neww")
	register("next-window", cmdNextWindow, "next")
	register("previous-window", cmdPreviousWindow, "prev")
	register("list-windows", cmdListWindows, "lsw")
}

// Result carries a command's output back to the caller: Stdout for
// informational text (e.g. list-keys), Stderr for a failure message. A
// zero Result means the command succeeded and produced no output.
type Result struct {
	Stdout string
	Stderr string
}

// Execute tokenizes and runs one command line against ctx. Errors never
// propagate as Go errors to the caller — per the interpreter's contract,
// every failure becomes a one-line message on Stderr and leaves state
// unchanged.
func Execute(ctx Context, line string) Result {
	args, err := Tokenize(line)
	if err != nil {
		return Result{Stderr: err.Error() + "\n"}
	}
	return Run(ctx, args)
}

// Run executes an already-tokenized command (name plus arguments).
func Run(ctx Context, args []string) Result {
	if len(args) == 0 {
		return Result{}
	}
	e, ok := registry[args[0]]
	if !ok {
		return Result{Stderr: fmt.Sprintf("unknown command: %s\n", args[0])}
	}
	out, err := e.handler(ctx, args[1:])
	if err != nil {
		return Result{Stderr: err.Error() + "\n"}
	}
	return Result{Stdout: out}
}
