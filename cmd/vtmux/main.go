// Command vtmux is the standalone multiplexer binary: it owns the host
// terminal, starts one shell pane, and runs the scheduler until every
// window's last pane exits.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/compositor"
	"github.com/halftone-labs/vtmux/internal/mux"
	"github.com/halftone-labs/vtmux/internal/pane"
	"github.com/halftone-labs/vtmux/internal/term"
)

// CLI is the top-level flag/subcommand structure. There is no config-file
// parser (spec non-goal); every process-level knob is a flag here.
type CLI struct {
	Verbose bool `short:"v" help:"write debug-level log lines to the in-memory ring buffer"`

	Start    RunCmd   `cmd:"" help:"start an interactive multiplexer session"`
	DebugCmd DebugCmd `cmd:"" name:"debug" help:"developer utilities that don't take over the terminal"`
}

// RunCmd starts a real session against the host terminal.
type RunCmd struct {
	Prefix        string        `help:"key sequence introducing a command chord, e.g. \"C-b\" (default: the backtick character)"`
	EscapeTimeout time.Duration `default:"100ms" help:"how long an ambiguous prefix chord waits before resolving to its shortest match"`
	Shell         string        `help:"child program each pane starts (default: $SHELL, falling back to /bin/sh)"`
	Force256      bool          `name:"force-256-color" help:"advertise screen-256color to panes even if the host's probed capability looks weaker"`
}

func (cmd *RunCmd) Run(logs *ringBuffer) error {
	if cmd.Prefix == "" {
		cmd.Prefix = "`"
	}
	prefix, err := command.TranslateKey(cmd.Prefix)
	if err != nil {
		return fmt.Errorf("vtmux: bad --prefix: %w", err)
	}

	host := term.Open()
	cols, rows, err := host.Size()
	if err != nil {
		return fmt.Errorf("vtmux: query host size: %w", err)
	}

	dirty := mux.NewSignal()
	newRunner := func(sx, sy int) (pane.Runner, error) {
		return pane.StartPTYWithTerm(cmd.shellPath(), nil, sx, sy, cmd.termName())
	}

	m, err := mux.New(cols, rows, prefix, newRunner, dirty.Set)
	if err != nil {
		return fmt.Errorf("vtmux: start session: %w", err)
	}
	m.SetEscapeTimeout(cmd.EscapeTimeout)

	if err := host.EnterRaw(); err != nil {
		return fmt.Errorf("vtmux: enter raw mode: %w", err)
	}
	defer host.ExitRaw()

	logger := slog.New(newSlogRingHandler(logs, slog.LevelInfo))
	sched := mux.NewScheduler(m, host, dirty, logger)
	return sched.Run(context.Background())
}

func (cmd *RunCmd) shellPath() string {
	if cmd.Shell != "" {
		return cmd.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func (cmd *RunCmd) termName() string {
	if cmd.Force256 {
		return "screen-256color"
	}
	switch {
	case strings.Contains(os.Getenv("TERM"), "256color"):
		return "screen-256color"
	case os.Getenv("COLORTERM") != "":
		return "screen-256color"
	default:
		return "screen"
	}
}

// DebugCmd groups developer utilities that run without taking over the
// terminal, per SPEC_FULL §12's screenshot supplement.
type DebugCmd struct {
	Screenshot ScreenshotCmd `cmd:"" help:"start a scripted session and dump its composed frame as a PNG"`
}

// ScreenshotCmd starts one shell pane, optionally feeds it the --script
// bytes, waits Settle for the shell to catch up, then writes the
// composed frame to Out. It never touches the host terminal's mode —
// useful for golden-image tests and headless debugging alike.
type ScreenshotCmd struct {
	Out    string        `arg:"" default:"vtmux-debug.png" help:"output PNG path"`
	Cols   int           `default:"80" help:"virtual host width"`
	Rows   int           `default:"24" help:"virtual host height"`
	Settle time.Duration `default:"300ms" help:"how long to let the shell draw before snapshotting"`
	Script string        `help:"literal bytes to send to the pane before snapshotting, e.g. \"echo hi\\n\""`
}

func (cmd *ScreenshotCmd) Run() error {
	dirty := mux.NewSignal()
	newRunner := func(sx, sy int) (pane.Runner, error) {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		return pane.StartPTY(shell, nil, sx, sy)
	}

	m, err := mux.New(cmd.Cols, cmd.Rows, []byte("\x60"), newRunner, dirty.Set)
	if err != nil {
		return fmt.Errorf("vtmux debug screenshot: start session: %w", err)
	}

	if cmd.Script != "" {
		if err := m.ActivePane().HandleInput([]byte(cmd.Script)); err != nil {
			return fmt.Errorf("vtmux debug screenshot: write script: %w", err)
		}
	}
	time.Sleep(cmd.Settle)

	cols, rows := m.ContentSize()
	panes := m.LeafPanes()
	activeID := m.ActivePaneID()

	views := make([]compositor.PaneView, 0, len(panes))
	for _, p := range panes {
		x, y, w, h := p.Geometry()
		views = append(views, compositor.PaneView{
			ID: p.ID(), X: x, Y: y, W: w, H: h,
			Active: p.ID() == activeID, ClockMode: p.ClockMode(),
			Grid: p.Term().Grid(), Cursor: p.Cursor(),
		})
	}

	frame := compositor.Compose(cols, rows+1, views, m.Identify(), time.Now())

	f, err := os.Create(cmd.Out)
	if err != nil {
		return fmt.Errorf("vtmux debug screenshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := frame.WritePNG(w); err != nil {
		return fmt.Errorf("vtmux debug screenshot: %w", err)
	}
	return w.Flush()
}

func main() {
	cli := CLI{}
	logs := newRingBuffer(512)

	parser, err := kong.New(&cli,
		kong.Name("vtmux"),
		kong.Description("A prefix-keyed terminal multiplexer."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vtmux: %v\n", err)
		os.Exit(1)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(newSlogRingHandler(logs, level)))

	ctx.Bind(logs)
	err = ctx.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, logsTail(logs))
	}
	ctx.FatalIfErrorf(err)
}

// logsTail surfaces the last few ring-buffer lines on a fatal error, since
// raw mode has already been torn down by the time main prints anything.
func logsTail(logs *ringBuffer) string {
	lines := logs.Lines()
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return strings.Join(lines, "\n")
}
