package mux

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/halftone-labs/vtmux/internal/command"
	"github.com/halftone-labs/vtmux/internal/compositor"
	"github.com/halftone-labs/vtmux/internal/keymap"
	"github.com/halftone-labs/vtmux/internal/linedisc"
	"github.com/halftone-labs/vtmux/internal/term"
)

const (
	identifyDuration = time.Second
	clockTick        = time.Second
	inputFlushIdle   = 100 * time.Millisecond
)

// Signal is a level-triggered wakeup: Set is safe to call from any
// goroutine (including a pane's vt.DirtyHandler callback) any number of
// times between reads of C, which coalesces them into one pending wakeup.
type Signal struct {
	ch chan struct{}
}

// NewSignal returns a ready-to-use Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Set schedules a wakeup, a no-op if one is already pending.
func (s *Signal) Set() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel a select should wait on.
func (s *Signal) C() <-chan struct{} { return s.ch }

// Scheduler runs the Mux's input loop, redraw loop, and timers per §4.7:
// one BindingReader-driven input pump, one dirty-driven redraw pump, and
// a clock/identify timer goroutine, coordinated with errgroup so the
// first fatal error tears every loop down together.
type Scheduler struct {
	mux    *Mux
	host   *term.Host
	dirty  *Signal
	resize *Signal
	log    *slog.Logger

	prev *compositor.Frame
}

// NewScheduler wires mux to host. dirty must be the same Signal passed as
// mux's onDirty hook at construction time.
func NewScheduler(m *Mux, host *term.Host, dirty *Signal, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{mux: m, host: host, dirty: dirty, resize: NewSignal(), log: log}
}

// Run blocks until the Mux's running flag clears or a fatal error occurs,
// running the input loop, redraw loop, timer loop, and signal-forwarding
// loop concurrently.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// the input loop returns once running clears; cancelling then wakes
	// the loops that block on channels only (signalLoop, timerLoop).
	g.Go(func() error { defer cancel(); return s.inputLoop(ctx) })
	g.Go(func() error { return s.redrawLoop(ctx) })
	g.Go(func() error { return s.timerLoop(ctx) })
	g.Go(func() error { return s.signalLoop(ctx) })

	err := g.Wait()
	s.mux.Stop()
	return err
}

// inputLoop reads host bytes into a keymap Reader, dispatching
// SelfInsert bytes to the active pane (batched, flushed on a short idle)
// and Command bindings to the interpreter.
func (s *Scheduler) inputLoop(ctx context.Context) error {
	bytesCh := make(chan byte, 256)
	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := s.host.Read(buf)
			if n > 0 {
				bytesCh <- buf[0]
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}()

	next := func(d time.Duration) (byte, bool) {
		select {
		case b := <-bytesCh:
			return b, true
		case <-time.After(d):
			return 0, false
		case <-ctx.Done():
			return 0, false
		}
	}

	var pending []byte
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		p := s.mux.ActivePane()
		err := p.HandleInput(pending)
		pending = pending[:0]
		s.dirty.Set()
		return err
	}

	for s.mux.Running() {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			s.log.Error("host read failed", "err", err)
			return err
		default:
		}

		b, ok := next(inputFlushIdle)
		if !ok {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		trie := s.mux.Trie()
		if _, isChord := trie.Root().Child(b); !isChord {
			// Not the start of any bound chord (almost always true for
			// ordinary typing): self-insert without consuming a second
			// byte from next, which Reader.Read would otherwise do.
			pending = append(pending, b)
			continue
		}

		reader := keymap.NewReader(trie, s.mux.EscapeTimeout(), keymap.Binding{Kind: keymap.SelfInsert})
		consumed := false
		binding := reader.Read(func(d time.Duration) (byte, bool) {
			if !consumed {
				consumed = true
				return b, true
			}
			return next(d)
		})

		switch binding.Kind {
		case keymap.SelfInsert:
			pending = append(pending, b)
		case keymap.Command:
			if err := flush(); err != nil {
				return err
			}
			if res := command.Execute(s.mux, binding.Command); res.Stderr != "" {
				s.log.Warn("command failed", "cmd", binding.Command, "stderr", res.Stderr)
			}
			s.dirty.Set()
		case keymap.Discard:
			// silently consumed
		case keymap.Mouse:
			// only the lead sequence was consumed by the trie read; any
			// report bytes after it arrive here as ordinary input
		}
	}
	return nil
}

// redrawLoop waits on the dirty Signal; when woken it applies any pending
// resize, composes a frame from the active window's panes, and writes the
// minimal escape diff to the host.
func (s *Scheduler) redrawLoop(ctx context.Context) error {
	for s.mux.Running() {
		select {
		case <-ctx.Done():
			return nil
		case <-s.resize.C():
			cols, rows, err := s.host.Size()
			if err != nil {
				s.log.Error("size query failed", "err", err)
				continue
			}
			if err := s.mux.HandleResize(cols, rows); err != nil {
				s.log.Error("resize failed", "err", err)
			}
			s.prev = nil
			s.dirty.Set()
			continue
		case <-s.dirty.C():
		}

		frame := s.composeActiveFrame()
		out := compositor.Diff(s.prev, frame)
		if _, err := s.host.Write([]byte(out)); err != nil {
			return err
		}
		s.prev = frame
	}
	return nil
}

func (s *Scheduler) composeActiveFrame() *compositor.Frame {
	cols, rows := s.mux.ContentSize()
	panes := s.mux.LeafPanes()
	activeID := s.mux.ActivePaneID()

	views := make([]compositor.PaneView, 0, len(panes))
	for _, p := range panes {
		x, y, w, h := p.Geometry()
		views = append(views, compositor.PaneView{
			ID:        p.ID(),
			X:         x,
			Y:         y,
			W:         w,
			H:         h,
			Active:    p.ID() == activeID,
			ClockMode: p.ClockMode(),
			Grid:      p.Term().Grid(),
			Cursor:    p.Cursor(),
		})
	}

	return compositor.Compose(cols, rows+1, views, s.mux.Identify(), frameTime())
}

// frameTime exists so Compose's one call to time.Now lives at a single,
// easily-stubbed call site.
var frameTime = time.Now

// timerLoop ticks once a second: each tick marks the frame dirty while
// some pane in the active window is in clock-mode, and clears the identify
// overlay on the first tick more than identifyDuration after the tick that
// first saw it set.
func (s *Scheduler) timerLoop(ctx context.Context) error {
	ticker := time.NewTicker(clockTick)
	defer ticker.Stop()

	var identifyAt time.Time
	identifying := false

	for s.mux.Running() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.mux.AnyClockMode() {
				s.dirty.Set()
			}
			if identifying && time.Now().After(identifyAt) {
				s.mux.SetIdentify(false)
				identifying = false
				s.dirty.Set()
			}
			if s.mux.Identify() && !identifying {
				identifying = true
				identifyAt = time.Now().Add(identifyDuration)
			}
		}
	}
	return nil
}

// signalLoop forwards WINCH to the resize Signal and INT/TSTP to the
// active pane's child process, per §5: signals are first-class events,
// never errors, and are never handled locally beyond that forwarding.
func (s *Scheduler) signalLoop(ctx context.Context) error {
	winch := s.host.Resizes()
	child := s.host.ChildSignals()

	for s.mux.Running() {
		select {
		case <-ctx.Done():
			return nil
		case <-winch:
			s.resize.Set()
		case sig := <-child:
			p := s.mux.ActivePane()
			switch sig {
			case term.SigInt:
				p.Raise(linedisc.SIGINT)
			case term.SigTstp:
				p.Raise(linedisc.SIGTSTP)
			}
		}
	}
	return nil
}
