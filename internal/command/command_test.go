package command

import (
	"testing"

	"github.com/halftone-labs/vtmux/internal/layout"
)

type fakeContext struct {
	active int
	panes  []PaneGeometry

	splitKind     layout.Kind
	splitBefore   bool
	splitActive   bool
	splitWhole    bool
	splitSize     SplitSize
	splitCalled   bool
	selected      int
	resizeDir     *layout.Direction
	resizeAdjust  int
	clockOn       bool
	optionName    string
	optionValue   string
	boundKey      []byte
	boundCmd      string
	sentPrefix    bool
	sentLiteral   bool
	sentKeys      []string
	newWindowHit  bool
	nextWindowHit bool
}

func (f *fakeContext) ActivePaneID() int       { return f.active }
func (f *fakeContext) Panes() []PaneGeometry   { return f.panes }
func (f *fakeContext) Prefix() []byte          { return []byte("`") }
func (f *fakeContext) SplitActive(kind layout.Kind, before, makeActive, wholeWindow bool, size SplitSize) error {
	f.splitCalled = true
	f.splitKind, f.splitBefore, f.splitActive, f.splitWhole, f.splitSize = kind, before, makeActive, wholeWindow, size
	return nil
}
func (f *fakeContext) SetActivePane(id int) error { f.selected = id; return nil }
func (f *fakeContext) ResizePane(dir *layout.Direction, exactW, exactH *int, adjust int) error {
	f.resizeDir, f.resizeAdjust = dir, adjust
	return nil
}
func (f *fakeContext) SetClockMode(on bool) error { f.clockOn = on; return nil }
func (f *fakeContext) DisplayPanes() error         { return nil }
func (f *fakeContext) SetOption(name, value string) error {
	f.optionName, f.optionValue = name, value
	return nil
}
func (f *fakeContext) BindKey(key []byte, cmd string) error {
	f.boundKey, f.boundCmd = key, cmd
	return nil
}
func (f *fakeContext) UnbindKey(key []byte) error { return nil }
func (f *fakeContext) ListKeys() []string         { return []string{"bind-key -T prefix \" split-window -v"} }
func (f *fakeContext) SendPrefix() error           { f.sentPrefix = true; return nil }
func (f *fakeContext) SendKeys(literal bool, repeat int, keys []string) error {
	f.sentLiteral, f.sentKeys = literal, keys
	return nil
}
func (f *fakeContext) NewWindow() error        { f.newWindowHit = true; return nil }
func (f *fakeContext) NextWindow() error       { f.nextWindowHit = true; return nil }
func (f *fakeContext) PreviousWindow() error   { return nil }
func (f *fakeContext) ListWindows() []string   { return []string{"0: main"} }

func TestExecuteSplitWindowParsesFlags(t *testing.T) {
	ctx := &fakeContext{}
	res := Execute(ctx, `split-window -h -l 20`)
	if res.Stderr != "" {
		t.Fatalf("unexpected error: %s", res.Stderr)
	}
	if !ctx.splitCalled || ctx.splitKind != layout.LeftRight {
		t.Fatalf("split not dispatched as LeftRight: %+v", ctx)
	}
	if ctx.splitSize.Exact == nil || *ctx.splitSize.Exact != 20 {
		t.Fatalf("splitSize.Exact = %v, want 20", ctx.splitSize.Exact)
	}
	if !ctx.splitActive {
		t.Fatalf("expected new pane to become active without -d")
	}
}

func TestExecuteSplitWindowDetached(t *testing.T) {
	ctx := &fakeContext{}
	Execute(ctx, "split-window -v -d")
	if ctx.splitActive {
		t.Fatalf("-d should leave the new pane inactive")
	}
}

func TestExecuteUnknownCommandReportsStderr(t *testing.T) {
	res := Execute(&fakeContext{}, "bogus-command")
	if res.Stderr == "" {
		t.Fatalf("expected stderr for unknown command")
	}
}

func TestExecuteSelectPaneUsesChooseTarget(t *testing.T) {
	ctx := &fakeContext{active: 2, panes: s2Panes()}
	res := Execute(ctx, "select-pane -R")
	if res.Stderr != "" {
		t.Fatalf("unexpected error: %s", res.Stderr)
	}
	if ctx.selected != 3 {
		t.Fatalf("selected = %d, want 3", ctx.selected)
	}
}

func TestExecuteBindKeyTranslatesNamedKey(t *testing.T) {
	ctx := &fakeContext{}
	res := Execute(ctx, `bind-key Up select-pane -U`)
	if res.Stderr != "" {
		t.Fatalf("unexpected error: %s", res.Stderr)
	}
	if string(ctx.boundKey) != "\x1b[A" {
		t.Fatalf("boundKey = %q, want ESC [ A", ctx.boundKey)
	}
	if ctx.boundCmd != "select-pane -U" {
		t.Fatalf("boundCmd = %q", ctx.boundCmd)
	}
}

func TestExecuteListKeysReturnsStdout(t *testing.T) {
	res := Execute(&fakeContext{}, "list-keys")
	if res.Stdout == "" {
		t.Fatalf("expected list-keys output on Stdout")
	}
}

func TestExecuteSendKeysLiteral(t *testing.T) {
	ctx := &fakeContext{}
	Execute(ctx, `send-keys -l "hello"`)
	if !ctx.sentLiteral {
		t.Fatalf("expected literal flag set")
	}
	if len(ctx.sentKeys) != 1 || ctx.sentKeys[0] != "hello" {
		t.Fatalf("sentKeys = %v", ctx.sentKeys)
	}
}
