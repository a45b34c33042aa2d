package linedisc

import "testing"

type fakeRaiser struct {
	signals []Signal
}

func (f *fakeRaiser) Raise(sig Signal) { f.signals = append(f.signals, sig) }

func feed(t *testing.T, d *Discipline, s string) []byte {
	t.Helper()
	var out []byte
	for i := 0; i < len(s); i++ {
		if line := d.Input(s[i]); line != nil {
			out = append(out, line...)
		}
	}
	return out
}

func TestCookedModeBuffersUntilNewline(t *testing.T) {
	d := New(nil)

	if got := feed(t, d, "ab"); got != nil {
		t.Fatalf("partial line released early: %q", got)
	}
	got := feed(t, d, "c\n")
	if string(got) != "abc\n" {
		t.Fatalf("released line = %q, want %q", got, "abc\n")
	}
}

func TestEchoeErasesLastByte(t *testing.T) {
	d := New(nil)
	feed(t, d, "ab")
	d.Input(DefaultControlChars.Erase)
	got := feed(t, d, "c\n")
	if string(got) != "ac\n" {
		t.Fatalf("released line = %q, want %q", got, "ac\n")
	}
}

func TestISIGRaisesAndConsumesByte(t *testing.T) {
	r := &fakeRaiser{}
	d := New(r)

	out := d.Input(DefaultControlChars.Intr)
	if out != nil {
		t.Fatalf("Input(INTR) = %v, want nil (consumed)", out)
	}
	if len(r.signals) != 1 || r.signals[0] != SIGINT {
		t.Fatalf("signals = %v, want [SIGINT]", r.signals)
	}
}

func TestRawModeReleasesImmediately(t *testing.T) {
	d := New(nil)
	d.SetFlags(0)

	out := d.Input('x')
	if string(out) != "x" {
		t.Fatalf("raw Input = %q, want %q", out, "x")
	}
}

func TestICRNLTranslatesCRToNL(t *testing.T) {
	d := New(nil)
	got := feed(t, d, "ab\r")
	if string(got) != "ab\n" {
		t.Fatalf("released line = %q, want %q", got, "ab\n")
	}
}

func TestEchoProducesONLCROutput(t *testing.T) {
	d := New(nil)
	feed(t, d, "ab\n")
	echoed := d.Output()
	if string(echoed) != "ab\r\n" {
		t.Fatalf("echoed = %q, want %q", echoed, "ab\r\n")
	}
}

func TestIXONPausesAndResumesInput(t *testing.T) {
	d := New(nil)
	d.Input(DefaultControlChars.Stop)
	if got := feed(t, d, "ab"); got != nil {
		t.Fatalf("input accepted while stopped: %q", got)
	}
	d.Input(DefaultControlChars.Start)
	got := feed(t, d, "c\n")
	if string(got) != "c\n" {
		t.Fatalf("released line after resume = %q, want %q", got, "c\n")
	}
}
