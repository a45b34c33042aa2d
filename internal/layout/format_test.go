package layout

import "testing"

// layout dump/parse: dumping the three-pane S2 layout produces the
// checksum-prefixed payload, and parsing it back yields an equal tree.
func TestDumpMatchesLiteralPayload(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split 1: %v", err)
	}
	if _, err := tr.Split(p2, LeftRight, 20, false, 3); err != nil {
		t.Fatalf("split 2: %v", err)
	}

	dump := Dump(tr)
	wantPayload := "80x23,0,0[80x11,0,0,0,80x11,0,12{59x11,0,12,0,20x11,60,12,0}]"
	if dump[5:] != wantPayload {
		t.Fatalf("payload = %q, want %q", dump[5:], wantPayload)
	}
	if len(dump) < 5 || dump[4] != ',' {
		t.Fatalf("dump %q missing checksum separator", dump)
	}
}

func TestParseDumpRoundTrip(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split 1: %v", err)
	}
	if _, err := tr.Split(p2, LeftRight, 20, false, 3); err != nil {
		t.Fatalf("split 2: %v", err)
	}

	dump := Dump(tr)
	parsed, err := Parse(dump)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if Dump(parsed) != dump {
		t.Fatalf("re-dump after parse = %q, want %q", Dump(parsed), dump)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseRejectsBadChecksum(t *testing.T) {
	tr := New(80, 23, 1)
	dump := Dump(tr)
	corrupted := "0000," + dump[5:]
	if corrupted == dump {
		t.Fatal("corrupted dump accidentally matches original")
	}
	if _, err := Parse(corrupted); err != ErrBadChecksum {
		t.Fatalf("Parse: got %v, want ErrBadChecksum", err)
	}
}

func TestParseRejectsUnmatchedBracket(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	if _, err := tr.Split(p1, TopBottom, -1, false, 2); err != nil {
		t.Fatalf("split: %v", err)
	}
	dump := Dump(tr)
	truncated := dump[:len(dump)-1]

	// Re-checksum the truncated payload so the failure is specifically the
	// missing bracket, not an incidental checksum mismatch.
	bad := dumpFor(truncated[5:])
	if _, err := Parse(bad); err != ErrUnmatchedBracket {
		t.Fatalf("Parse: got %v, want ErrUnmatchedBracket", err)
	}
}

func dumpFor(payload string) string {
	return hex4(checksum(payload)) + "," + payload
}

func hex4(v uint16) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[(v>>12)&0xf],
		digits[(v>>8)&0xf],
		digits[(v>>4)&0xf],
		digits[v&0xf],
	})
}

func TestParseRejectsBadSyntax(t *testing.T) {
	bad := dumpFor("not-a-layout")
	if _, err := Parse(bad); err == nil {
		t.Fatal("Parse: expected error for malformed payload")
	}
}
