package command

import (
	"reflect"
	"testing"
)

func TestTokenizeQuotedArguments(t *testing.T) {
	got, err := Tokenize(`split-window -h -l 20 "a window name"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []string{"split-window", "-h", "-l", "20", "a window name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestTokenizeUnterminatedQuoteErrors(t *testing.T) {
	if _, err := Tokenize(`new-window "unterminated`); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}

func TestParseFlagsShortBoolAndValue(t *testing.T) {
	f, err := ParseFlags([]string{"-h", "-l", "20", "-b"}, []string{"h", "b"}, []string{"l"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if !f.Bool["h"] || !f.Bool["b"] {
		t.Fatalf("bool flags = %v, want h and b set", f.Bool)
	}
	if f.Value["l"] != "20" {
		t.Fatalf("value[l] = %q, want 20", f.Value["l"])
	}
}

func TestParseFlagsLongWithEquals(t *testing.T) {
	f, err := ParseFlags([]string{"--percent=50"}, nil, []string{"percent"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if f.Value["percent"] != "50" {
		t.Fatalf("value[percent] = %q, want 50", f.Value["percent"])
	}
}

func TestParseFlagsPositionalAfterOptions(t *testing.T) {
	f, err := ParseFlags([]string{"-U", "5"}, []string{"U"}, nil)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if !f.Bool["U"] {
		t.Fatalf("bool[U] not set")
	}
	if len(f.Positional) != 1 || f.Positional[0] != "5" {
		t.Fatalf("positional = %v, want [5]", f.Positional)
	}
}

func TestParseFlagsUnknownOptionErrors(t *testing.T) {
	if _, err := ParseFlags([]string{"-z"}, []string{"h"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
