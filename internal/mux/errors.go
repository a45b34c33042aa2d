package mux

import "fmt"

// UserError is a command-level failure meant for a command's stderr
// stream — a bad pane id, an unknown window, a malformed option — never a
// wrapped lower-level error. command.Run already turns any error into one
// line of Stderr text via Error(), so UserError exists to keep that text
// uniform ("COMMAND: MESSAGE") rather than to change how it's surfaced.
type UserError struct {
	Command string
	Message string
}

func (e *UserError) Error() string { return e.Command + ": " + e.Message }

func userErrorf(command, format string, args ...any) error {
	return &UserError{Command: command, Message: fmt.Sprintf(format, args...)}
}

// DefaultOptions returns the literal table of server options a fresh Mux
// starts with, per the "embedded defaults table" non-goal: no config file
// parser, just this map copied into a new Mux's options field.
func DefaultOptions(prefix []byte) map[string]string {
	return map[string]string{
		"prefix":         string(prefix),
		"escape-timeout": "100ms",
		"mouse":          "off",
	}
}
