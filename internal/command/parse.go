// Package command implements the command interpreter: tokenizing and
// dispatching the command strings bound to keys (or typed at a command
// prompt) into mutations on a Mux's windows, panes, and keymap.
package command

import (
	"fmt"
	"strings"
)

// Tokenize splits a command string into argv, honoring single- and
// double-quoted arguments the way a shell line would.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	have := false

	var quote rune
	for i := 0; i < len(line); i++ {
		c := rune(line[i])
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '\'' || c == '"':
			quote = c
			have = true
		case c == ' ' || c == '\t':
			if have {
				tokens = append(tokens, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(c)
			have = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("command: unterminated quote")
	}
	if have {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// Flags holds the result of parsing GNU-style short/long options out of
// an argument list: bool switches, valued options, and the leftover
// positional arguments in order.
type Flags struct {
	Bool       map[string]bool
	Value      map[string]string
	Positional []string
}

// ParseFlags scans args for the named bool switches (e.g. "h", "v") and
// valued options (e.g. "l", "p"), accepting both short (-x, -x VALUE) and
// long (--name, --name=value) forms; anything else is positional.
func ParseFlags(args []string, boolFlags, valueFlags []string) (Flags, error) {
	f := Flags{Bool: map[string]bool{}, Value: map[string]string{}}
	isBool := func(name string) bool {
		for _, b := range boolFlags {
			if b == name {
				return true
			}
		}
		return false
	}
	isValue := func(name string) bool {
		for _, v := range valueFlags {
			if v == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case strings.HasPrefix(a, "--"):
			name := strings.TrimPrefix(a, "--")
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				key, val := name[:eq], name[eq+1:]
				if !isValue(key) {
					return f, fmt.Errorf("command: unknown option --%s", key)
				}
				f.Value[key] = val
				continue
			}
			switch {
			case isBool(name):
				f.Bool[name] = true
			case isValue(name):
				if i+1 >= len(args) {
					return f, fmt.Errorf("command: option --%s requires a value", name)
				}
				i++
				f.Value[name] = args[i]
			default:
				return f, fmt.Errorf("command: unknown option --%s", name)
			}

		case strings.HasPrefix(a, "-") && len(a) > 1:
			name := a[1:2]
			rest := a[2:]
			switch {
			case isBool(name):
				f.Bool[name] = true
			case isValue(name):
				if rest != "" {
					f.Value[name] = rest
					continue
				}
				if i+1 >= len(args) {
					return f, fmt.Errorf("command: option -%s requires a value", name)
				}
				i++
				f.Value[name] = args[i]
			default:
				return f, fmt.Errorf("command: unknown option -%s", name)
			}

		default:
			f.Positional = append(f.Positional, a)
		}
	}
	return f, nil
}
