package command

import "fmt"

// named maps the key names accepted by bind-key/unbind-key/send-keys to
// the byte sequence they produce, mirroring the vocabulary bound by
// keymap.Defaults.
var named = map[string][]byte{
	"Enter":     {'\r'},
	"Tab":       {'\t'},
	"Escape":    {0x1b},
	"Space":     {' '},
	"BSpace":    {0x7f},
	"Up":        {0x1b, '[', 'A'},
	"Down":      {0x1b, '[', 'B'},
	"Right":     {0x1b, '[', 'C'},
	"Left":      {0x1b, '[', 'D'},
	"C-Up":      {0x1b, '[', '1', ';', '5', 'A'},
	"C-Down":    {0x1b, '[', '1', ';', '5', 'B'},
	"C-Right":   {0x1b, '[', '1', ';', '5', 'C'},
	"C-Left":    {0x1b, '[', '1', ';', '5', 'D'},
}

// TranslateKey turns one key name (or literal rune) into its byte
// sequence: a named key from the table above, "C-<letter>" or
// "^<letter>" for a control character, "M-<key>" for an escape-prefixed
// meta key, or a literal single character passed through as its own UTF-8
// bytes.
func TranslateKey(name string) ([]byte, error) {
	if b, ok := named[name]; ok {
		return append([]byte(nil), b...), nil
	}
	if len(name) == 2 && name[0] == '^' && name[1]|0x20 >= 'a' && name[1]|0x20 <= 'z' {
		return TranslateKey("C-" + name[1:])
	}
	if len(name) > 2 && name[0] == 'M' && name[1] == '-' {
		rest, err := TranslateKey(name[2:])
		if err != nil {
			return nil, err
		}
		return append([]byte{0x1b}, rest...), nil
	}
	if len(name) == 3 && name[0] == 'C' && name[1] == '-' {
		c := name[2]
		switch {
		case c >= 'a' && c <= 'z':
			return []byte{c - 'a' + 1}, nil
		case c >= 'A' && c <= 'Z':
			return []byte{c - 'A' + 1}, nil
		}
		return nil, fmt.Errorf("command: bad control key %q", name)
	}
	if len(name) == 0 {
		return nil, fmt.Errorf("command: empty key name")
	}
	return []byte(name), nil
}
