package command

import (
	"fmt"
	"strconv"
	"strings"
)

func cmdSetOption(ctx Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("set-option: usage: set-option NAME [VALUE]")
	}
	value := ""
	if len(args) > 1 {
		value = args[1]
	}
	if args[0] == "prefix" {
		key, err := TranslateKey(value)
		if err != nil {
			return "", err
		}
		value = string(key)
	}
	return "", ctx.SetOption(args[0], value)
}

func cmdBindKey(ctx Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("bind-key: usage: bind-key KEY CMD...")
	}
	key, err := TranslateKey(args[0])
	if err != nil {
		return "", err
	}
	return "", ctx.BindKey(key, joinArgs(args[1:]))
}

func cmdUnbindKey(ctx Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("unbind-key: usage: unbind-key KEY")
	}
	key, err := TranslateKey(args[0])
	if err != nil {
		return "", err
	}
	return "", ctx.UnbindKey(key)
}

func cmdListKeys(ctx Context, args []string) (string, error) {
	return strings.Join(ctx.ListKeys(), "\n"), nil
}

func cmdSendPrefix(ctx Context, args []string) (string, error) {
	return "", ctx.SendPrefix()
}

func cmdSendKeys(ctx Context, args []string) (string, error) {
	flags, err := ParseFlags(args, []string{"l"}, []string{"N"})
	if err != nil {
		return "", err
	}
	repeat := 1
	if v, ok := flags.Value["N"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("send-keys: bad -N value %q", v)
		}
		repeat = n
	}
	return "", ctx.SendKeys(flags.Bool["l"], repeat, flags.Positional)
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}
