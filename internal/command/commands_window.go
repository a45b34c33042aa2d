package command

import "strings"

func cmdNewWindow(ctx Context, args []string) (string, error) {
	return "", ctx.NewWindow()
}

func cmdNextWindow(ctx Context, args []string) (string, error) {
	return "", ctx.NextWindow()
}

func cmdPreviousWindow(ctx Context, args []string) (string, error) {
	return "", ctx.PreviousWindow()
}

func cmdListWindows(ctx Context, args []string) (string, error) {
	return strings.Join(ctx.ListWindows(), "\n"), nil
}
