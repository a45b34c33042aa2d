package command

import (
	"fmt"
	"strconv"

	"github.com/halftone-labs/vtmux/internal/layout"
)

func cmdSplitWindow(ctx Context, args []string) (string, error) {
	flags, err := ParseFlags(args, []string{"h", "v", "b", "d", "f"}, []string{"l", "p"})
	if err != nil {
		return "", err
	}

	kind := layout.TopBottom
	if flags.Bool["h"] {
		kind = layout.LeftRight
	}

	var size SplitSize
	if v, ok := flags.Value["l"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("split-window: bad -l value %q", v)
		}
		size.Exact = &n
	}
	if v, ok := flags.Value["p"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("split-window: bad -p value %q", v)
		}
		size.Percent = &n
	}

	return "", ctx.SplitActive(kind, flags.Bool["b"], !flags.Bool["d"], flags.Bool["f"], size)
}

func cmdSelectPane(ctx Context, args []string) (string, error) {
	flags, err := ParseFlags(args, []string{"U", "D", "L", "R"}, nil)
	if err != nil {
		return "", err
	}

	var dir layout.Direction
	switch {
	case flags.Bool["U"]:
		dir = layout.Up
	case flags.Bool["D"]:
		dir = layout.Down
	case flags.Bool["L"]:
		dir = layout.Left
	case flags.Bool["R"]:
		dir = layout.Right
	default:
		return "", fmt.Errorf("select-pane: one of -U/-D/-L/-R is required")
	}

	target, ok := ChooseTarget(ctx.Panes(), ctx.ActivePaneID(), dir)
	if !ok {
		return "", nil
	}
	return "", ctx.SetActivePane(target)
}

func cmdResizePane(ctx Context, args []string) (string, error) {
	flags, err := ParseFlags(args, []string{"U", "D", "L", "R"}, []string{"x", "y"})
	if err != nil {
		return "", err
	}

	var dir *layout.Direction
	switch {
	case flags.Bool["U"]:
		d := layout.Up
		dir = &d
	case flags.Bool["D"]:
		d := layout.Down
		dir = &d
	case flags.Bool["L"]:
		d := layout.Left
		dir = &d
	case flags.Bool["R"]:
		d := layout.Right
		dir = &d
	}

	var exactW, exactH *int
	if v, ok := flags.Value["x"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("resize-pane: bad -x value %q", v)
		}
		exactW = &n
	}
	if v, ok := flags.Value["y"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("resize-pane: bad -y value %q", v)
		}
		exactH = &n
	}

	adjust := 1
	if len(flags.Positional) > 0 {
		n, err := strconv.Atoi(flags.Positional[0])
		if err != nil {
			return "", fmt.Errorf("resize-pane: bad adjustment %q", flags.Positional[0])
		}
		adjust = n
	}

	return "", ctx.ResizePane(dir, exactW, exactH, adjust)
}

func cmdDisplayPanes(ctx Context, args []string) (string, error) {
	return "", ctx.DisplayPanes()
}

func cmdClockMode(ctx Context, args []string) (string, error) {
	return "", ctx.SetClockMode(true)
}
