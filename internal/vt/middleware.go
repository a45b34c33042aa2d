package vt

// Middleware intercepts a handful of ScreenTerminal handler calls, wrapping
// the default behavior with a next() continuation. It is installed with
// the WithMiddleware option.
type Middleware struct {
	// Input wraps character insertion.
	Input func(r rune, next func(rune))
	// SetCharAttribute wraps SGR attribute application.
	SetCharAttribute func(attr Attr, next func(Attr))
	// Goto wraps absolute cursor positioning (CUP/HVP).
	Goto func(row, col int, next func(int, int))
}

func (t *ScreenTerminal) input(r rune) {
	if t.middleware != nil && t.middleware.Input != nil {
		t.middleware.Input(r, t.inputLocked)
		return
	}
	t.inputLocked(r)
}

func (t *ScreenTerminal) setCharAttribute(attr Attr) {
	if t.middleware != nil && t.middleware.SetCharAttribute != nil {
		t.middleware.SetCharAttribute(attr, t.setCharAttributeLocked)
		return
	}
	t.setCharAttributeLocked(attr)
}

func (t *ScreenTerminal) gotoPos(row, col int) {
	if t.middleware != nil && t.middleware.Goto != nil {
		t.middleware.Goto(row, col, t.gotoLocked)
		return
	}
	t.gotoLocked(row, col)
}
