package vt

import "strconv"

// cprResponse formats a Cursor Position Report (DSR 6) reply.
func cprResponse(row, col int) string {
	return "\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "R"
}

// sizeResponse formats the xterm text-area size reports (CSI 14/18 t replies
// use the same "CSI kind ; a ; b t" shape).
func sizeResponse(kind, a, b int) string {
	return "\x1b[" + strconv.Itoa(kind) + ";" + strconv.Itoa(a) + ";" + strconv.Itoa(b) + "t"
}
