package compositor

// side is one of the four line segments a border glyph may carry; a cell's
// final glyph is the union of every segment written to it.
type side int

const (
	sideUp side = 1 << iota
	sideDown
	sideLeft
	sideRight
)

// junction maps every combination of line segments present at a cell to
// the box-drawing rune that depicts their union. Plain vertical and
// horizontal runs, the four corners, the three-way tees, and the full
// cross are all represented; an empty mask falls back to a space.
var junction = map[side]rune{
	0:                                     ' ',
	sideUp | sideDown:                     '│',
	sideLeft | sideRight:                  '─',
	sideDown | sideRight:                  '┌',
	sideDown | sideLeft:                   '┐',
	sideUp | sideRight:                    '└',
	sideUp | sideLeft:                     '┘',
	sideUp | sideDown | sideRight:         '├',
	sideUp | sideDown | sideLeft:          '┤',
	sideDown | sideLeft | sideRight:       '┬',
	sideUp | sideLeft | sideRight:         '┴',
	sideUp | sideDown | sideLeft | sideRight: '┼',
	sideUp:                                '╵',
	sideDown:                              '╷',
	sideLeft:                              '╴',
	sideRight:                             '╶',
}

// runeSides inverts junction, so an existing border rune already drawn at
// a position can be combined with a newly written segment.
var runeSides = func() map[rune]side {
	m := make(map[rune]side, len(junction))
	for mask, r := range junction {
		m[r] = mask
	}
	return m
}()

// mergeBorder returns the rune depicting the union of whatever border
// segments existing already carries plus the new segment add. A rune not
// recognized as a border (ordinary pane content) is replaced outright,
// since panes never draw into their outer frame.
func mergeBorder(existing rune, add side) rune {
	mask, ok := runeSides[existing]
	if !ok {
		mask = 0
	}
	return junction[mask|add]
}
