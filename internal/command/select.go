package command

import "github.com/halftone-labs/vtmux/internal/layout"

// overlaps reports whether two half-open spans [a0,a1) and [b0,b1) share
// any row/column.
func overlaps(a0, a1, b0, b1 int) bool {
	lo := a0
	if b0 > lo {
		lo = b0
	}
	hi := a1
	if b1 < hi {
		hi = b1
	}
	return lo < hi
}

// wrapDistance is the forward distance from a to b along an axis of the
// given total length, wrapping through the boundary: a pane past the far
// edge is "closer" than one that would require a negative step, so the
// far-right pane is the nearest neighbor to the left of the leftmost one.
func wrapDistance(a, b, total int) int {
	d := b - a
	if d <= 0 {
		d += total
	}
	return d
}

// ChooseTarget implements the select-pane direction rule: among panes
// whose span overlaps active's along the perpendicular axis and whose
// position differs along the primary axis, it picks the one minimizing
// wrap-around distance on the primary axis, breaking ties by the highest
// (most-recently-active) Generation. It reports ok=false when no other
// pane qualifies, meaning the selection should not change.
func ChooseTarget(panes []PaneGeometry, activeID int, dir layout.Direction) (targetID int, ok bool) {
	var active PaneGeometry
	found := false
	cols, rows := 0, 0
	for _, p := range panes {
		if p.ID == activeID {
			active = p
			found = true
		}
		if p.X+p.W > cols {
			cols = p.X + p.W
		}
		if p.Y+p.H > rows {
			rows = p.Y + p.H
		}
	}
	if !found {
		return 0, false
	}

	bestDist := -1
	bestGen := -1
	best := 0

	for _, p := range panes {
		if p.ID == activeID {
			continue
		}

		var dist int
		switch dir {
		case layout.Left:
			if p.X == active.X || !overlaps(p.Y, p.Y+p.H, active.Y, active.Y+active.H) {
				continue
			}
			dist = wrapDistance(p.X, active.X, cols)
		case layout.Right:
			if p.X == active.X || !overlaps(p.Y, p.Y+p.H, active.Y, active.Y+active.H) {
				continue
			}
			dist = wrapDistance(active.X, p.X, cols)
		case layout.Up:
			if p.Y == active.Y || !overlaps(p.X, p.X+p.W, active.X, active.X+active.W) {
				continue
			}
			dist = wrapDistance(p.Y, active.Y, rows)
		case layout.Down:
			if p.Y == active.Y || !overlaps(p.X, p.X+p.W, active.X, active.X+active.W) {
				continue
			}
			dist = wrapDistance(active.Y, p.Y, rows)
		}

		if bestDist < 0 || dist < bestDist || (dist == bestDist && p.Generation > bestGen) {
			bestDist = dist
			bestGen = p.Generation
			best = p.ID
		}
	}

	return best, bestDist >= 0
}
