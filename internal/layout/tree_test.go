package layout

import "testing"

func size(t *testing.T, tr *Tree, id NodeID) (int, int, int, int) {
	t.Helper()
	sx, sy := tr.Size(id)
	xoff, yoff := tr.Offset(id)
	return sx, sy, xoff, yoff
}

func wantLeaf(t *testing.T, tr *Tree, id NodeID, sx, sy, xoff, yoff int) {
	t.Helper()
	gsx, gsy, gxoff, gyoff := size(t, tr, id)
	if gsx != sx || gsy != sy || gxoff != xoff || gyoff != yoff {
		t.Fatalf("leaf %d = (%d,%d,%d,%d), want (%d,%d,%d,%d)", id, gsx, gsy, gxoff, gyoff, sx, sy, xoff, yoff)
	}
}

// vertical split: initial single pane covering (0,0,80,23), prefix-split
// `"` produces two stacked panes with a separator row at y=11.
func TestSplitVertical(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()

	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	wantLeaf(t, tr, p1, 80, 11, 0, 0)
	wantLeaf(t, tr, p2, 80, 11, 0, 12)

	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// horizontal split with an explicit size: splitting P2 with -l 20 gives
// the new pane exactly 20 columns and the target the remainder.
func TestSplitHorizontalExplicitSize(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split 1: %v", err)
	}

	p3, err := tr.Split(p2, LeftRight, 20, false, 3)
	if err != nil {
		t.Fatalf("split 2: %v", err)
	}

	wantLeaf(t, tr, p1, 80, 11, 0, 0)
	wantLeaf(t, tr, p2, 59, 11, 0, 12)
	wantLeaf(t, tr, p3, 20, 11, 60, 12)

	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// split rejects a leaf too small to hold two PaneMinimum-sized children
// plus a separator.
func TestSplitTooSmall(t *testing.T) {
	tr := New(2*PaneMinimum, 2*PaneMinimum+2, 1)
	p1 := tr.Root()
	if _, err := tr.Split(p1, LeftRight, -1, false, 2); err != ErrPaneTooSmall {
		t.Fatalf("Split: got %v, want ErrPaneTooSmall", err)
	}
}

// resize into minimum: shrinking P1 by more than it can give stops at
// the floor instead of erroring.
func TestResizeClampsAtMinimum(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	if err := tr.Resize(p2, Up, 20); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	wantLeaf(t, tr, p1, 80, 4, 0, 0)
	wantLeaf(t, tr, p2, 80, 18, 0, 5)

	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// close bubble-up: removing P2 from the three-pane S2 layout hands its
// space to P3 and flattens the now-single-child LeftRight node away.
func TestRemoveFlattensSingleChildNode(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split 1: %v", err)
	}
	p3, err := tr.Split(p2, LeftRight, 20, false, 3)
	if err != nil {
		t.Fatalf("split 2: %v", err)
	}

	if err := tr.Remove(p2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	wantLeaf(t, tr, p1, 80, 11, 0, 0)
	wantLeaf(t, tr, p3, 80, 11, 0, 12)

	if tr.Kind(tr.Root()) != TopBottom {
		t.Fatalf("root kind = %v, want TopBottom", tr.Kind(tr.Root()))
	}
	if got := tr.Children(tr.Root()); len(got) != 2 {
		t.Fatalf("root children = %v, want 2", got)
	}

	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// Removing the last remaining pane is rejected: a window always keeps at
// least one leaf.
func TestRemoveLastPane(t *testing.T) {
	tr := New(80, 23, 1)
	if err := tr.Remove(tr.Root()); err != ErrLastPane {
		t.Fatalf("Remove: got %v, want ErrLastPane", err)
	}
}

// ResizeWindow propagates a host terminal resize down to the root and
// its descendants while preserving the structural invariants.
func TestResizeWindowPreservesInvariants(t *testing.T) {
	tr := New(80, 23, 1)
	p1 := tr.Root()
	p2, err := tr.Split(p1, TopBottom, -1, false, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	_, err = tr.Split(p2, LeftRight, 20, false, 3)
	if err != nil {
		t.Fatalf("split 2: %v", err)
	}

	tr.ResizeWindow(100, 30)

	sx, sy := tr.Size(tr.Root())
	if sx != 100 || sy != 30 {
		t.Fatalf("root size = (%d,%d), want (100,30)", sx, sy)
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
