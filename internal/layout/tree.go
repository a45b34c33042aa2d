// Package layout implements the recursive row/column/leaf tree that
// describes how a window's panes divide its content area, plus the
// textual dump/parse format used to serialize it.
package layout

import (
	"errors"
	"fmt"
)

// Kind distinguishes a layout node's arrangement.
type Kind int

const (
	LeftRight Kind = iota
	TopBottom
	Leaf
)

func (k Kind) String() string {
	switch k {
	case LeftRight:
		return "LeftRight"
	case TopBottom:
		return "TopBottom"
	default:
		return "Leaf"
	}
}

// NodeID indexes into a Tree's arena. NoNode is the null value.
type NodeID int

const NoNode NodeID = -1

// PaneMinimum is the smallest width a leaf may have; height carries one
// extra row reserved for the pane's status line.
const PaneMinimum = 3

// minDim is the floor for a node's dimension along kind: PaneMinimum for
// columns, PaneMinimum+1 for rows (the extra row is the status line).
func minDim(kind Kind) int {
	if kind == TopBottom {
		return PaneMinimum + 1
	}
	return PaneMinimum
}

var (
	ErrPaneTooSmall = errors.New("layout: pane too small")
	ErrNotLeaf      = errors.New("layout: target is not a leaf")
	ErrLastPane     = errors.New("layout: cannot remove the only pane")
	ErrNoAncestor   = errors.New("layout: no ancestor of the requested orientation")
)

type node struct {
	kind       Kind
	sx, sy     int
	xoff, yoff int
	parent     NodeID
	children   []NodeID
	paneID     int
}

// Tree is an arena-indexed layout tree: nodes reference parent and
// children by NodeID rather than pointer, so removal and flattening never
// need to reason about shared ownership or cycles.
type Tree struct {
	nodes []*node
	free  []NodeID
	root  NodeID
}

// New builds a single-leaf tree occupying (cols, rows) at the origin.
func New(cols, rows, paneID int) *Tree {
	t := &Tree{}
	id := t.alloc(&node{kind: Leaf, sx: cols, sy: rows, parent: NoNode, paneID: paneID})
	t.root = id
	return t
}

func (t *Tree) alloc(n *node) NodeID {
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) release(id NodeID) {
	t.nodes[id] = nil
	t.free = append(t.free, id)
}

// Root returns the tree's root node.
func (t *Tree) Root() NodeID { return t.root }

// Kind reports a node's arrangement.
func (t *Tree) Kind(id NodeID) Kind { return t.nodes[id].kind }

// Size returns a node's (sx, sy).
func (t *Tree) Size(id NodeID) (sx, sy int) {
	n := t.nodes[id]
	return n.sx, n.sy
}

// Offset returns a node's (xoff, yoff).
func (t *Tree) Offset(id NodeID) (xoff, yoff int) {
	n := t.nodes[id]
	return n.xoff, n.yoff
}

// Parent returns a node's parent, or NoNode at the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns a non-leaf node's children, in order.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.nodes[id].children...)
}

// PaneID returns a leaf's pane id.
func (t *Tree) PaneID(id NodeID) int { return t.nodes[id].paneID }

func indexOf(children []NodeID, id NodeID) int {
	for i, c := range children {
		if c == id {
			return i
		}
	}
	return -1
}

func insertAt(children []NodeID, i int, id NodeID) []NodeID {
	children = append(children, NoNode)
	copy(children[i+1:], children[i:])
	children[i] = id
	return children
}

func removeAt(children []NodeID, i int) []NodeID {
	return append(children[:i], children[i+1:]...)
}

func (t *Tree) replaceChild(parent, oldID, newID NodeID) {
	n := t.nodes[parent]
	for i, c := range n.children {
		if c == oldID {
			n.children[i] = newID
			return
		}
	}
}

// Split divides leaf along kind, producing a new sibling leaf holding
// newPaneID. size is the new leaf's dimension along the split axis; a
// negative size halves the available space. insertBefore places the new
// leaf ahead of the target in child order (so it sits above/left of it)
// rather than behind.
func (t *Tree) Split(leaf NodeID, kind Kind, size int, insertBefore bool, newPaneID int) (NodeID, error) {
	n := t.nodes[leaf]
	if n.kind != Leaf {
		return NoNode, ErrNotLeaf
	}

	total := n.sx
	if kind == TopBottom {
		total = n.sy
	}
	floor := minDim(kind)
	if total < 2*floor+1 {
		return NoNode, ErrPaneTooSmall
	}

	parent := n.parent
	var host NodeID
	if parent == NoNode || t.nodes[parent].kind != kind {
		mid := t.alloc(&node{kind: kind, sx: n.sx, sy: n.sy, xoff: n.xoff, yoff: n.yoff, parent: parent, children: []NodeID{leaf}})
		n.parent = mid
		if parent == NoNode {
			t.root = mid
		} else {
			t.replaceChild(parent, leaf, mid)
		}
		host = mid
	} else {
		host = parent
	}

	newSize := size
	if newSize < 0 {
		newSize = total / 2
	}
	targetSize := total - newSize - 1
	if newSize < floor {
		newSize = floor
	}
	if targetSize < floor {
		targetSize = floor
	}

	newLeaf := t.alloc(&node{kind: Leaf, paneID: newPaneID, parent: host})
	newNode := t.nodes[newLeaf]
	if kind == LeftRight {
		n.sx = targetSize
		newNode.sx = newSize
		newNode.sy = n.sy
	} else {
		n.sy = targetSize
		newNode.sy = newSize
		newNode.sx = n.sx
	}

	hostNode := t.nodes[host]
	idx := indexOf(hostNode.children, leaf)
	if insertBefore {
		hostNode.children = insertAt(hostNode.children, idx, newLeaf)
	} else {
		hostNode.children = insertAt(hostNode.children, idx+1, newLeaf)
	}

	t.FixOffsets()
	return newLeaf, nil
}

// Remove deletes leaf, giving its space (plus the separator it bordered)
// to an adjacent sibling. A parent left with a single child is flattened
// into its own parent.
func (t *Tree) Remove(leaf NodeID) error {
	n := t.nodes[leaf]
	if n.kind != Leaf {
		return ErrNotLeaf
	}
	parent := n.parent
	if parent == NoNode {
		return ErrLastPane
	}

	hostNode := t.nodes[parent]
	idx := indexOf(hostNode.children, leaf)

	var adj NodeID
	if idx+1 < len(hostNode.children) {
		adj = hostNode.children[idx+1]
	} else {
		adj = hostNode.children[idx-1]
	}
	adjNode := t.nodes[adj]

	dim := n.sx
	if hostNode.kind == TopBottom {
		dim = n.sy
	}
	transfer := dim + 1
	if hostNode.kind == LeftRight {
		adjNode.sx += transfer
	} else {
		adjNode.sy += transfer
	}

	hostNode.children = removeAt(hostNode.children, idx)
	t.release(leaf)

	if len(hostNode.children) == 1 {
		only := hostNode.children[0]
		onlyNode := t.nodes[only]
		grandparent := hostNode.parent
		onlyNode.parent = grandparent
		if grandparent == NoNode {
			t.root = only
		} else {
			t.replaceChild(grandparent, parent, only)
		}
		t.release(parent)
	}

	t.FixOffsets()
	return nil
}

// FixOffsets recomputes every node's (xoff, yoff) top-down from the root.
func (t *Tree) FixOffsets() {
	if t.root == NoNode {
		return
	}
	root := t.nodes[t.root]
	root.xoff, root.yoff = 0, 0
	t.fixChildren(t.root)
}

func (t *Tree) fixChildren(id NodeID) {
	n := t.nodes[id]
	if n.kind == Leaf {
		return
	}
	if n.kind == LeftRight {
		x := n.xoff
		for _, c := range n.children {
			cn := t.nodes[c]
			cn.xoff, cn.yoff = x, n.yoff
			x += cn.sx + 1
		}
	} else {
		y := n.yoff
		for _, c := range n.children {
			cn := t.nodes[c]
			cn.xoff, cn.yoff = n.xoff, y
			y += cn.sy + 1
		}
	}
	for _, c := range n.children {
		t.fixChildren(c)
	}
}

// Direction is the screen-relative side a resize-pane command names.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func axisOf(dir Direction) Kind {
	if dir == Up || dir == Down {
		return TopBottom
	}
	return LeftRight
}

func (t *Tree) dim(n *node, kind Kind) int {
	if kind == LeftRight {
		return n.sx
	}
	return n.sy
}

func (t *Tree) setDim(n *node, kind Kind, v int) {
	if kind == LeftRight {
		n.sx = v
	} else {
		n.sy = v
	}
}

func (t *Tree) findAncestor(id NodeID, kind Kind) (ancestor, branch NodeID, err error) {
	child := id
	parent := t.nodes[id].parent
	for parent != NoNode {
		if t.nodes[parent].kind == kind {
			return parent, child, nil
		}
		child = parent
		parent = t.nodes[parent].parent
	}
	return NoNode, NoNode, ErrNoAncestor
}

// resizeCore grows or shrinks leaf's enclosing branch by delta along kind,
// one step at a time, taking the difference from the adjacent sibling on
// the preferred side (before the branch when preferEarlier is set, after
// it otherwise). Only when opposite is set does it fall back to the
// adjacent sibling on the other side once the preferred one can give no
// more. The walk stops, without error, once no donor can give up any more
// space — a resize that would violate PaneMinimum simply clamps.
func (t *Tree) resizeCore(leaf NodeID, kind Kind, delta int, preferEarlier, opposite bool) error {
	anc, branch, err := t.findAncestor(leaf, kind)
	if err != nil {
		return err
	}
	ancNode := t.nodes[anc]

	grow := delta > 0
	remaining := delta
	if remaining < 0 {
		remaining = -remaining
	}

	for remaining > 0 {
		branchNode := t.nodes[branch]
		if !grow && t.dim(branchNode, kind) <= minDim(kind) {
			break
		}
		idx := indexOf(ancNode.children, branch)
		donorIdx := t.pickDonor(ancNode.children, idx, preferEarlier, opposite, kind, grow)
		if donorIdx < 0 {
			break
		}
		donor := t.nodes[ancNode.children[donorIdx]]

		if grow {
			t.setDim(donor, kind, t.dim(donor, kind)-1)
			t.setDim(branchNode, kind, t.dim(branchNode, kind)+1)
		} else {
			t.setDim(donor, kind, t.dim(donor, kind)+1)
			t.setDim(branchNode, kind, t.dim(branchNode, kind)-1)
		}
		remaining--
	}

	t.FixOffsets()
	return nil
}

func (t *Tree) pickDonor(children []NodeID, idx int, preferEarlier, opposite bool, kind Kind, grow bool) int {
	try := func(i int) int {
		if i < 0 || i >= len(children) {
			return -1
		}
		n := t.nodes[children[i]]
		if grow && t.dim(n, kind) > minDim(kind) {
			return i
		}
		if !grow {
			return i
		}
		return -1
	}

	if preferEarlier {
		if i := try(idx - 1); i >= 0 {
			return i
		}
		if opposite {
			return try(idx + 1)
		}
		return -1
	}
	if i := try(idx + 1); i >= 0 {
		return i
	}
	if opposite {
		return try(idx - 1)
	}
	return -1
}

// Resize grows or shrinks leaf's pane toward dir by delta columns/rows
// (resize-pane -U/-D/-L/-R), stealing the space from the single adjacent
// sibling on that side.
func (t *Tree) Resize(leaf NodeID, dir Direction, delta int) error {
	kind := axisOf(dir)
	preferEarlier := dir == Up || dir == Left
	return t.resizeCore(leaf, kind, delta, preferEarlier, false)
}

// ResizeTo sets leaf's exact dimension along kind (resize-pane -x/-y),
// taking or giving space to whichever neighboring sibling has room.
func (t *Tree) ResizeTo(leaf NodeID, kind Kind, newSize int) error {
	_, branch, err := t.findAncestor(leaf, kind)
	if err != nil {
		return err
	}
	cur := t.dim(t.nodes[branch], kind)
	delta := newSize - cur
	if delta == 0 {
		return nil
	}
	return t.resizeCore(leaf, kind, delta, false, true)
}

// ResizeWindow adjusts the whole tree's root dimensions to (newSx, newSy),
// absorbing the delta from the tail of each matching-orientation node's
// child list and clamping at PaneMinimum, then fixes offsets from root.
func (t *Tree) ResizeWindow(newSx, newSy int) {
	t.resizeAxis(t.root, LeftRight, newSx)
	t.resizeAxis(t.root, TopBottom, newSy)
	t.FixOffsets()
}

func (t *Tree) resizeAxis(id NodeID, kind Kind, newSize int) {
	n := t.nodes[id]
	old := t.dim(n, kind)
	delta := newSize - old
	t.setDim(n, kind, newSize)
	if n.kind == Leaf || delta == 0 {
		return
	}

	if n.kind == kind {
		remaining := delta
		for i := len(n.children) - 1; i >= 0 && remaining != 0; i-- {
			c := t.nodes[n.children[i]]
			cur := t.dim(c, kind)
			want := cur + remaining
			if want < minDim(kind) {
				want = minDim(kind)
			}
			applied := want - cur
			t.resizeAxis(n.children[i], kind, want)
			remaining -= applied
		}
		return
	}

	for _, c := range n.children {
		t.resizeAxis(c, kind, newSize)
	}
}

// Validate walks the tree checking the structural invariants: every
// LeftRight/TopBottom's children sum to its own dimension plus separators,
// every leaf meets PaneMinimum, and no same-orientation parent-child chain
// has a single intermediate.
func (t *Tree) Validate() error {
	return t.validate(t.root, NoNode)
}

func (t *Tree) validate(id, parent NodeID) error {
	n := t.nodes[id]
	if n.parent != parent {
		return fmt.Errorf("layout: node %d has wrong parent pointer", id)
	}
	if n.kind == Leaf {
		if n.sx < PaneMinimum || n.sy < PaneMinimum+1 {
			return fmt.Errorf("layout: leaf %d below minimum size (%d,%d)", id, n.sx, n.sy)
		}
		return nil
	}
	if parent != NoNode && t.nodes[parent].kind == n.kind {
		return fmt.Errorf("layout: node %d is a redundant same-orientation chain", id)
	}
	if len(n.children) < 1 {
		return fmt.Errorf("layout: non-leaf %d has no children", id)
	}
	sum := 0
	for i, c := range n.children {
		cn := t.nodes[c]
		if n.kind == LeftRight {
			sum += cn.sx
			if cn.sy != n.sy {
				return fmt.Errorf("layout: child %d sy mismatch in LeftRight parent", c)
			}
		} else {
			sum += cn.sy
			if cn.sx != n.sx {
				return fmt.Errorf("layout: child %d sx mismatch in TopBottom parent", c)
			}
		}
		if i > 0 {
			sum++
		}
		if err := t.validate(c, id); err != nil {
			return err
		}
	}
	if n.kind == LeftRight && sum != n.sx {
		return fmt.Errorf("layout: LeftRight node %d children sum to %d, want %d", id, sum, n.sx)
	}
	if n.kind == TopBottom && sum != n.sy {
		return fmt.Errorf("layout: TopBottom node %d children sum to %d, want %d", id, sum, n.sy)
	}
	return nil
}
