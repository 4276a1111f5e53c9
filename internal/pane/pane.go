// Package pane implements the binary pane tree: splits with layout rects,
// focus navigation, zoom, and a process-wide PaneId allocator.
package pane

import (
	"sync/atomic"

	"github.com/veloterm/veloterm/internal/geometry"
)

// Id is a process-wide monotonically assigned pane identifier.
type Id uint32

var nextID atomic.Uint32

// NewID returns the next process-wide PaneId. Tests that need deterministic
// ids should use ResetIDsForTest.
func NewID() Id {
	return Id(nextID.Add(1))
}

// ResetIDsForTest resets the allocator. Only safe when no other test or
// goroutine is concurrently allocating ids.
func ResetIDsForTest() {
	nextID.Store(0)
}

// Direction is the axis a Split divides its bound along.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// MinPaneSize is the minimum width/height, in pixels, a leaf may be
// shrunk to by a split ratio.
const MinPaneSize = 40

// Node is a binary pane-tree node: either a Leaf or a Split with two
// children.
type Node struct {
	Leaf *Id

	Direction Direction
	Ratio     float64
	First     *Node
	Second    *Node
}

// NewLeaf returns a leaf node wrapping id.
func NewLeaf(id Id) *Node {
	return &Node{Leaf: &id}
}

// NewSplit returns a split node dividing its bound along dir at ratio,
// with the given children.
func NewSplit(dir Direction, ratio float64, first, second *Node) *Node {
	return &Node{Direction: dir, Ratio: ratio, First: first, Second: second}
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.Leaf != nil }

// Tree is a pane tree with a focused leaf and an optional zoomed leaf.
type Tree struct {
	Root    *Node
	Focused Id
	Zoomed  *Id
}

// NewTree returns a tree containing a single leaf, focused.
func NewTree(id Id) *Tree {
	return &Tree{Root: NewLeaf(id), Focused: id}
}

// clampRatio enforces the minimum-size constraint on a split ratio: when
// the total extent along the split axis is at least 2*min, the ratio is
// clamped to [min/total, 1-min/total]; otherwise it collapses to 0.5.
func clampRatio(ratio, total, min float64) float64 {
	if total < 2*min {
		return 0.5
	}
	lo := min / total
	hi := 1 - lo
	if ratio < lo {
		return lo
	}
	if ratio > hi {
		return hi
	}
	return ratio
}

// LeafRect pairs a pane id with its computed layout rect.
type LeafRect struct {
	ID   Id
	Rect geometry.Rect
}

// Layout computes leaf rects for the tree within bound. When a pane is
// zoomed, only that pane's rect is returned, filling bound entirely.
func (t *Tree) Layout(bound geometry.Rect) []LeafRect {
	if t.Zoomed != nil {
		return []LeafRect{{ID: *t.Zoomed, Rect: bound}}
	}
	var out []LeafRect
	layoutNode(t.Root, bound, &out)
	return out
}

func layoutNode(n *Node, bound geometry.Rect, out *[]LeafRect) {
	if n.IsLeaf() {
		*out = append(*out, LeafRect{ID: *n.Leaf, Rect: bound})
		return
	}

	switch n.Direction {
	case Vertical:
		ratio := clampRatio(n.Ratio, bound.W, MinPaneSize)
		firstW := bound.W * ratio
		first := geometry.Rect{X: bound.X, Y: bound.Y, W: firstW, H: bound.H}
		second := geometry.Rect{X: bound.X + firstW, Y: bound.Y, W: bound.W - firstW, H: bound.H}
		layoutNode(n.First, first, out)
		layoutNode(n.Second, second, out)
	default: // Horizontal
		ratio := clampRatio(n.Ratio, bound.H, MinPaneSize)
		firstH := bound.H * ratio
		first := geometry.Rect{X: bound.X, Y: bound.Y, W: bound.W, H: firstH}
		second := geometry.Rect{X: bound.X, Y: bound.Y + firstH, W: bound.W, H: bound.H - firstH}
		layoutNode(n.First, first, out)
		layoutNode(n.Second, second, out)
	}
}

// Leaves returns every leaf pane id in pre-order.
func (t *Tree) Leaves() []Id {
	var out []Id
	collectLeaves(t.Root, &out)
	return out
}

func collectLeaves(n *Node, out *[]Id) {
	if n.IsLeaf() {
		*out = append(*out, *n.Leaf)
		return
	}
	collectLeaves(n.First, out)
	collectLeaves(n.Second, out)
}

// SplitFocused replaces the focused leaf with a split whose first child is
// the original leaf and whose second child is a new leaf at ratio 0.5;
// focus moves to the new leaf. If zoomed, zoom is exited first. Returns
// the new leaf's id.
func (t *Tree) SplitFocused(dir Direction) Id {
	t.Zoomed = nil

	newID := NewID()
	if t.Root.IsLeaf() && *t.Root.Leaf == t.Focused {
		t.Root = NewSplit(dir, 0.5, t.Root, NewLeaf(newID))
	} else {
		replaceNode(t.Root, t.Focused, func(old *Node) *Node {
			return NewSplit(dir, 0.5, old, NewLeaf(newID))
		})
	}
	t.Focused = newID
	return newID
}

// replaceNode finds the leaf with id target and replaces it in-place using
// replacement, which receives the original leaf node.
func replaceNode(n *Node, target Id, replacement func(*Node) *Node) bool {
	if n.IsLeaf() {
		return false
	}
	if n.First.IsLeaf() && *n.First.Leaf == target {
		n.First = replacement(n.First)
		return true
	}
	if n.Second.IsLeaf() && *n.Second.Leaf == target {
		n.Second = replacement(n.Second)
		return true
	}
	if replaceNode(n.First, target, replacement) {
		return true
	}
	return replaceNode(n.Second, target, replacement)
}

// CloseFocused removes the focused leaf, replacing its parent split with
// the surviving sibling subtree; focus moves to the first remaining leaf.
// Returns false (no-op) if only one pane exists. Zoom is exited first.
func (t *Tree) CloseFocused() bool {
	if t.Root.IsLeaf() {
		return false
	}
	t.Zoomed = nil

	closed := closeLeaf(&t.Root, t.Focused)
	if !closed {
		return false
	}
	leaves := t.Leaves()
	if len(leaves) > 0 {
		t.Focused = leaves[0]
	}
	return true
}

// closeLeaf finds the parent split of the leaf with id target, rooted at
// *np, and replaces it with the surviving sibling. np is a pointer so the
// root itself can be replaced.
func closeLeaf(np **Node, target Id) bool {
	n := *np
	if n.IsLeaf() {
		return false
	}

	if n.First.IsLeaf() && *n.First.Leaf == target {
		*np = n.Second
		return true
	}
	if n.Second.IsLeaf() && *n.Second.Leaf == target {
		*np = n.First
		return true
	}
	if closeLeaf(&n.First, target) {
		return true
	}
	return closeLeaf(&n.Second, target)
}

// FocusDirection moves focus to the pane whose rect center is nearest,
// among panes strictly in direction d from the focused pane's center. If
// no pane qualifies, focus is unchanged.
type ScreenDirection int

const (
	DirUp ScreenDirection = iota
	DirDown
	DirLeft
	DirRight
)

func (t *Tree) FocusDirection(d ScreenDirection, bound geometry.Rect) {
	rects := t.Layout(bound)
	var focusedRect geometry.Rect
	found := false
	for _, lr := range rects {
		if lr.ID == t.Focused {
			focusedRect = lr.Rect
			found = true
			break
		}
	}
	if !found {
		return
	}
	fx, fy := focusedRect.Center()

	best := Id(0)
	bestDist := -1.0
	for _, lr := range rects {
		if lr.ID == t.Focused {
			continue
		}
		cx, cy := lr.Rect.Center()
		switch d {
		case DirUp:
			if cy >= fy {
				continue
			}
		case DirDown:
			if cy <= fy {
				continue
			}
		case DirLeft:
			if cx >= fx {
				continue
			}
		case DirRight:
			if cx <= fx {
				continue
			}
		}
		dx, dy := cx-fx, cy-fy
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = lr.ID
		}
	}
	if bestDist >= 0 {
		t.Focused = best
	}
}

// ZoomToggle toggles zoom on the focused pane. No-op with a single pane.
func (t *Tree) ZoomToggle() {
	if t.Root.IsLeaf() {
		return
	}
	if t.Zoomed != nil {
		t.Zoomed = nil
		return
	}
	f := t.Focused
	t.Zoomed = &f
}

// SetSplitRatioByIndex updates the ratio of the i-th Split node in
// pre-order (0-based). Returns false if no such split exists.
func (t *Tree) SetSplitRatioByIndex(i int, ratio float64) bool {
	idx := 0
	return setRatio(t.Root, i, ratio, &idx)
}

func setRatio(n *Node, target int, ratio float64, idx *int) bool {
	if n.IsLeaf() {
		return false
	}
	if *idx == target {
		n.Ratio = ratio
		return true
	}
	*idx++
	if setRatio(n.First, target, ratio, idx) {
		return true
	}
	return setRatio(n.Second, target, ratio, idx)
}
