package pane

import "github.com/veloterm/veloterm/internal/geometry"

// DividerThicknessPx is the rendered thickness of a divider, in pixels.
const DividerThicknessPx = 2

// DividerHitMarginPx expands a divider's thin axis for hit-testing.
const DividerHitMarginPx = 4

// Divider is a hit-testable rect generated from a Split node, centered on
// the split boundary and carrying the split's pre-order index.
type Divider struct {
	SplitIndex int
	Rect       geometry.Rect
	Direction  Direction
}

// Dividers walks the tree in pre-order and returns one divider per Split
// node.
func (t *Tree) Dividers(bound geometry.Rect) []Divider {
	var out []Divider
	idx := 0
	collectDividers(t.Root, bound, &idx, &out)
	return out
}

func collectDividers(n *Node, bound geometry.Rect, idx *int, out *[]Divider) {
	if n.IsLeaf() {
		return
	}

	splitIndex := *idx
	*idx++

	switch n.Direction {
	case Vertical:
		ratio := clampRatio(n.Ratio, bound.W, MinPaneSize)
		boundaryX := bound.X + bound.W*ratio
		out2 := append(*out, Divider{
			SplitIndex: splitIndex,
			Direction:  Vertical,
			Rect:       geometry.Rect{X: boundaryX - DividerThicknessPx/2, Y: bound.Y, W: DividerThicknessPx, H: bound.H},
		})
		*out = out2
		first := geometry.Rect{X: bound.X, Y: bound.Y, W: bound.W * ratio, H: bound.H}
		second := geometry.Rect{X: boundaryX, Y: bound.Y, W: bound.W - bound.W*ratio, H: bound.H}
		collectDividers(n.First, first, idx, out)
		collectDividers(n.Second, second, idx, out)
	default:
		ratio := clampRatio(n.Ratio, bound.H, MinPaneSize)
		boundaryY := bound.Y + bound.H*ratio
		*out = append(*out, Divider{
			SplitIndex: splitIndex,
			Direction:  Horizontal,
			Rect:       geometry.Rect{X: bound.X, Y: boundaryY - DividerThicknessPx/2, W: bound.W, H: DividerThicknessPx},
		})
		first := geometry.Rect{X: bound.X, Y: bound.Y, W: bound.W, H: bound.H * ratio}
		second := geometry.Rect{X: bound.X, Y: boundaryY, W: bound.W, H: bound.H - bound.H*ratio}
		collectDividers(n.First, first, idx, out)
		collectDividers(n.Second, second, idx, out)
	}
}

// HitTest returns the index of the first divider whose margin-expanded
// rect contains (x, y), or -1 if none.
func HitTest(dividers []Divider, x, y float64) int {
	for _, d := range dividers {
		expanded := d.Rect
		switch d.Direction {
		case Vertical:
			expanded.X -= DividerHitMarginPx
			expanded.W += 2 * DividerHitMarginPx
		default:
			expanded.Y -= DividerHitMarginPx
			expanded.H += 2 * DividerHitMarginPx
		}
		if expanded.ContainsPoint(x, y) {
			return d.SplitIndex
		}
	}
	return -1
}

// DragState is the divider interaction state machine.
type DragState int

const (
	Idle DragState = iota
	Hovering
	Dragging
)

// Interaction tracks divider hover/drag state across mouse events and
// emits effects for the caller to apply (cursor shape, ratio updates,
// focus changes).
type Interaction struct {
	State      DragState
	HoverIndex int
	DragIndex  int
	StartRatio float64
}

// CursorShape names the cursor glyph a hover/drag effect requests.
type CursorShape int

const (
	CursorDefault CursorShape = iota
	CursorResizeEW
	CursorResizeNS
)

// Effect is an output of the interaction state machine for the caller to
// apply: a cursor shape change, a ratio update, a focus change, or none.
type Effect struct {
	CursorShape  *CursorShape
	UpdateRatio  *float64
	FocusPaneIdx int
	HasFocusPane bool
}

// Move handles pointer movement, transitioning Idle<->Hovering or updating
// an in-progress Drag. dividers is the current divider layout; paneAxisLo
// and paneAxisLen describe the dragged divider's parent split extent along
// its axis, used to compute the new ratio.
func (in *Interaction) Move(dividers []Divider, x, y float64, paneAxisLo, paneAxisLen float64) Effect {
	if in.State == Dragging {
		axisPos := x
		for _, d := range dividers {
			if d.SplitIndex == in.DragIndex && d.Direction == Horizontal {
				axisPos = y
				break
			}
		}
		ratio := (axisPos - paneAxisLo) / paneAxisLen
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		return Effect{UpdateRatio: &ratio}
	}

	idx := HitTest(dividers, x, y)
	if idx < 0 {
		if in.State == Hovering {
			in.State = Idle
		}
		return Effect{}
	}

	entering := in.State != Hovering || in.HoverIndex != idx
	in.State = Hovering
	in.HoverIndex = idx

	if !entering {
		return Effect{}
	}
	shape := CursorResizeEW
	for _, d := range dividers {
		if d.SplitIndex == idx && d.Direction == Horizontal {
			shape = CursorResizeNS
		}
	}
	return Effect{CursorShape: &shape}
}

// Press handles a mouse-button press. If hovering a divider, begins a
// drag. Otherwise, if (x, y) falls within a pane rect, emits a FocusPane
// effect.
func (in *Interaction) Press(startRatio float64, leaves []LeafRect, x, y float64) Effect {
	if in.State == Hovering {
		in.State = Dragging
		in.DragIndex = in.HoverIndex
		in.StartRatio = startRatio
		return Effect{}
	}

	for i, lr := range leaves {
		if lr.Rect.ContainsPoint(x, y) {
			return Effect{FocusPaneIdx: i, HasFocusPane: true}
		}
	}
	return Effect{}
}

// Release ends a drag, returning to Idle and requesting the default
// cursor.
func (in *Interaction) Release() Effect {
	in.State = Idle
	shape := CursorDefault
	return Effect{CursorShape: &shape}
}
