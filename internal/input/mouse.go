package input

import (
	"math"
	"time"

	"github.com/veloterm/veloterm/internal/selection"
)

// multiClickWindow and multiClickDistPx bound how close in time/space two
// presses must be to count toward a multi-click.
const (
	multiClickWindow   = 300 * time.Millisecond
	multiClickDistPx   = 5.0
	dragThresholdPx    = 3.0
	maxClickCount      = 3
)

// MouseState is Idle, Pending (press registered, not yet a drag), or
// Active (a live selection exists).
type MouseState int

const (
	MouseIdle MouseState = iota
	MousePending
	MouseActive
)

// Selector drives the per-pane mouse selection state machine described in
// the Input Translator's mouse-selection model.
type Selector struct {
	State MouseState

	clickCount   int
	lastClickAt  time.Time
	lastClickX   float64
	lastClickY   float64
	originRow    int
	originCol    int
	originSide   selection.Side

	swallowNext bool

	Selection selection.Selection
	Active    bool

	// LineAt returns the runes of absolute row row, used to snap Word
	// selections to word boundaries. Nil disables snapping (selections stay
	// pinned to the exact clicked/dragged column), which also preserves
	// pre-LineAt callers' behavior.
	LineAt func(row int) []rune
}

// SwallowNextClick suppresses the next Press call and clears any active
// selection, used when the window or pane just received focus.
func (s *Selector) SwallowNextClick() {
	s.swallowNext = true
	s.Active = false
	s.State = MouseIdle
}

// Press handles a mouse-down at (row, col) with sub-cell side, pixel
// position px/py (for multi-click distance) at time now.
func (s *Selector) Press(row, col int, side selection.Side, px, py float64, now time.Time) {
	if s.swallowNext {
		s.swallowNext = false
		s.Active = false
		s.State = MouseIdle
		return
	}

	withinWindow := now.Sub(s.lastClickAt) <= multiClickWindow
	withinDist := dist(px, py, s.lastClickX, s.lastClickY) <= multiClickDistPx
	if withinWindow && withinDist {
		s.clickCount++
		if s.clickCount > maxClickCount {
			s.clickCount = maxClickCount
		}
	} else {
		s.clickCount = 1
	}
	s.lastClickAt = now
	s.lastClickX, s.lastClickY = px, py

	s.originRow, s.originCol, s.originSide = row, col, side

	switch s.clickCount {
	case 1:
		s.State = MousePending
		s.Active = false
	case 2:
		s.State = MouseActive
		s.Active = true
		startCol, endCol := col, col
		if s.LineAt != nil {
			startCol, endCol = selection.WordBoundary(s.LineAt(row), col)
		}
		s.Selection = selection.Selection{
			Start:     selection.Point{Row: row, Col: startCol},
			End:       selection.Point{Row: row, Col: endCol},
			Kind:      selection.Word,
			StartSide: side,
			EndSide:   side,
		}
	default:
		s.State = MouseActive
		s.Active = true
		s.Selection = selection.Selection{
			Start:     selection.Point{Row: row, Col: 0},
			End:       selection.Point{Row: row, Col: col},
			Kind:      selection.Line,
			StartSide: selection.Left,
			EndSide:   side,
		}
	}
}

// ShiftClick extends the existing selection (or starts a fresh Range
// selection anchored at the current cursor position if none exists).
func (s *Selector) ShiftClick(cursorRow, cursorCol, row, col int, side selection.Side) {
	if !s.Active {
		s.Selection = selection.Selection{
			Start:     selection.Point{Row: cursorRow, Col: cursorCol},
			End:       selection.Point{Row: row, Col: col},
			Kind:      selection.Range,
			StartSide: selection.Left,
			EndSide:   side,
		}
	} else {
		s.Selection.End = selection.Point{Row: row, Col: col}
		s.Selection.EndSide = side
	}
	s.Active = true
	s.State = MouseActive
}

// Drag handles pointer movement at (row, col, side), pixel position px/py.
func (s *Selector) Drag(row, col int, side selection.Side, px, py float64) {
	switch s.State {
	case MousePending:
		if dist(px, py, s.lastClickX, s.lastClickY) < dragThresholdPx {
			return
		}
		s.State = MouseActive
		s.Active = true
		s.Selection = selection.Selection{
			Start:     selection.Point{Row: s.originRow, Col: s.originCol},
			End:       selection.Point{Row: row, Col: col},
			Kind:      selection.Range,
			StartSide: s.originSide,
			EndSide:   side,
		}
	case MouseActive:
		switch s.Selection.Kind {
		case selection.Word:
			endCol := col
			if s.LineAt != nil {
				_, endCol = selection.WordBoundary(s.LineAt(row), col)
			}
			s.Selection.End = selection.Point{Row: row, Col: endCol}
			s.Selection.EndSide = side
		case selection.Line:
			s.Selection.End = selection.Point{Row: row, Col: col}
			s.Selection.EndSide = selection.Right
		default:
			s.Selection.End = selection.Point{Row: row, Col: col}
			s.Selection.EndSide = side
		}
	}
}

// Release handles a mouse-up. Releasing from Pending discards any
// would-be selection; releasing from Active leaves the selection intact
// and returns to Idle.
func (s *Selector) Release() {
	if s.State == MousePending {
		s.Active = false
	}
	s.State = MouseIdle
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return math.Sqrt(dx*dx + dy*dy)
}
