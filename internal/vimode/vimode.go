// Package vimode implements the per-pane modal vi-style input state
// machine: Normal/Visual/VisualLine/VisualBlock sub-modes, count
// accumulation, the "gg" multi-key prefix, and motion dispatch.
package vimode

import (
	term "github.com/veloterm/veloterm"
	"github.com/veloterm/veloterm/internal/clipboard"
	"github.com/veloterm/veloterm/internal/selection"
)

// Mode enumerates the vi-mode sub-modes.
type Mode int

const (
	Normal Mode = iota
	Visual
	VisualLine
	VisualBlock
)

// Motion enumerates the cursor motions the parser can resolve.
type Motion int

const (
	MotionNone Motion = iota
	MotionLeft
	MotionDown
	MotionUp
	MotionRight
	MotionWordForward
	MotionWordBack
	MotionWordEnd
	MotionLineStart
	MotionLineEnd
	MotionFirstNonBlank
	MotionBufferBottom
	MotionBufferTop
	MotionScreenTop
	MotionScreenMiddle
	MotionScreenBottom
	MotionHalfPageUp
	MotionHalfPageDown
)

// MaxCount bounds count accumulation per spec (up to 9999).
const MaxCount = 9999

// Point is a cursor or anchor position in the grid.
type Point struct {
	Row, Col int
}

// State is the per-pane modal state: {mode, cursor, anchor?, count?,
// pending_key?}.
type State struct {
	Mode       Mode
	Cursor     Point
	Anchor     Point
	HasAnchor  bool
	count      int
	hasCount   bool
	pendingKey rune

	// searchInput/queryRunes collect a "/"-initiated query until Enter or
	// Esc.
	searchInput bool
	queryRunes  []rune
}

// Action is emitted by Key when a motion, mode change, yank, search, or
// exit occurs; the caller applies it to the pane.
type Action struct {
	Motion     Motion
	Count      int
	EnteredVi  bool
	ExitedVi   bool
	ModeChange bool
	Yanked     bool

	// Searched is true when Enter submitted a freshly typed query (Query
	// holds it). SearchNext/SearchPrev are set by 'n'/'N'.
	Searched   bool
	Query      string
	SearchNext bool
	SearchPrev bool
}

// New returns a fresh Normal-mode state at the given cursor position.
func New(cursor Point) *State {
	return &State{Mode: Normal, Cursor: cursor}
}

// effectiveCount returns the accumulated count (defaulting to 1) and
// resets accumulation, per "effective count resets after each applied
// motion".
func (s *State) effectiveCount() int {
	n := 1
	if s.hasCount {
		n = s.count
	}
	s.count = 0
	s.hasCount = false
	return n
}

// Key folds one key press through the parser and returns the resulting
// Action. clip is used by 'y' to yank the current selection.
func (s *State) Key(r rune, ctrl bool, clip clipboard.Provider, selectedText string) Action {
	if s.searchInput {
		switch r {
		case '\r', '\n':
			query := string(s.queryRunes)
			s.searchInput = false
			s.queryRunes = nil
			return Action{Searched: true, Query: query}
		case 0x1B: // Esc cancels
			s.searchInput = false
			s.queryRunes = nil
			return Action{}
		case 0x7F, 0x08: // Backspace
			if len(s.queryRunes) > 0 {
				s.queryRunes = s.queryRunes[:len(s.queryRunes)-1]
			}
			return Action{}
		default:
			s.queryRunes = append(s.queryRunes, r)
			return Action{}
		}
	}

	if s.pendingKey != 0 {
		prefix := s.pendingKey
		s.pendingKey = 0
		if prefix == 'g' && r == 'g' {
			return Action{Motion: MotionBufferTop, Count: s.effectiveCount()}
		}
		// any other second key cancels the pending prefix silently
		return Action{}
	}

	if r >= '1' && r <= '9' || (r == '0' && s.hasCount) {
		digit := int(r - '0')
		if s.hasCount {
			s.count = s.count*10 + digit
		} else {
			s.count = digit
			s.hasCount = true
		}
		if s.count > MaxCount {
			s.count = MaxCount
		}
		return Action{}
	}

	if r == '0' {
		return Action{Motion: MotionLineStart, Count: s.effectiveCount()}
	}

	if ctrl {
		switch r {
		case 'u':
			return Action{Motion: MotionHalfPageUp, Count: s.effectiveCount()}
		case 'd':
			return Action{Motion: MotionHalfPageDown, Count: s.effectiveCount()}
		case 'v':
			return s.enterOrExitVisual(VisualBlock)
		}
		return Action{}
	}

	switch r {
	case 'h':
		return Action{Motion: MotionLeft, Count: s.effectiveCount()}
	case 'j':
		return Action{Motion: MotionDown, Count: s.effectiveCount()}
	case 'k':
		return Action{Motion: MotionUp, Count: s.effectiveCount()}
	case 'l':
		return Action{Motion: MotionRight, Count: s.effectiveCount()}
	case 'w':
		return Action{Motion: MotionWordForward, Count: s.effectiveCount()}
	case 'b':
		return Action{Motion: MotionWordBack, Count: s.effectiveCount()}
	case 'e':
		return Action{Motion: MotionWordEnd, Count: s.effectiveCount()}
	case '$':
		return Action{Motion: MotionLineEnd, Count: s.effectiveCount()}
	case '^':
		return Action{Motion: MotionFirstNonBlank, Count: s.effectiveCount()}
	case 'G':
		return Action{Motion: MotionBufferBottom, Count: s.effectiveCount()}
	case 'H':
		return Action{Motion: MotionScreenTop, Count: s.effectiveCount()}
	case 'M':
		return Action{Motion: MotionScreenMiddle, Count: s.effectiveCount()}
	case 'L':
		return Action{Motion: MotionScreenBottom, Count: s.effectiveCount()}
	case 'g':
		s.pendingKey = 'g'
		return Action{}
	case 'v':
		return s.enterOrExitVisual(Visual)
	case 'V':
		return s.enterOrExitVisual(VisualLine)
	case '/':
		s.searchInput = true
		s.queryRunes = nil
		return Action{}
	case 'n':
		return Action{SearchNext: true}
	case 'N':
		return Action{SearchPrev: true}
	case 'y':
		if s.Mode != Normal {
			if clip != nil {
				clip.SetText(selectedText)
			}
			s.Mode = Normal
			s.HasAnchor = false
			return Action{Yanked: true, ModeChange: true}
		}
		return Action{}
	case 0x1B: // Esc
		if s.Mode != Normal {
			s.Mode = Normal
			s.HasAnchor = false
			return Action{ModeChange: true}
		}
		return Action{ExitedVi: true}
	}

	return Action{}
}

// enterOrExitVisual toggles into mode, or back to Normal if mode is
// already active ("pressing the same key in its own mode exits").
func (s *State) enterOrExitVisual(mode Mode) Action {
	if s.Mode == mode {
		s.Mode = Normal
		s.HasAnchor = false
		return Action{ModeChange: true}
	}
	s.Mode = mode
	s.Anchor = s.Cursor
	s.HasAnchor = true
	return Action{ModeChange: true, EnteredVi: true}
}

// LineSource supplies one row's runes for word-motion scanning, exact
// column correspondence (space for empty cells).
type LineSource interface {
	Line(row int) []rune
}

// Move resolves a motion into a new cursor position, applying it count
// times (count defaulting to 1 is the caller's job via effectiveCount).
// Horizontal motions clamp to [0, cols-1] and step over wide runes as one
// cell via term.CellWidth; vertical motions clamp to [0, rows-1].
func Move(cursor Point, motion Motion, count int, cols, rows int, src LineSource) Point {
	if count < 1 {
		count = 1
	}
	p := cursor
	for i := 0; i < count; i++ {
		p = moveOnce(p, motion, cols, rows, src)
	}
	return p
}

func moveOnce(p Point, motion Motion, cols, rows int, src LineSource) Point {
	switch motion {
	case MotionLeft:
		if p.Col > 0 {
			p.Col -= stepWidth(src, p.Row, p.Col-1)
		}
	case MotionRight:
		if p.Col < cols-1 {
			p.Col += stepWidth(src, p.Row, p.Col)
		}
		if p.Col > cols-1 {
			p.Col = cols - 1
		}
	case MotionUp:
		if p.Row > 0 {
			p.Row--
		}
	case MotionDown:
		if p.Row < rows-1 {
			p.Row++
		}
	case MotionLineStart:
		p.Col = 0
	case MotionLineEnd:
		p.Col = rightmostNonSpace(lineOf(src, p.Row), cols)
	case MotionFirstNonBlank:
		p.Col = firstNonBlank(lineOf(src, p.Row))
	case MotionBufferTop:
		p.Row = 0
	case MotionBufferBottom:
		p.Row = rows - 1
	case MotionScreenTop:
		p.Row = 0
	case MotionScreenMiddle:
		p.Row = rows / 2
	case MotionScreenBottom:
		p.Row = rows - 1
	case MotionHalfPageUp:
		p.Row -= rows / 2
		if p.Row < 0 {
			p.Row = 0
		}
	case MotionHalfPageDown:
		p.Row += rows / 2
		if p.Row > rows-1 {
			p.Row = rows - 1
		}
	case MotionWordForward:
		p = wordForward(p, cols, rows, src)
	case MotionWordBack:
		p = wordBack(p, cols, rows, src)
	case MotionWordEnd:
		p = wordEnd(p, cols, rows, src)
	}

	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > cols-1 {
		p.Col = cols - 1
	}
	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row > rows-1 {
		p.Row = rows - 1
	}
	return p
}

func lineOf(src LineSource, row int) []rune {
	if src == nil {
		return nil
	}
	return src.Line(row)
}

// stepWidth returns how many columns a horizontal step over the rune at
// (row, col) should cross, so a wide rune's spacer cell is skipped as one
// unit rather than landing the cursor on the spacer itself.
func stepWidth(src LineSource, row, col int) int {
	line := lineOf(src, row)
	if col < 0 || col >= len(line) {
		return 1
	}
	return term.CellWidth(line[col])
}

// rightmostNonSpace returns the column of the last non-space rune on line,
// or cols-1 if the line is blank/unavailable.
func rightmostNonSpace(line []rune, cols int) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] != ' ' && line[i] != 0 {
			return i
		}
	}
	if cols > 0 {
		return cols - 1
	}
	return 0
}

// firstNonBlank returns the column of the first non-space rune on line, or
// 0 if the line is blank/unavailable.
func firstNonBlank(line []rune) int {
	for i, r := range line {
		if r != ' ' && r != 0 {
			return i
		}
	}
	return 0
}

// wordForward advances to the start of the next word, wrapping to the
// start of the following row at end of line.
func wordForward(p Point, cols, rows int, src LineSource) Point {
	line := lineOf(src, p.Row)
	col := p.Col
	inWord := col < len(line) && selection.IsWordChar(line[col])

	for {
		if col >= len(line)-1 {
			if p.Row >= rows-1 {
				return Point{Row: p.Row, Col: maxInt(len(line)-1, 0)}
			}
			p.Row++
			line = lineOf(src, p.Row)
			col = -1
			inWord = false
		}
		col++
		if col >= len(line) {
			continue
		}
		if inWord {
			if !selection.IsWordChar(line[col]) && line[col] != ' ' {
				return Point{Row: p.Row, Col: col}
			}
			if line[col] == ' ' {
				inWord = false
			}
		} else if selection.IsWordChar(line[col]) || (line[col] != ' ' && line[col] != 0) {
			return Point{Row: p.Row, Col: col}
		}
	}
}

// wordBack retreats to the start of the previous word, wrapping to the end
// of the prior row at start of line.
func wordBack(p Point, cols, rows int, src LineSource) Point {
	line := lineOf(src, p.Row)
	col := p.Col

	for {
		col--
		if col < 0 {
			if p.Row <= 0 {
				return Point{Row: 0, Col: 0}
			}
			p.Row--
			line = lineOf(src, p.Row)
			col = len(line)
			continue
		}
		if col < len(line) && line[col] != ' ' && line[col] != 0 {
			start, _ := selection.WordBoundary(line, col)
			if selection.IsWordChar(line[col]) {
				return Point{Row: p.Row, Col: start}
			}
			return Point{Row: p.Row, Col: col}
		}
	}
}

// wordEnd advances to the end of the current or next word.
func wordEnd(p Point, cols, rows int, src LineSource) Point {
	line := lineOf(src, p.Row)
	col := p.Col

	for {
		col++
		if col >= len(line) {
			if p.Row >= rows-1 {
				return Point{Row: p.Row, Col: maxInt(len(line)-1, 0)}
			}
			p.Row++
			line = lineOf(src, p.Row)
			col = -1
			continue
		}
		if line[col] != ' ' && line[col] != 0 {
			_, end := selection.WordBoundary(line, col)
			if selection.IsWordChar(line[col]) {
				return Point{Row: p.Row, Col: end}
			}
			return Point{Row: p.Row, Col: col}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
