// Package damage implements per-row dirty diffing against a cached prior
// frame, a per-pane damage map, and rolling frame-time metrics.
package damage

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/veloterm/veloterm/internal/pane"
	"github.com/veloterm/veloterm/internal/render"
)

// DiffGridRows returns a per-row dirty flag: true iff any cell in that
// row's cols-wide slice differs between prev and curr. Rows are compared
// positionally; differing total lengths mark every row dirty.
func DiffGridRows(prev, curr [][]rune, cols int) []bool {
	rows := len(curr)
	dirty := make([]bool, rows)

	if len(prev) != len(curr) {
		for i := range dirty {
			dirty[i] = true
		}
		return dirty
	}

	for r := 0; r < rows; r++ {
		if rowDiffers(prev[r], curr[r], cols) {
			dirty[r] = true
		}
	}
	return dirty
}

func rowDiffers(a, b []rune, cols int) bool {
	if len(a) != len(b) {
		return true
	}
	n := cols
	if n > len(a) {
		n = len(a)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// DiffCellRows returns a per-row dirty flag over full cell state (glyph,
// foreground, background, flags), not just the rune — so a selection
// highlight or SGR color change on an otherwise-unchanged row is detected,
// per the requirement that overlay mutations be diffed before they're
// discarded. Rows are compared positionally; differing total lengths mark
// every row dirty.
func DiffCellRows(prev, curr []render.ViewportCell, cols int) []bool {
	rows := 0
	if cols > 0 {
		rows = len(curr) / cols
	}
	dirty := make([]bool, rows)

	if len(prev) != len(curr) {
		for i := range dirty {
			dirty[i] = true
		}
		return dirty
	}

	for r := 0; r < rows; r++ {
		start := r * cols
		end := start + cols
		if end > len(curr) {
			end = len(curr)
		}
		for i := start; i < end; i++ {
			if prev[i] != curr[i] {
				dirty[r] = true
				break
			}
		}
	}
	return dirty
}

// State caches the last emitted cells for one pane and tracks whether the
// next diff should be forced fully dirty.
type State struct {
	prevCells    [][]rune
	prevViewport []render.ViewportCell
	cols         int
	forceFull    bool
}

// NewState returns a State that forces full damage on its first diff.
func NewState() *State {
	return &State{forceFull: true}
}

// ForceFullDamage marks the next diff as fully dirty (used on resize,
// theme/font/DPI change, scroll offset change, zoom toggle, pane focus
// change, or pane-tree structure change).
func (s *State) ForceFullDamage() {
	s.forceFull = true
}

// Diff compares curr against the cached frame and returns per-row dirty
// flags, then updates the cache to curr.
func (s *State) Diff(curr [][]rune, cols int) []bool {
	dirty := make([]bool, len(curr))

	if s.forceFull || s.cols != cols || s.prevCells == nil {
		for i := range dirty {
			dirty[i] = true
		}
		s.forceFull = false
	} else {
		dirty = DiffGridRows(s.prevCells, curr, cols)
	}

	s.prevCells = curr
	s.cols = cols
	return dirty
}

// DiffCells compares curr (a cols x rows viewport of full cell state, as
// produced by ExtractViewport) against the cached frame and returns
// per-row dirty flags, then updates the cache to curr. This is the cell-
// aware counterpart to Diff: it is what actually feeds the renderer, since
// Diff alone can miss overlay-only (selection/color) changes.
func (s *State) DiffCells(curr []render.ViewportCell, cols int) []bool {
	rows := 0
	if cols > 0 {
		rows = len(curr) / cols
	}
	dirty := make([]bool, rows)

	if s.forceFull || s.cols != cols || s.prevViewport == nil {
		for i := range dirty {
			dirty[i] = true
		}
		s.forceFull = false
	} else {
		dirty = DiffCellRows(s.prevViewport, curr, cols)
	}

	s.prevViewport = curr
	s.cols = cols
	return dirty
}

// PaneMap lazily creates a damage State per pane and removes entries when
// panes close.
type PaneMap struct {
	states map[pane.Id]*State
}

// NewPaneMap returns an empty PaneMap.
func NewPaneMap() *PaneMap {
	return &PaneMap{states: make(map[pane.Id]*State)}
}

// Get returns the State for id, creating one (with forced full damage) if
// absent.
func (m *PaneMap) Get(id pane.Id) *State {
	s, ok := m.states[id]
	if !ok {
		s = NewState()
		m.states[id] = s
	}
	return s
}

// Remove discards the State for a closed pane.
func (m *PaneMap) Remove(id pane.Id) {
	delete(m.states, id)
}

// ForceFullDamageAll forces a full redraw on every tracked pane.
func (m *PaneMap) ForceFullDamageAll() {
	for _, s := range m.states {
		s.ForceFullDamage()
	}
}

// FrameTiming holds the three timing buckets recorded per frame.
type FrameTiming struct {
	DiffTime   time.Duration
	UpdateTime time.Duration
	TotalTime  time.Duration
}

// Metrics accumulates per-frame timings and logs a rolling average every N
// frames via the supplied logger, using human-readable duration formatting.
type Metrics struct {
	logger      *slog.Logger
	every       int
	count       int
	sumDiff     time.Duration
	sumUpdate   time.Duration
	sumTotal    time.Duration
}

// NewMetrics returns a Metrics that logs an average every `every` frames.
func NewMetrics(logger *slog.Logger, every int) *Metrics {
	if every <= 0 {
		every = 120
	}
	return &Metrics{logger: logger, every: every}
}

// Record accumulates one frame's timing and, every N frames, logs the
// rolling average and resets the accumulator.
func (m *Metrics) Record(t FrameTiming) {
	m.sumDiff += t.DiffTime
	m.sumUpdate += t.UpdateTime
	m.sumTotal += t.TotalTime
	m.count++

	if m.count < m.every {
		return
	}

	avgDiff := m.sumDiff / time.Duration(m.count)
	avgUpdate := m.sumUpdate / time.Duration(m.count)
	avgTotal := m.sumTotal / time.Duration(m.count)

	if m.logger != nil {
		m.logger.Debug("frame metrics",
			"frames", humanize.Comma(int64(m.count)),
			"avg_diff", avgDiff,
			"avg_update", avgUpdate,
			"avg_total", avgTotal,
		)
	}

	m.sumDiff, m.sumUpdate, m.sumTotal, m.count = 0, 0, 0, 0
}
