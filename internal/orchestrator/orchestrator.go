// Package orchestrator drives the per-tick frame loop: draining input and
// PTY output, advancing scroll animation, extracting damaged rows per
// pane, and producing the render instance buffers, tying every other
// internal package together around a root term.Terminal per pane.
package orchestrator

import (
	"log/slog"
	"time"

	term "github.com/veloterm/veloterm"
	"github.com/veloterm/veloterm/internal/atlas"
	"github.com/veloterm/veloterm/internal/clipboard"
	"github.com/veloterm/veloterm/internal/config"
	"github.com/veloterm/veloterm/internal/damage"
	"github.com/veloterm/veloterm/internal/input"
	"github.com/veloterm/veloterm/internal/pane"
	"github.com/veloterm/veloterm/internal/ptysession"
	"github.com/veloterm/veloterm/internal/render"
	"github.com/veloterm/veloterm/internal/scrollstate"
	"github.com/veloterm/veloterm/internal/search"
	"github.com/veloterm/veloterm/internal/selection"
	"github.com/veloterm/veloterm/internal/tab"
	"github.com/veloterm/veloterm/internal/vimode"
)

// PaneSession bundles everything a single pane owns: its VT terminal, PTY
// child process, scroll animation, and selector/search state.
type PaneSession struct {
	ID       pane.Id
	Terminal *term.Terminal
	PTY      *ptysession.Session
	Scroll   *scrollstate.State
	Search   *search.State
	Cwd      string

	// Mouse tracks click/drag selection state; Vi is the modal vi-mode
	// parser state, active only while ViActive is set (toggled by the
	// "vi-mode-toggle" binding).
	Mouse    *input.Selector
	Vi       *vimode.State
	ViActive bool

	// Cursor tracks blink phase for this pane's cursor overlay, lazily
	// created on first Tick.
	Cursor *render.CursorOverlay

	lastCols, lastRows int
}

// FrameResult is what Tick hands the window-integration layer for one
// pane: the full instance buffer for the frame plus which rows actually
// changed since the last tick, and the GPU buffer byte offset of each
// dirty row for a partial upload.
type FrameResult struct {
	Instances        []render.CellInstance
	DirtyRows        []bool
	DirtyByteOffsets []int
}

// Orchestrator owns the tab manager, the pane->session map, the per-pane
// damage map, and the logger used across a frame tick.
type Orchestrator struct {
	Tabs      *tab.Manager
	Sessions  map[pane.Id]*PaneSession
	Damage    *damage.PaneMap
	Metrics   *damage.Metrics
	Logger    *slog.Logger
	Config    config.Values
	Clipboard clipboard.Provider
	Bindings  input.Bindings

	// Atlas is built once per font/size combination via BuildAtlas; nil
	// until then.
	Atlas *atlas.Atlas
}

// New returns an Orchestrator whose tab manager holds one initial tab with
// a single-pane tree, ready to spawn its PTY session separately. Config is validated
// against its zero value so every field carries a usable default, and the
// system clipboard is wired in unless the caller swaps it for a Noop in
// a headless build.
func New(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	values, warnings, err := config.Validate(config.Values{})
	if err != nil {
		logger.Error("invalid default config", "error", err)
		values = config.Defaults()
	}
	for _, w := range warnings {
		logger.Warn("config warning", "warning", w)
	}

	bindings := input.DefaultBindings()
	for combo, action := range values.KeyBindings {
		bindings[combo] = action
	}

	return &Orchestrator{
		Tabs:      tab.NewManager("", pane.NewTree(pane.NewID())),
		Sessions:  make(map[pane.Id]*PaneSession),
		Damage:    damage.NewPaneMap(),
		Metrics:   damage.NewMetrics(logger, 120),
		Logger:    logger,
		Config:    values,
		Clipboard: clipboard.NewSystemClipboard(logger),
		Bindings:  bindings,
	}
}

// BuildAtlas rasterizes the default glyph set at the configured font size
// through r, replacing any previously built Atlas.
func (o *Orchestrator) BuildAtlas(r atlas.Rasterizer) error {
	metrics, err := atlas.ComputeMetrics(r, o.Config.FontSize, 1.2, len(atlas.DefaultGlyphSet()))
	if err != nil {
		return err
	}
	built, err := atlas.Build(r, atlas.DefaultGlyphSet(), metrics, o.Config.FontSize)
	if err != nil {
		return err
	}
	o.Atlas = built
	return nil
}

// RenderInstances converts a pane's extracted viewport into draw-ready
// cell instances against the orchestrator's glyph atlas.
func (o *Orchestrator) RenderInstances(sess *PaneSession, cells []render.ViewportCell) []render.CellInstance {
	if o.Atlas == nil {
		return nil
	}
	return render.BuildInstances(cells, sess.Terminal.Cols(), sess.Terminal.Rows(), o.Atlas)
}

// HandleKey dispatches one key event for a pane: the configured
// key-binding table is checked first (pane/tab commands never reach the
// shell or the vi-mode parser), then vi-mode if active, and otherwise the
// event is translated to its PTY byte sequence and written directly.
// The returned string is the resolved pane-command name, empty if the key
// was consumed by vi-mode or forwarded to the PTY.
func (o *Orchestrator) HandleKey(sess *PaneSession, e input.Event) string {
	if action, ok := o.Bindings.Lookup(e.Mods, comboBase(e)); ok {
		if action == "vi-mode-toggle" {
			o.toggleViMode(sess)
			return ""
		}
		return action
	}

	if sess.ViActive && sess.Vi != nil {
		selected := ""
		if sess.Vi.HasAnchor {
			n := viSelection(sess).Normalize()
			selected = n.SelectedText(selectionLineSource{sess.Terminal})
		}

		action := sess.Vi.Key(e.Rune, e.Mods.Has(input.ModCtrl), o.Clipboard, selected)

		if action.Motion != vimode.MotionNone {
			sess.Vi.Cursor = vimode.Move(sess.Vi.Cursor, action.Motion, action.Count,
				sess.Terminal.Cols(), sess.Terminal.Rows(), vimodeLineSource{sess.Terminal})
		}

		o.applySearchAction(sess, action)
		o.syncViSelection(sess)

		if action.ExitedVi {
			sess.ViActive = false
			sess.Terminal.ClearSelection()
		}
		return ""
	}

	if sess.PTY != nil {
		if bytes := input.Translate(e); bytes != nil {
			sess.PTY.Write(bytes)
		}
	}
	return ""
}

// applySearchAction runs a vi-mode search Action (query submit, next,
// prev) against the pane's Search Engine, lazily creating it, and moves
// the vi cursor to whatever match results.
func (o *Orchestrator) applySearchAction(sess *PaneSession, action vimode.Action) {
	if !action.Searched && !action.SearchNext && !action.SearchPrev {
		return
	}
	if sess.Search == nil {
		sess.Search = &search.State{}
	}

	var match search.Match
	var ok bool
	switch {
	case action.Searched:
		sess.Search.SetQuery(action.Query)
		sess.Search.Search(searchLines(sess.Terminal))
		match, ok = sess.Search.Current()
	case action.SearchNext:
		match, ok = sess.Search.Next()
	case action.SearchPrev:
		match, ok = sess.Search.Prev()
	}

	if ok && sess.Vi != nil {
		sess.Vi.Cursor = vimode.Point{Row: match.Row, Col: match.StartCol}
	}
}

// searchLines extracts every visible row's text for the Search Engine to
// run its query against.
func searchLines(t *term.Terminal) []search.LineText {
	rows := t.Rows()
	lines := make([]search.LineText, rows)
	for r := 0; r < rows; r++ {
		lines[r] = search.LineText{Row: r, Text: t.LineContent(r)}
	}
	return lines
}

// vimodeLineSource adapts a Terminal into vimode.LineSource.
type vimodeLineSource struct{ t *term.Terminal }

func (s vimodeLineSource) Line(row int) []rune { return s.t.RowRunes(row) }

// selectionLineSource adapts a Terminal into selection.LineSource.
type selectionLineSource struct{ t *term.Terminal }

func (s selectionLineSource) Line(absRow int) ([]rune, bool) {
	line := s.t.RowRunes(absRow)
	return line, line != nil
}

// viSelectionKind maps a vi-mode sub-mode onto the selection engine's Kind.
func viSelectionKind(m vimode.Mode) selection.Kind {
	switch m {
	case vimode.VisualLine:
		return selection.Line
	case vimode.VisualBlock:
		return selection.VisualBlock
	default:
		return selection.Range
	}
}

// viSelection builds the raw Selection spanning a vi-mode pane's anchor
// and cursor.
func viSelection(sess *PaneSession) selection.Selection {
	start := selection.Point{Row: sess.Vi.Anchor.Row, Col: sess.Vi.Anchor.Col}
	end := selection.Point{Row: sess.Vi.Cursor.Row, Col: sess.Vi.Cursor.Col}

	// Vi visual selections are inclusive of the character under the cursor
	// at both ends. Normalize's sub-cell adjustment only preserves that when
	// the earlier point carries Left and the later one carries Right, so
	// assign sides by position rather than by which end is anchor/cursor.
	startSide, endSide := selection.Left, selection.Right
	if !precedesPoint(start, end) {
		startSide, endSide = selection.Right, selection.Left
	}

	return selection.Selection{
		Start:     start,
		End:       end,
		Kind:      viSelectionKind(sess.Vi.Mode),
		StartSide: startSide,
		EndSide:   endSide,
	}
}

// precedesPoint reports whether a comes at or before b in reading order.
func precedesPoint(a, b selection.Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col <= b.Col
}

// syncViSelection mirrors a pane's vi-mode visual selection onto its
// Terminal so ExtractViewport's highlight pass (and copy-on-select
// integrations) see it, paralleling syncSelection for the mouse. It only
// clears the Terminal's selection when vi-mode itself is active with no
// anchor, so it never clobbers an unrelated mouse selection.
func (o *Orchestrator) syncViSelection(sess *PaneSession) {
	if sess.Vi != nil && sess.Vi.HasAnchor {
		n := viSelection(sess).Normalize()
		sess.Terminal.SetSelection(
			term.Position{Row: n.First.Row, Col: n.First.Col},
			term.Position{Row: n.Last.Row, Col: n.Last.Col},
		)
		return
	}
	if sess.ViActive {
		sess.Terminal.ClearSelection()
	}
}

// paneSelection derives the richer selection.Normalized (with Kind) that
// should drive ExtractViewport's highlight pass and the damage diff: the
// mouse Selector when active, else a live vi-mode visual selection, else
// none. The Terminal's own Selection field only stores a plain range and
// is not used here since it loses Kind information.
func paneSelection(sess *PaneSession) (*selection.Normalized, bool) {
	if sess.Mouse != nil && sess.Mouse.Active {
		n := sess.Mouse.Selection.Normalize()
		return &n, true
	}
	if sess.ViActive && sess.Vi != nil && sess.Vi.HasAnchor {
		n := viSelection(sess).Normalize()
		return &n, true
	}
	return nil, false
}

// HandleMousePress forwards a mouse-down to the pane's Selector (lazily
// created) and, once a selection becomes active, applies it to the
// Terminal so ExtractViewport picks it up on the next frame.
func (o *Orchestrator) HandleMousePress(sess *PaneSession, row, col int, side selection.Side, px, py float64, now time.Time) {
	if sess.Mouse == nil {
		sess.Mouse = &input.Selector{}
	}
	if sess.Mouse.LineAt == nil {
		sess.Mouse.LineAt = func(r int) []rune { return sess.Terminal.RowRunes(r) }
	}
	sess.Mouse.Press(row, col, side, px, py, now)
	o.syncSelection(sess)
}

// HandleMouseDrag forwards pointer movement to the pane's Selector.
func (o *Orchestrator) HandleMouseDrag(sess *PaneSession, row, col int, side selection.Side, px, py float64) {
	if sess.Mouse == nil {
		return
	}
	sess.Mouse.Drag(row, col, side, px, py)
	o.syncSelection(sess)
}

// HandleMouseRelease forwards a mouse-up to the pane's Selector.
func (o *Orchestrator) HandleMouseRelease(sess *PaneSession) {
	if sess.Mouse == nil {
		return
	}
	sess.Mouse.Release()
	o.syncSelection(sess)
}

// syncSelection mirrors the Selector's selection rectangle onto the
// Terminal, or clears it once the Selector is no longer active.
func (o *Orchestrator) syncSelection(sess *PaneSession) {
	if !sess.Mouse.Active {
		sess.Terminal.ClearSelection()
		return
	}
	sel := sess.Mouse.Selection
	sess.Terminal.SetSelection(
		term.Position{Row: sel.Start.Row, Col: sel.Start.Col},
		term.Position{Row: sel.End.Row, Col: sel.End.Col},
	)
}

// toggleViMode flips a pane in or out of vi-mode, lazily creating its
// vimode.State positioned at the terminal's current cursor.
func (o *Orchestrator) toggleViMode(sess *PaneSession) {
	if sess.Vi == nil {
		row, col := sess.Terminal.CursorPos()
		sess.Vi = vimode.New(vimode.Point{Row: row, Col: col})
	}
	sess.ViActive = !sess.ViActive
}

// comboBase extracts the bare key name NormalizeCombo expects: the typed
// rune if printable, else the Describe-style key name.
func comboBase(e input.Event) string {
	if e.Rune != 0 {
		return string(e.Rune)
	}
	return input.Describe(e)
}

// AttachPane registers a freshly spawned PaneSession for id, assumed to
// already own a live PTY and Terminal.
func (o *Orchestrator) AttachPane(id pane.Id, sess *PaneSession) {
	sess.ID = id
	o.Sessions[id] = sess
}

// DetachPane closes a pane's PTY and drops its tracked state and damage
// entry, called once the pane has been removed from its tree.
func (o *Orchestrator) DetachPane(id pane.Id) {
	if sess, ok := o.Sessions[id]; ok {
		if sess.PTY != nil {
			sess.PTY.Close()
		}
		delete(o.Sessions, id)
	}
	o.Damage.Remove(id)
}

// DrainPTYOutput performs step 2 of the frame tick for one pane: drains
// whatever is currently buffered on its PTY output channel into its
// Terminal via Write, non-blocking (returns once the channel has no more
// ready chunks).
func (o *Orchestrator) DrainPTYOutput(sess *PaneSession) (ended bool) {
	if sess.PTY == nil {
		return false
	}
	for {
		select {
		case chunk, ok := <-sess.PTY.Output:
			if !ok {
				return true
			}
			if chunk.Err != nil {
				return true
			}
			if len(chunk.Data) > 0 {
				sess.Terminal.Write(chunk.Data)
			}
		default:
			return false
		}
	}
}

// AdvanceScroll performs step 3 for one pane.
func (o *Orchestrator) AdvanceScroll(sess *PaneSession, dt float64) {
	sess.Scroll.Tick(dt)
}

// ExtractViewport performs step 4's cell extraction: reads the visible
// cols x rows window from the Terminal (applying the pane's scroll
// offset is the caller's responsibility via ScrollbackLine), and applies
// the selection and vi-cursor flags before handing cells to the
// renderer, per the damage-caching ordering requirement (overlay
// mutations must happen before diffing).
func (o *Orchestrator) ExtractViewport(sess *PaneSession, sel *selection.Normalized, hasSel bool) []render.ViewportCell {
	rows := sess.Terminal.Rows()
	cols := sess.Terminal.Cols()
	cells := make([]render.ViewportCell, 0, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := sess.Terminal.Cell(r, c)
			if cell == nil {
				cells = append(cells, render.ViewportCell{Char: ' '})
				continue
			}

			if hasSel && sel.Contains(r, c) {
				cell.SetFlag(term.CellFlagSelected)
			}
			if sess.ViActive && sess.Vi != nil && r == sess.Vi.Cursor.Row && c == sess.Vi.Cursor.Col {
				cell.SetFlag(term.CellFlagViCursor)
			}

			fg, bg := term.ResolveCellColors(cell)
			cells = append(cells, render.ViewportCell{
				Char:  cell.Char,
				Fg:    fg,
				Bg:    bg,
				Bold:  cell.HasFlag(term.CellFlagBold),
				Flags: uint32(cell.Flags),
			})
		}
	}
	return cells
}

// RowsAsRunes converts a Terminal's current grid into the [][]rune shape
// DiffGridRows/State.Diff expect, for damage comparison against the
// previous frame.
func RowsAsRunes(t *term.Terminal) [][]rune {
	rows := t.Rows()
	cols := t.Cols()
	out := make([][]rune, rows)
	for r := 0; r < rows; r++ {
		line := make([]rune, cols)
		for c := 0; c < cols; c++ {
			cell := t.Cell(r, c)
			if cell == nil {
				line[c] = ' '
			} else {
				line[c] = cell.Char
			}
		}
		out[r] = line
	}
	return out
}

// Tick runs one full frame: drains PTY output for every pane, advances
// scroll, extracts each pane's viewport (with selection/vi-cursor overlay
// flags already applied, per the requirement that overlay mutations
// happen before the damage diff so an overlay-only change still marks its
// row dirty), diffs full cell state against the previous frame, and
// builds the render-ready instance buffer plus cursor overlay. Input
// draining and final presentation (steps 1 and 5) are owned by the
// window-integration layer, which calls this between its own event-queue
// drain and its draw calls.
func (o *Orchestrator) Tick(dt float64) map[pane.Id]FrameResult {
	start := time.Now()

	for _, sess := range o.Sessions {
		o.DrainPTYOutput(sess)
		o.AdvanceScroll(sess, dt)
	}
	diffStart := time.Now()

	results := make(map[pane.Id]FrameResult, len(o.Sessions))
	for id, sess := range o.Sessions {
		sel, hasSel := paneSelection(sess)
		cells := o.ExtractViewport(sess, sel, hasSel)

		state := o.Damage.Get(id)
		dirty := state.DiffCells(cells, sess.Terminal.Cols())

		instances := o.RenderInstances(sess, cells)
		instances = append(instances, o.cursorInstance(sess, start)...)

		offsets := make([]int, 0, len(dirty))
		for r, d := range dirty {
			if d {
				offsets = append(offsets, render.DirtyRowOffset(r, sess.Terminal.Cols(), render.InstanceWireSize))
			}
		}

		results[id] = FrameResult{Instances: instances, DirtyRows: dirty, DirtyByteOffsets: offsets}
	}
	diffTime := time.Since(diffStart)

	totalTime := time.Since(start)
	o.Metrics.Record(damage.FrameTiming{
		DiffTime:   diffTime,
		UpdateTime: totalTime - diffTime,
		TotalTime:  totalTime,
	})

	return results
}

// cursorInstance advances a pane's blink phase and returns its cursor
// overlay instance (zero or one CellInstance), lazily creating the
// overlay on first use from the Terminal's configured cursor style.
func (o *Orchestrator) cursorInstance(sess *PaneSession, now time.Time) []render.CellInstance {
	style := sess.Terminal.CursorStyle()
	if sess.Cursor == nil {
		sess.Cursor = render.NewCursorOverlay(style.Blinks())
	}
	sess.Cursor.Blink = style.Blinks()
	sess.Cursor.Tick(now)

	row, col := sess.Terminal.CursorPos()
	fg, bg := term.DefaultPalette[7], term.DefaultPalette[0]
	inst, ok := sess.Cursor.Instance(col, row, render.CursorShape(style.ShapeIndex()), true, fg, bg)
	if !ok {
		return nil
	}
	return []render.CellInstance{inst}
}
