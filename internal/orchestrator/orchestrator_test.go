package orchestrator

import (
	"testing"
	"time"

	term "github.com/veloterm/veloterm"
	"github.com/veloterm/veloterm/internal/atlas"
	"github.com/veloterm/veloterm/internal/clipboard"
	"github.com/veloterm/veloterm/internal/input"
	"github.com/veloterm/veloterm/internal/pane"
	"github.com/veloterm/veloterm/internal/ptysession"
	"github.com/veloterm/veloterm/internal/scrollstate"
	"github.com/veloterm/veloterm/internal/selection"
	"github.com/veloterm/veloterm/internal/vimode"
)

func TestDrainPTYOutputFeedsTerminal(t *testing.T) {
	pty, err := ptysession.Start("/bin/sh", []string{"-c", "printf hi; exit"}, "", 80, 24, nil)
	if err != nil {
		t.Fatalf("ptysession.Start() error = %v", err)
	}
	defer pty.Close()

	o := New(nil)
	sess := &PaneSession{
		Terminal: term.New(term.WithSize(24, 80)),
		PTY:      pty,
		Scroll:   scrollstate.New(),
	}
	o.AttachPane(pane.Id(1), sess)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if o.DrainPTYOutput(sess) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if sess.Terminal.Cell(0, 0) == nil || sess.Terminal.Cell(0, 0).Char != 'h' {
		t.Errorf("Terminal did not receive PTY output; cell(0,0) = %+v", sess.Terminal.Cell(0, 0))
	}
}

func TestRowsAsRunesMatchesDimensions(t *testing.T) {
	tm := term.New(term.WithSize(3, 10))
	rows := RowsAsRunes(tm)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for _, r := range rows {
		if len(r) != 10 {
			t.Errorf("row width = %d, want 10", len(r))
		}
	}
}

func TestDetachPaneClosesAndRemoves(t *testing.T) {
	pty, err := ptysession.Start("/bin/sh", nil, "", 80, 24, nil)
	if err != nil {
		t.Fatalf("ptysession.Start() error = %v", err)
	}

	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80)), PTY: pty, Scroll: scrollstate.New()}
	o.AttachPane(pane.Id(1), sess)
	o.DetachPane(pane.Id(1))

	if _, ok := o.Sessions[pane.Id(1)]; ok {
		t.Error("session should be removed after DetachPane")
	}
}

type fakeRasterizer struct{}

func (fakeRasterizer) Advance(rune, float64) (float64, error) { return 8, nil }
func (fakeRasterizer) Rasterize(r rune, pixelSize float64) (int, int, int, []byte, error) {
	if r == ' ' {
		return 0, 0, 1, nil, nil
	}
	return 4, 8, 1, make([]byte, 32), nil
}

func TestBuildAtlasAndRenderInstances(t *testing.T) {
	o := New(nil)
	if err := o.BuildAtlas(fakeRasterizer{}); err != nil {
		t.Fatalf("BuildAtlas() error = %v", err)
	}
	sess := &PaneSession{Terminal: term.New(term.WithSize(2, 2))}
	cells := o.ExtractViewport(sess, nil, false)
	instances := o.RenderInstances(sess, cells)
	if len(instances) != 4 {
		t.Fatalf("len(instances) = %d, want 4", len(instances))
	}
}

func TestHandleKeyBindingTakesPrecedenceOverPTY(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80))}
	action := o.HandleKey(sess, input.Event{Rune: 'o', Mods: input.ModCtrl | input.ModShift})
	if action != "split-horizontal" {
		t.Errorf("HandleKey() = %q, want split-horizontal", action)
	}
}

func TestHandleKeyTogglesViModeAndConsumesKeys(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80))}

	o.HandleKey(sess, input.Event{Rune: 'v', Mods: input.ModCtrl | input.ModShift})
	if !sess.ViActive {
		t.Fatal("expected vi-mode to be active after toggle")
	}

	o.HandleKey(sess, input.Event{Rune: 'h'})
	if !sess.ViActive {
		t.Error("plain motion key should not exit vi-mode")
	}

	o.HandleKey(sess, input.Event{Rune: 0x1B})
	if sess.ViActive {
		t.Error("Esc from Normal should exit vi-mode")
	}
}

func TestHandleMousePressActivatesSelectionOnTerminal(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80))}

	now := time.Unix(0, 0)
	o.HandleMousePress(sess, 1, 1, selection.Left, 10, 10, now)
	o.HandleMousePress(sess, 1, 1, selection.Left, 10, 10, now)
	if !sess.Terminal.HasSelection() {
		t.Error("expected double-click to produce an active selection on the Terminal")
	}

	o.HandleMouseRelease(sess)
	if !sess.Terminal.HasSelection() {
		t.Error("releasing from Active should keep the selection")
	}
}

func TestHandleKeyViMotionMovesCursor(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80))}
	sess.Terminal.Write([]byte("hello world"))

	o.toggleViMode(sess)
	sess.Vi.Cursor = vimode.Point{Row: 0, Col: 0}

	o.HandleKey(sess, input.Event{Rune: 'w'})
	if sess.Vi.Cursor.Col != 6 {
		t.Errorf("Cursor.Col = %d, want 6 after 'w' over \"hello world\"", sess.Vi.Cursor.Col)
	}
}

func TestHandleKeyYankUsesViSelectionNotMouse(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(24, 80))}
	sess.Terminal.Write([]byte("abcdef"))

	// An unrelated mouse selection should be ignored by vi-mode yank.
	o.HandleMousePress(sess, 0, 0, selection.Left, 0, 0, time.Unix(0, 0))

	o.toggleViMode(sess)
	sess.Vi.Cursor = vimode.Point{Row: 0, Col: 0}
	o.HandleKey(sess, input.Event{Rune: 'v'})
	sess.Vi.Cursor = vimode.Point{Row: 0, Col: 2}

	var captured string
	o.Clipboard = fakeClipboardProvider{set: func(s string) { captured = s }}
	o.HandleKey(sess, input.Event{Rune: 'y'})

	if captured != "abc" {
		t.Errorf("captured = %q, want \"abc\" (vi visual range, not the mouse selection)", captured)
	}
}

func TestHandleKeySearchSlashMovesCursorToMatch(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(2, 20))}
	sess.Terminal.Write([]byte("needle here\r\nanother needle"))

	o.toggleViMode(sess)
	sess.Vi.Cursor = vimode.Point{Row: 0, Col: 0}

	for _, r := range "/needle" {
		o.HandleKey(sess, input.Event{Rune: r})
	}
	o.HandleKey(sess, input.Event{Rune: '\r'})

	if sess.Vi.Cursor.Row != 0 || sess.Vi.Cursor.Col != 0 {
		t.Errorf("Cursor = %+v, want first match at row 0 col 0", sess.Vi.Cursor)
	}

	o.HandleKey(sess, input.Event{Rune: 'n'})
	if sess.Vi.Cursor.Row != 1 {
		t.Errorf("Cursor.Row after 'n' = %d, want 1 (second match)", sess.Vi.Cursor.Row)
	}
}

func TestTickReportsDirtyRowsOnlyForChangedPanes(t *testing.T) {
	o := New(nil)
	sess := &PaneSession{Terminal: term.New(term.WithSize(3, 10)), Scroll: scrollstate.New()}
	o.AttachPane(pane.Id(1), sess)

	first := o.Tick(0.016)
	if len(first[pane.Id(1)].DirtyRows) != 3 {
		t.Fatalf("len(DirtyRows) = %d, want 3", len(first[pane.Id(1)].DirtyRows))
	}
	for i, d := range first[pane.Id(1)].DirtyRows {
		if !d {
			t.Errorf("row %d dirty = false on first tick, want true (no prior frame)", i)
		}
	}

	second := o.Tick(0.016)
	for i, d := range second[pane.Id(1)].DirtyRows {
		if d {
			t.Errorf("row %d dirty = true on second tick with no terminal change, want false", i)
		}
	}

	sess.Terminal.Write([]byte("hi"))
	third := o.Tick(0.016)
	if !third[pane.Id(1)].DirtyRows[0] {
		t.Error("row 0 should be dirty after writing to it")
	}
	if third[pane.Id(1)].DirtyRows[1] {
		t.Error("row 1 should stay clean, nothing written there")
	}
}

func TestNewPaneTerminalRoutesOSC52ThroughClipboard(t *testing.T) {
	var stored string
	o := New(nil)
	o.Clipboard = fakeClipboardProvider{
		set: func(s string) { stored = s },
		get: func() (string, bool) { return "from-clipboard", true },
	}

	tm := o.NewPaneTerminal(24, 80)
	bridge := osc52Bridge{clip: o.Clipboard}
	bridge.Write('c', []byte("copied"))
	if stored != "copied" {
		t.Errorf("stored = %q, want \"copied\"", stored)
	}
	if got := bridge.Read('c'); got != "from-clipboard" {
		t.Errorf("Read() = %q, want \"from-clipboard\"", got)
	}
	_ = tm
}

type fakeClipboardProvider struct {
	set func(string)
	get func() (string, bool)
}

func (f fakeClipboardProvider) SetText(s string) error {
	if f.set != nil {
		f.set(s)
	}
	return nil
}

func (f fakeClipboardProvider) GetText() (string, bool) {
	if f.get != nil {
		return f.get()
	}
	return "", false
}

var _ clipboard.Provider = fakeClipboardProvider{}
