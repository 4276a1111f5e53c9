package pane

import (
	"testing"

	"github.com/veloterm/veloterm/internal/geometry"
)

func TestLayoutSingleLeafFillsBound(t *testing.T) {
	ResetIDsForTest()
	id := NewID()
	tree := NewTree(id)
	bound := geometry.Rect{X: 0, Y: 0, W: 1280, H: 720}

	rects := tree.Layout(bound)
	if len(rects) != 1 || rects[0].Rect != bound {
		t.Fatalf("Layout() = %+v, want single rect %+v", rects, bound)
	}
}

func TestLayoutNestedSplits(t *testing.T) {
	ResetIDsForTest()
	id := NewID()
	tree := NewTree(id)
	bound := geometry.Rect{X: 0, Y: 0, W: 1280, H: 720}

	rightID := tree.SplitFocused(Vertical)
	tree.Focused = rightID
	tree.SplitFocused(Horizontal)

	rects := tree.Layout(bound)
	if len(rects) != 3 {
		t.Fatalf("len(rects) = %d, want 3", len(rects))
	}

	want := []geometry.Rect{
		{X: 0, Y: 0, W: 640, H: 720},
		{X: 640, Y: 0, W: 640, H: 360},
		{X: 640, Y: 360, W: 640, H: 360},
	}
	for i, r := range rects {
		if r.Rect != want[i] {
			t.Errorf("rects[%d] = %+v, want %+v", i, r.Rect, want[i])
		}
	}
}

func TestCloseFocusedSingleLeafNoOp(t *testing.T) {
	ResetIDsForTest()
	tree := NewTree(NewID())
	if tree.CloseFocused() {
		t.Error("CloseFocused() on single leaf should return false")
	}
}

func TestCloseFocusedRemovesLeafAndRefocuses(t *testing.T) {
	ResetIDsForTest()
	first := NewID()
	tree := NewTree(first)
	second := tree.SplitFocused(Vertical)
	tree.Focused = second

	if !tree.CloseFocused() {
		t.Fatal("CloseFocused() = false, want true")
	}
	if !tree.Root.IsLeaf() || *tree.Root.Leaf != first {
		t.Errorf("Root after close = %+v, want leaf %d", tree.Root, first)
	}
	if tree.Focused != first {
		t.Errorf("Focused = %d, want %d", tree.Focused, first)
	}
}

func TestZoomToggleSinglePaneNoOp(t *testing.T) {
	ResetIDsForTest()
	tree := NewTree(NewID())
	tree.ZoomToggle()
	if tree.Zoomed != nil {
		t.Error("ZoomToggle() on single pane should remain unzoomed")
	}
}

func TestZoomTogglePicksFocusedPane(t *testing.T) {
	ResetIDsForTest()
	tree := NewTree(NewID())
	second := tree.SplitFocused(Vertical)
	tree.Focused = second

	tree.ZoomToggle()
	if tree.Zoomed == nil || *tree.Zoomed != second {
		t.Fatalf("Zoomed = %v, want %d", tree.Zoomed, second)
	}

	bound := geometry.Rect{X: 0, Y: 0, W: 1280, H: 720}
	rects := tree.Layout(bound)
	if len(rects) != 1 || rects[0].Rect != bound {
		t.Errorf("zoomed Layout() = %+v, want single full-bound rect", rects)
	}

	tree.ZoomToggle()
	if tree.Zoomed != nil {
		t.Error("second ZoomToggle() should exit zoom")
	}
}

func TestSplitRatioClampedWhenTooSmall(t *testing.T) {
	got := clampRatio(0.5, 50, MinPaneSize)
	if got != 0.5 {
		t.Errorf("clampRatio with total < 2*min = %v, want 0.5", got)
	}

	got = clampRatio(0.01, 1000, MinPaneSize)
	want := MinPaneSize / 1000.0
	if got != want {
		t.Errorf("clampRatio(0.01, 1000, %d) = %v, want %v", MinPaneSize, got, want)
	}
}
