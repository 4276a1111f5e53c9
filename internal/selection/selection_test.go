package selection

import "testing"

func TestNormalizeSwapsReversedEndpoints(t *testing.T) {
	s := Selection{
		Start: Point{Row: 2, Col: 5},
		End:   Point{Row: 0, Col: 0},
		Kind:  Range,
	}
	n := s.Normalize()
	// Both sides default to Left, so the last column retreats by one.
	if n.First != (Point{Row: 0, Col: 0}) || n.Last != (Point{Row: 2, Col: 4}) {
		t.Fatalf("Normalize() = %+v, want First=(0,0) Last=(2,4)", n)
	}
}

func TestNormalizeSideAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		start     Point
		end       Point
		startSide Side
		endSide   Side
		wantFirst Point
		wantLast  Point
	}{
		{"right start advances", Point{0, 0}, Point{0, 5}, Right, Left, Point{0, 1}, Point{0, 4}},
		{"left sides unchanged", Point{0, 0}, Point{0, 5}, Left, Right, Point{0, 0}, Point{0, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Selection{Start: tt.start, End: tt.end, Kind: Range, StartSide: tt.startSide, EndSide: tt.endSide}
			n := s.Normalize()
			if n.First != tt.wantFirst || n.Last != tt.wantLast {
				t.Errorf("Normalize() = First=%+v Last=%+v, want First=%+v Last=%+v", n.First, n.Last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestNormalizeEmptySingleRow(t *testing.T) {
	s := Selection{
		Start:     Point{0, 2},
		End:       Point{0, 2},
		Kind:      Range,
		StartSide: Right,
		EndSide:   Left,
	}
	n := s.Normalize()
	if n.Last.Col >= n.First.Col {
		t.Fatalf("expected zero-length selection, got First=%d Last=%d", n.First.Col, n.Last.Col)
	}
}

func TestContainsRangeMultiRow(t *testing.T) {
	n := Normalized{First: Point{0, 5}, Last: Point{2, 3}, Kind: Range}

	tests := []struct {
		row, col int
		want     bool
	}{
		{0, 4, false},
		{0, 5, true},
		{0, 100, true},
		{1, 0, true},
		{2, 3, true},
		{2, 4, false},
		{3, 0, false},
	}
	for _, tt := range tests {
		if got := n.Contains(tt.row, tt.col); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestContainsVisualBlock(t *testing.T) {
	n := Normalized{First: Point{0, 5}, Last: Point{2, 2}, Kind: VisualBlock}
	if !n.Contains(1, 3) {
		t.Error("expected (1,3) inside block")
	}
	if n.Contains(1, 6) {
		t.Error("expected (1,6) outside block")
	}
}

func TestWordBoundary(t *testing.T) {
	line := []rune("hello world")
	start, end := WordBoundary(line, 2)
	if start != 0 || end != 4 {
		t.Errorf("WordBoundary(2) = (%d,%d), want (0,4)", start, end)
	}

	start, end = WordBoundary(line, 5)
	if start != 5 || end != 5 {
		t.Errorf("WordBoundary(5) on space = (%d,%d), want (5,5)", start, end)
	}
}

type fakeSource map[int]string

func (f fakeSource) Line(absRow int) ([]rune, bool) {
	s, ok := f[absRow]
	if !ok {
		return nil, false
	}
	return []rune(s), true
}

func TestSelectedTextMultiRowTrimsAndJoins(t *testing.T) {
	src := fakeSource{
		0: "hello world   ",
		1: "second line   ",
	}
	n := Selection{
		Start:     Point{Row: 0, Col: 0},
		End:       Point{Row: 1, Col: 5},
		Kind:      Range,
		StartSide: Left,
		EndSide:   Right,
	}.Normalize()

	got := n.SelectedText(src)
	want := "hello world\nsecond line"
	if got != want {
		t.Errorf("SelectedText() = %q, want %q", got, want)
	}
}

func TestSelectedTextSkipsRowsOutsideViewport(t *testing.T) {
	src := fakeSource{0: "abc"}
	n := Selection{Start: Point{0, 0}, End: Point{2, 0}, Kind: Line}.Normalize()
	got := n.SelectedText(src)
	if got != "abc" {
		t.Errorf("SelectedText() = %q, want %q", got, "abc")
	}
}

func TestHighlightRangeClampsMiddleRows(t *testing.T) {
	n := Normalized{First: Point{0, 2}, Last: Point{2, 7}, Kind: Range}

	start, end, ok := n.HighlightRange(0, 3)
	if !ok || start != 2 || end != 3 {
		t.Errorf("start row = (%d,%d,%v), want (2,3,true)", start, end, ok)
	}

	start, end, ok = n.HighlightRange(1, 4)
	if !ok || start != 0 || end != 4 {
		t.Errorf("middle row = (%d,%d,%v), want (0,4,true)", start, end, ok)
	}

	start, end, ok = n.HighlightRange(2, 1)
	if !ok || start != 0 || end != 7 {
		t.Errorf("end row = (%d,%d,%v), want (0,7,true) [unclamped]", start, end, ok)
	}
}
