package search

import "testing"

func TestSearchFindsNonOverlappingMatches(t *testing.T) {
	var s State
	s.SetQuery("aa")
	s.Search([]LineText{
		{Row: 0, Text: "aa bb aa"},
		{Row: 1, Text: "ccc"},
	})

	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}
	want := []Match{{0, 0, 2}, {0, 6, 8}}
	for i, m := range want {
		if s.Matches()[i] != m {
			t.Errorf("Matches()[%d] = %+v, want %+v", i, s.Matches()[i], m)
		}
	}
}

func TestNextWrapsToOriginalIndex(t *testing.T) {
	var s State
	s.SetQuery("aa")
	s.Search([]LineText{{Row: 0, Text: "aa bb aa"}})

	start := s.Index()
	for i := 0; i < s.Count(); i++ {
		s.Next()
	}
	if s.Index() != start {
		t.Errorf("after Count() Next() calls, Index() = %d, want %d", s.Index(), start)
	}
}

func TestPrevWrapsToLast(t *testing.T) {
	var s State
	s.SetQuery("a")
	s.Search([]LineText{{Row: 0, Text: "a a a"}})

	m, ok := s.Prev()
	if !ok {
		t.Fatal("Prev() ok = false")
	}
	if s.Index() != s.Count()-1 {
		t.Errorf("Index() = %d, want %d", s.Index(), s.Count()-1)
	}
	_ = m
}

func TestEmptyQueryYieldsNoMatches(t *testing.T) {
	var s State
	s.SetQuery("")
	s.Search([]LineText{{Row: 0, Text: "anything"}})
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestCompileErrorRecordsErrAndEmptiesMatches(t *testing.T) {
	var s State
	s.SetQuery("(unterminated")
	if s.Err() == nil {
		t.Fatal("expected compile error")
	}
	s.Search([]LineText{{Row: 0, Text: "anything"}})
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestScrollToMatchVisibleReturnsNoChange(t *testing.T) {
	_, changed := ScrollToMatch(5, 24, 0, 1000)
	if changed {
		t.Error("expected no change for visible match")
	}
}

func TestScrollToMatchOffscreenClamps(t *testing.T) {
	offset, changed := ScrollToMatch(-500, 24, 0, 200)
	if !changed {
		t.Fatal("expected change for offscreen match")
	}
	if offset != 200 {
		t.Errorf("offset = %d, want 200 (clamped to maxOffset)", offset)
	}
}
