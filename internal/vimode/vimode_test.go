package vimode

import "testing"

func TestZeroWithoutPendingCountIsLineStart(t *testing.T) {
	s := New(Point{})
	a := s.Key('0', false, nil, "")
	if a.Motion != MotionLineStart {
		t.Errorf("Motion = %v, want MotionLineStart", a.Motion)
	}
}

func TestZeroAfterDigitIsCountDigit(t *testing.T) {
	s := New(Point{})
	s.Key('1', false, nil, "")
	s.Key('0', false, nil, "") // accumulates to 10
	a := s.Key('j', false, nil, "")
	if a.Motion != MotionDown || a.Count != 10 {
		t.Errorf("Motion=%v Count=%d, want Down/10", a.Motion, a.Count)
	}
}

func TestCountAccumulatesAndResetsAfterMotion(t *testing.T) {
	s := New(Point{})
	s.Key('4', false, nil, "")
	s.Key('2', false, nil, "")
	a := s.Key('l', false, nil, "")
	if a.Count != 42 {
		t.Errorf("Count = %d, want 42", a.Count)
	}
	a2 := s.Key('l', false, nil, "")
	if a2.Count != 1 {
		t.Errorf("Count after reset = %d, want 1", a2.Count)
	}
}

func TestCountClampsToMax(t *testing.T) {
	s := New(Point{})
	for i := 0; i < 6; i++ {
		s.Key('9', false, nil, "")
	}
	a := s.Key('j', false, nil, "")
	if a.Count != MaxCount {
		t.Errorf("Count = %d, want clamped to %d", a.Count, MaxCount)
	}
}

func TestGGEntersBufferTop(t *testing.T) {
	s := New(Point{})
	first := s.Key('g', false, nil, "")
	if first.Motion != MotionNone {
		t.Errorf("first 'g' produced a motion, want pending")
	}
	second := s.Key('g', false, nil, "")
	if second.Motion != MotionBufferTop {
		t.Errorf("Motion = %v, want MotionBufferTop", second.Motion)
	}
}

func TestGThenOtherKeyCancelsPrefix(t *testing.T) {
	s := New(Point{})
	s.Key('g', false, nil, "")
	a := s.Key('x', false, nil, "")
	if a.Motion != MotionNone {
		t.Errorf("Motion = %v, want none (cancelled prefix)", a.Motion)
	}
}

func TestVEntersAndExitsVisual(t *testing.T) {
	s := New(Point{})
	a := s.Key('v', false, nil, "")
	if s.Mode != Visual || !a.EnteredVi {
		t.Fatalf("Mode = %v, want Visual", s.Mode)
	}
	a2 := s.Key('v', false, nil, "")
	if s.Mode != Normal || !a2.ModeChange {
		t.Errorf("Mode = %v, want Normal after re-pressing v", s.Mode)
	}
}

func TestEscExitsVisualThenExitsViModeFromNormal(t *testing.T) {
	s := New(Point{})
	s.Key('v', false, nil, "")
	a := s.Key(0x1B, false, nil, "")
	if s.Mode != Normal || a.ExitedVi {
		t.Errorf("first Esc should only leave Visual, not exit vi-mode")
	}
	a2 := s.Key(0x1B, false, nil, "")
	if !a2.ExitedVi {
		t.Errorf("second Esc from Normal should exit vi-mode")
	}
}

func TestYYanksAndReturnsToNormal(t *testing.T) {
	s := New(Point{})
	s.Key('v', false, nil, "")

	var captured string
	clip := fakeClipboard{set: func(s string) { captured = s }}
	a := s.Key('y', false, clip, "hello")
	if !a.Yanked || s.Mode != Normal {
		t.Errorf("after y: Yanked=%v Mode=%v, want true/Normal", a.Yanked, s.Mode)
	}
	if captured != "hello" {
		t.Errorf("captured = %q, want hello", captured)
	}
}

func TestUnknownKeyProducesNoAction(t *testing.T) {
	s := New(Point{})
	a := s.Key('z', false, nil, "")
	if a.Motion != MotionNone || a.ModeChange || a.Yanked {
		t.Errorf("unknown key produced %+v, want zero Action", a)
	}
}

func TestSlashCollectsQueryUntilEnter(t *testing.T) {
	s := New(Point{})
	s.Key('/', false, nil, "")
	s.Key('f', false, nil, "")
	s.Key('o', false, nil, "")
	s.Key('o', false, nil, "")
	a := s.Key('\r', false, nil, "")
	if !a.Searched || a.Query != "foo" {
		t.Errorf("Searched=%v Query=%q, want true/\"foo\"", a.Searched, a.Query)
	}
}

func TestSlashCancelledByEsc(t *testing.T) {
	s := New(Point{})
	s.Key('/', false, nil, "")
	s.Key('x', false, nil, "")
	a := s.Key(0x1B, false, nil, "")
	if a.Searched || a.ExitedVi {
		t.Errorf("Esc during query entry should just cancel, got %+v", a)
	}
	// 'n' after cancel is a normal-mode key again, not query input.
	a2 := s.Key('n', false, nil, "")
	if !a2.SearchNext {
		t.Errorf("expected 'n' to resume normal-mode dispatch after cancelled query")
	}
}

func TestNAndShiftNTriggerSearchNav(t *testing.T) {
	s := New(Point{})
	if a := s.Key('n', false, nil, ""); !a.SearchNext {
		t.Errorf("expected SearchNext from 'n'")
	}
	if a := s.Key('N', false, nil, ""); !a.SearchPrev {
		t.Errorf("expected SearchPrev from 'N'")
	}
}

type fakeLineSource struct {
	lines map[int][]rune
}

func (f fakeLineSource) Line(row int) []rune { return f.lines[row] }

func TestMoveWordForwardSkipsToNextWord(t *testing.T) {
	src := fakeLineSource{lines: map[int][]rune{0: []rune("hello world")}}
	p := Move(Point{Row: 0, Col: 0}, MotionWordForward, 1, 11, 1, src)
	if p.Col != 6 {
		t.Errorf("Col = %d, want 6 (start of \"world\")", p.Col)
	}
}

func TestMoveLineEndGoesToRightmostNonSpace(t *testing.T) {
	src := fakeLineSource{lines: map[int][]rune{0: []rune("hi   ")}}
	p := Move(Point{Row: 0, Col: 0}, MotionLineEnd, 1, 5, 1, src)
	if p.Col != 1 {
		t.Errorf("Col = %d, want 1 (last non-space)", p.Col)
	}
}

func TestMoveDownClampsToLastRow(t *testing.T) {
	src := fakeLineSource{}
	p := Move(Point{Row: 2, Col: 0}, MotionDown, 5, 3, 80, src)
	if p.Row != 2 {
		t.Errorf("Row = %d, want clamped to 2", p.Row)
	}
}

type fakeClipboard struct {
	set func(string)
}

func (f fakeClipboard) SetText(s string) error {
	f.set(s)
	return nil
}
func (f fakeClipboard) GetText() (string, bool) { return "", false }
