package scrollstate

import (
	"testing"
	"time"
)

func TestTickConvergesAndStopsAnimating(t *testing.T) {
	s := New()
	s.TargetOffset = 3

	for i := 0; i < 60; i++ {
		s.Tick(1.0 / 60.0)
	}

	if s.CurrentOffset < 2.95 {
		t.Errorf("CurrentOffset = %v, want >= 2.95 after ~1s of ticks", s.CurrentOffset)
	}

	for i := 0; i < 60 && s.IsAnimating(); i++ {
		s.Tick(1.0 / 60.0)
	}
	if s.IsAnimating() {
		t.Error("IsAnimating() still true after settling period")
	}
	if s.CurrentOffset != 3 {
		t.Errorf("CurrentOffset = %v, want snapped to 3", s.CurrentOffset)
	}
}

func TestPixelDeltaAppliesImmediately(t *testing.T) {
	s := New()
	now := time.Now()
	s.PixelDelta(20, 20, 1000, now) // exactly one line's worth

	if s.TargetOffset != 1 || s.CurrentOffset != 1 {
		t.Errorf("after whole-line pixel delta: target=%d current=%v, want both 1", s.TargetOffset, s.CurrentOffset)
	}
}

func TestLineDeltaClampsToHistory(t *testing.T) {
	s := New()
	now := time.Now()
	s.LineDelta(1000, 50, now)
	if s.TargetOffset != 50 {
		t.Errorf("TargetOffset = %d, want clamped to 50", s.TargetOffset)
	}
}

func TestSnapToBottomResets(t *testing.T) {
	s := New()
	s.TargetOffset = 10
	s.CurrentOffset = 7.5
	s.PixelAccumulator = 0.3
	s.SnapToBottom()

	if s.TargetOffset != 0 || s.CurrentOffset != 0 || s.PixelAccumulator != 0 {
		t.Errorf("SnapToBottom() left state %+v", s)
	}
}

func TestScrollbarAlphaFadesOverTime(t *testing.T) {
	s := New()
	base := time.Now()
	s.LineDelta(1, 100, base)

	if a := s.ScrollbarAlpha(base); a != s.MaxAlpha {
		t.Errorf("alpha at t=0 = %v, want MaxAlpha", a)
	}
	if a := s.ScrollbarAlpha(base.Add(2 * time.Second)); a != 0 {
		t.Errorf("alpha well after fade = %v, want 0", a)
	}
}
