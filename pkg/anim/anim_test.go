package anim

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestEaseInOutQuadKnownPoints(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutQuad(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EaseInOutQuad(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEaseInOutQuadIsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 1).Draw(t, "a")
		b := rapid.Float64Range(0, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		if EaseInOutQuad(a) > EaseInOutQuad(b)+1e-12 {
			t.Fatalf("ease(%v)=%v > ease(%v)=%v", a, EaseInOutQuad(a), b, EaseInOutQuad(b))
		}
	})
}

func TestNewScrollClampsAtTop(t *testing.T) {
	s := NewScroll(5, 0, 1, time.Time{}, time.Second)
	if s.To != 0 {
		t.Fatalf("To = %d, want 0", s.To)
	}
	s = NewScroll(0, 20, 1, time.Time{}, time.Second)
	if s.To != 19 {
		t.Fatalf("To = %d, want 19", s.To)
	}
}

func TestScrollEndpoints(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewScroll(0, 41, 1, start, time.Second)

	if got := s.At(start); got != 0 {
		t.Fatalf("At(start) = %d", got)
	}
	if got := s.At(start.Add(500 * time.Millisecond)); got != 20 {
		t.Fatalf("At(mid) = %d, want 20", got)
	}
	if s.Done(start.Add(999 * time.Millisecond)) {
		t.Fatal("scroll should still be running")
	}
	end := start.Add(time.Second)
	if !s.Done(end) || s.At(end) != 40 {
		t.Fatalf("At(end) = %d, done = %v", s.At(end), s.Done(end))
	}
	if s.At(end.Add(time.Hour)) != 40 {
		t.Fatal("scroll overshot after finishing")
	}
}

func TestZeroDurationScrollJumps(t *testing.T) {
	s := NewScroll(3, 10, 0, time.Now(), 0)
	if !s.Done(s.Start) || s.At(s.Start) != 10 {
		t.Fatal("zero duration should finish immediately")
	}
}

func TestScrollStaysBetweenEndpoints(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := rapid.IntRange(0, 500).Draw(t, "from")
		target := rapid.IntRange(0, 500).Draw(t, "target")
		offset := rapid.IntRange(0, 5).Draw(t, "offset")
		elapsed := rapid.Int64Range(-100, 2000).Draw(t, "elapsedMs")

		start := time.Unix(100, 0)
		s := NewScroll(from, target, offset, start, time.Second)
		got := s.At(start.Add(time.Duration(elapsed) * time.Millisecond))

		lo, hi := min(s.From, s.To), max(s.From, s.To)
		if got < lo || got > hi {
			t.Fatalf("At = %d outside [%d,%d]", got, lo, hi)
		}
	})
}
