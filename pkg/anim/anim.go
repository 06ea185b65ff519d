// Package anim provides the easing and scroll interpolation used by the
// takeaways reveal.
package anim

import (
	"math"
	"time"
)

// FrameInterval is the tick rate of a running scroll, roughly 60 fps.
const FrameInterval = 16 * time.Millisecond

// EaseInOutQuad maps linear progress t in [0,1] onto the ease-in-out
// quadratic curve. Values outside the range are clamped.
func EaseInOutQuad(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 2 * t * t
	default:
		return -1 + (4-2*t)*t
	}
}

// Scroll interpolates a vertical offset from From to To over Duration.
type Scroll struct {
	From     int
	To       int
	Start    time.Time
	Duration time.Duration
}

// NewScroll starts a scroll from the current offset towards target, stopping
// offset rows short so the target keeps some context above it. The
// destination never goes above the top.
func NewScroll(from, target, offset int, start time.Time, d time.Duration) Scroll {
	return Scroll{
		From:     from,
		To:       max(0, target-offset),
		Start:    start,
		Duration: d,
	}
}

// Progress returns the linear progress at now, clamped to [0,1].
func (s Scroll) Progress(now time.Time) float64 {
	if s.Duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, float64(now.Sub(s.Start))/float64(s.Duration)))
}

// At returns the eased offset at now, rounded to the nearest row.
func (s Scroll) At(now time.Time) int {
	p := EaseInOutQuad(s.Progress(now))
	return s.From + int(math.Round(float64(s.To-s.From)*p))
}

// Done reports whether the scroll has reached its destination at now.
func (s Scroll) Done(now time.Time) bool {
	return s.Progress(now) >= 1
}
