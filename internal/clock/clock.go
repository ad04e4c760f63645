// Package clock provides restartable elapsed-time measurement.
//
// The pacing logic in internal/export decides how to schedule frames based on
// how much time passed since the last scheduling point. The Clock interface
// isolates that measurement so tests can script elapsed values instead of
// sleeping against the wall clock.
package clock

import "time"

// Clock measures elapsed time since a movable origin.
type Clock interface {
	// Mark resets the elapsed-time origin to now.
	Mark()

	// ElapsedMillis returns the milliseconds elapsed since the last Mark,
	// as a non-negative value. It does not mutate the origin.
	ElapsedMillis() float64
}

// wallClock implements Clock using the standard time package.
type wallClock struct {
	origin time.Time
}

// New returns a Clock backed by real time. The origin starts at the time of
// the call; most callers Mark() again when measurement actually begins.
func New() Clock {
	return &wallClock{origin: time.Now()}
}

func (c *wallClock) Mark() {
	c.origin = time.Now()
}

func (c *wallClock) ElapsedMillis() float64 {
	ms := float64(time.Since(c.origin)) / float64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	return ms
}
