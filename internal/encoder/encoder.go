// Package encoder writes re-timed frame streams to an animated-image output.
package encoder

import (
	"image"
)

// Timing carries the display duration assigned to a single output frame.
type Timing struct {
	// ElapsedMillis is the measured time the frame should stay on screen.
	// Only meaningful when Variable is true.
	ElapsedMillis float64

	// Variable reports whether ElapsedMillis was measured by the exporter.
	// When false the encoder applies its own configured frame delay.
	Variable bool
}

// Encoder defines the interface for frame output targets.
//
// The exporter invokes WriteFrame once per scheduled frame, in order, from a
// single goroutine, so implementations do not need to be safe for concurrent
// writers. Close is called exactly once after the exporter terminates,
// regardless of whether the drain completed.
type Encoder interface {
	// WriteFrame appends one frame to the output. final marks the flush
	// frame scheduled during termination.
	WriteFrame(frame image.Image, timing Timing, final bool) error

	// Close finalizes and releases the output
	Close() error
}
