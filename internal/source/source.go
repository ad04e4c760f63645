// Package source produces live frames for the recording pipeline.
package source

import (
	"context"
	"image"
)

// Source supplies frames at whatever rate the underlying producer delivers
// them. No contract is assumed about arrival timing; the exporter's pacing
// logic handles irregular rates.
type Source interface {
	// Next blocks until the next frame is available. It returns io.EOF when
	// the stream ends and ctx.Err() when the context is cancelled.
	Next(ctx context.Context) (image.Image, error)

	// Close releases the underlying producer
	Close() error

	// Name returns a human-readable name for this source type
	Name() string
}

// Kinds lists the source kinds the record command accepts.
func Kinds() []string {
	return []string{"x11", "mjpeg", "websocket"}
}
