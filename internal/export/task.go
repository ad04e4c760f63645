package export

import (
	"image"

	"github.com/gifcast/gifcast/internal/encoder"
)

// Task is the unit of work handed from the pacing logic on the producer
// goroutine to the background worker. Immutable once enqueued; consumed
// exactly once.
type Task struct {
	frame  image.Image
	timing encoder.Timing
	final  bool
}
