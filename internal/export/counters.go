package export

import "sync/atomic"

// counters tracks the exporter's frame accounting. All four values are
// monotonically increasing and never reset.
//
// Ownership: submitted and skipped are written by the producer goroutine,
// pending and saved by the worker. Reads may come from any goroutine
// (status API, tests), so every access is atomic.
type counters struct {
	submitted uint64 // tasks handed to the queue
	skipped   uint64 // frames dropped for arriving inside the current period
	pending   uint64 // tasks the worker has started
	saved     uint64 // frames successfully written by the encoder
}

func (c *counters) addSubmitted() { atomic.AddUint64(&c.submitted, 1) }
func (c *counters) addSkipped()   { atomic.AddUint64(&c.skipped, 1) }
func (c *counters) addPending()   { atomic.AddUint64(&c.pending, 1) }
func (c *counters) addSaved()     { atomic.AddUint64(&c.saved, 1) }

func (c *counters) snapshot() Stats {
	return Stats{
		Submitted: atomic.LoadUint64(&c.submitted),
		Skipped:   atomic.LoadUint64(&c.skipped),
		Pending:   atomic.LoadUint64(&c.pending),
		Saved:     atomic.LoadUint64(&c.saved),
	}
}

// Stats is a point-in-time snapshot of the exporter counters.
type Stats struct {
	Submitted uint64 `json:"submitted"`
	Skipped   uint64 `json:"skipped"`
	Pending   uint64 `json:"pending"`
	Saved     uint64 `json:"saved"`
}
