package export

import (
	"image"

	"github.com/gifcast/gifcast/internal/clock"
	"github.com/gifcast/gifcast/internal/encoder"
)

// Mode selects how incoming frames are re-timed.
type Mode int

const (
	// FixedRate targets a constant output frame period: frames arriving
	// inside the current period are dropped, and the last known frame is
	// repeated to cover gaps longer than one period.
	FixedRate Mode = iota

	// VariableRate forwards every frame, stamped with the measured time the
	// previous frame was effectively displayed. The encoder assigns each
	// output frame its own display duration.
	VariableRate
)

// pacer is the decision engine: given the newly arrived frame and the time
// elapsed since the last scheduling point, it produces the tasks to enqueue.
//
// All state is owned by the producer goroutine; the worker never touches it.
type pacer struct {
	mode         Mode
	periodMillis float64
	clk          clock.Clock
	previous     image.Image
}

func newPacer(mode Mode, periodMillis float64, clk clock.Clock) *pacer {
	return &pacer{mode: mode, periodMillis: periodMillis, clk: clk}
}

// decide returns the tasks to schedule for frame, in execution order.
// skipped reports that the frame arrived too early and was coalesced into
// the pacer state instead of producing a task.
//
// In either outcome the pacer remembers frame as the most recently seen one:
// a burst of early arrivals keeps only the newest until a period boundary is
// crossed.
func (p *pacer) decide(frame image.Image) (tasks []Task, skipped bool) {
	switch p.mode {
	case VariableRate:
		tasks = p.decideVariable(frame)
	default:
		tasks, skipped = p.decideFixed(frame)
	}
	p.previous = frame
	return tasks, skipped
}

func (p *pacer) decideFixed(frame image.Image) (tasks []Task, skipped bool) {
	if p.previous == nil {
		p.clk.Mark()
		return []Task{{frame: frame}}, false
	}

	framesElapsed := int(p.clk.ElapsedMillis() / p.periodMillis)

	// Too early: drop, and keep the clock running so elapsed time keeps
	// accumulating toward the next period boundary.
	if framesElapsed == 0 {
		return nil, true
	}

	// One or more full periods elapsed: the previous frame held the screen
	// for that long, so it is the one exported, repeated to fill the gap.
	tasks = make([]Task, framesElapsed)
	for i := range tasks {
		tasks[i] = Task{frame: p.previous}
	}
	p.clk.Mark()
	return tasks, false
}

func (p *pacer) decideVariable(frame image.Image) []Task {
	if p.previous == nil {
		p.clk.Mark()
		return []Task{{frame: frame, timing: encoder.Timing{Variable: true}}}
	}

	// The new frame carries the duration the previous one was displayed;
	// the encoder turns that into a per-frame delay.
	elapsed := p.clk.ElapsedMillis()
	p.clk.Mark()
	return []Task{{
		frame:  frame,
		timing: encoder.Timing{ElapsedMillis: elapsed, Variable: true},
	}}
}

// finalTask builds the termination flush task from the last-seen frame,
// guaranteeing it reaches the output even if it never crossed a period
// boundary. ok is false when no frame was ever exported.
func (p *pacer) finalTask() (t Task, ok bool) {
	if p.previous == nil {
		return Task{}, false
	}
	t = Task{frame: p.previous, final: true}
	if p.mode == VariableRate {
		t.timing = encoder.Timing{Variable: true}
	}
	return t, true
}
