package export

import "sync"

// taskQueue is the single synchronization hand-off between the producer and
// the worker: an unbounded FIFO with non-blocking push and blocking pop.
//
// Lifecycle: push/pop → close (no further pushes, worker drains what is
// queued) → forceStop (worker takes nothing more, leftover tasks counted).
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []Task
	closed bool
	forced bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a task and wakes the worker. Returns false once the queue has
// been closed; the task is then discarded.
func (q *taskQueue) push(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, t)
	q.cond.Signal()
	return true
}

// pop blocks until a task is available and removes it, preserving FIFO
// order. ok is false when the queue is finished: forcibly stopped, or closed
// and fully drained.
func (q *taskQueue) pop() (t Task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.forced {
			return Task{}, false
		}
		if len(q.tasks) > 0 {
			t = q.tasks[0]
			q.tasks = q.tasks[1:]
			return t, true
		}
		if q.closed {
			return Task{}, false
		}
		q.cond.Wait()
	}
}

// close stops the queue from accepting new tasks. Already-queued tasks remain
// available to the worker.
func (q *taskQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// forceStop prevents the worker from taking any further task and returns how
// many queued tasks were never started. An in-flight task is not aborted.
func (q *taskQueue) forceStop() (remaining int) {
	q.mu.Lock()
	q.forced = true
	remaining = len(q.tasks)
	q.tasks = nil
	q.cond.Broadcast()
	q.mu.Unlock()
	return remaining
}

// length returns the number of queued, not yet started tasks.
func (q *taskQueue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
