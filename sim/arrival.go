package sim

import "fmt"

// ArrivalProcess decides when the next task enters the queue.
// The first arrival is always at tick 0; every later gap is drawn from the
// configured arrival interval.
type ArrivalProcess struct {
	total           int
	remaining       int
	nextArrivalTime int64
	gap             Interval
	rng             *RandomRange
}

// NewArrivalProcess creates a process that will spawn tasksCount tasks.
func NewArrivalProcess(tasksCount int, gap Interval, rng *RandomRange) *ArrivalProcess {
	return &ArrivalProcess{
		total:     tasksCount,
		remaining: tasksCount,
		gap:       gap,
		rng:       rng,
	}
}

// MaybeSpawn returns the task arriving at tick, if any. Call it repeatedly
// within a tick: a zero gap schedules the next arrival on the same tick.
func (a *ArrivalProcess) MaybeSpawn(tick int64) (*Task, bool, error) {
	if a.remaining == 0 || tick != a.nextArrivalTime {
		return nil, false, nil
	}
	t := NewTask(a.total-a.remaining, tick)
	a.remaining--
	gap, err := a.rng.DrawInterval(a.gap)
	if err != nil {
		return nil, false, fmt.Errorf("arrival gap after task %d: %w", t.ID, err)
	}
	a.nextArrivalTime += gap
	return t, true, nil
}

// Exhausted reports whether every task has been created.
func (a *ArrivalProcess) Exhausted() bool {
	return a.remaining == 0
}

// Remaining returns the number of tasks still to be created.
func (a *ArrivalProcess) Remaining() int {
	return a.remaining
}

// NextArrivalTime returns the tick of the next arrival.
// Meaningless once the process is exhausted.
func (a *ArrivalProcess) NextArrivalTime() int64 {
	return a.nextArrivalTime
}
