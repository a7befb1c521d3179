package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// Node selection policy names.
const (
	SelectorOrdered = "ordered"
	SelectorRandom  = "random"
)

// NodeSelector picks which free node receives the next queued task.
type NodeSelector interface {
	// SelectNode returns an index into free. free is never empty and is
	// ordered by ascending node id.
	SelectNode(free []*Node) (int, error)
	Name() string
}

// OrderedSelector loads nodes "top to bottom": the lowest free id always wins.
type OrderedSelector struct{}

// SelectNode implements NodeSelector.
func (OrderedSelector) SelectNode(free []*Node) (int, error) {
	return 0, nil
}

// Name implements NodeSelector.
func (OrderedSelector) Name() string { return SelectorOrdered }

// RandomSelector picks a free node uniformly at random. Each call draws over
// the nodes still free, so picks within one tick are without replacement.
type RandomSelector struct {
	rng *RandomRange
}

// NewRandomSelector creates a random selector drawing from rng.
func NewRandomSelector(rng *RandomRange) *RandomSelector {
	return &RandomSelector{rng: rng}
}

// SelectNode implements NodeSelector.
func (s *RandomSelector) SelectNode(free []*Node) (int, error) {
	i, err := s.rng.Draw(0, int64(len(free)-1))
	if err != nil {
		return 0, err
	}
	return int(i), nil
}

// Name implements NodeSelector.
func (s *RandomSelector) Name() string { return SelectorRandom }

// NewNodeSelector creates a node selector of the specified type.
func NewNodeSelector(name string, rng *RandomRange) (NodeSelector, error) {
	switch name {
	case SelectorOrdered:
		return OrderedSelector{}, nil
	case SelectorRandom:
		if rng == nil {
			return nil, fmt.Errorf("selector %q requires an rng", name)
		}
		return NewRandomSelector(rng), nil
	default:
		return nil, fmt.Errorf("unknown node selector %q", name)
	}
}

// AvailableSelectors returns the list of supported selector names.
func AvailableSelectors() []string {
	return []string{SelectorOrdered, SelectorRandom}
}

// Dispatcher pairs queued tasks with free nodes.
type Dispatcher struct {
	selector    NodeSelector
	service     Interval
	rng         *RandomRange
	completions *CompletionQueue
	trace       *trace.SimulationTrace

	everServiced   []*Task
	totalWaitTicks int64
}

// NewDispatcher creates a Dispatcher drawing service durations from rng.
func NewDispatcher(selector NodeSelector, service Interval, rng *RandomRange, completions *CompletionQueue) *Dispatcher {
	return &Dispatcher{
		selector:    selector,
		service:     service,
		rng:         rng,
		completions: completions,
	}
}

// Dispatch repeatedly pairs the head of queue with a free node until one of
// them runs out. free is consumed; it must be in ascending id order.
// Returns the number of tasks dispatched.
func (d *Dispatcher) Dispatch(tick int64, free []*Node, queue *WaitQueue) (int, error) {
	dispatched := 0
	for len(free) > 0 && queue.Len() > 0 {
		i, err := d.selector.SelectNode(free)
		if err != nil {
			return dispatched, fmt.Errorf("select node at tick %d: %w", tick, err)
		}
		n := free[i]
		free = append(free[:i], free[i+1:]...)

		duration, err := d.rng.DrawInterval(d.service)
		if err != nil {
			return dispatched, fmt.Errorf("service time at tick %d: %w", tick, err)
		}
		t := queue.Dequeue()
		t.schedule(tick, tick+duration)
		n.assign(t)
		d.completions.Push(t.ProcEnd, n.ID)

		wait := t.ProcBegin - t.ArrivalTime
		d.totalWaitTicks += wait
		d.everServiced = append(d.everServiced, t)
		dispatched++

		logrus.Debugf("[tick %07d] dispatch task %d -> node %d until %d (waited %d)", tick, t.ID, n.ID, t.ProcEnd, wait)
		if d.trace != nil {
			d.trace.RecordDispatch(trace.DispatchRecord{
				TaskID:    t.ID,
				NodeID:    n.ID,
				Clock:     tick,
				Wait:      wait,
				Duration:  duration,
				Policy:    d.selector.Name(),
				FreeNodes: len(free) + 1,
			})
		}
	}
	return dispatched, nil
}

// EverServiced returns every dispatched task in dispatch order.
func (d *Dispatcher) EverServiced() []*Task {
	return d.everServiced
}

// TotalWaitTicks returns the summed wait of every dispatched task.
func (d *Dispatcher) TotalWaitTicks() int64 {
	return d.totalWaitTicks
}
