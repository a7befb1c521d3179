// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// ErrDidNotTerminate is returned when a run exceeds its tick ceiling, e.g.
// tasks waiting for a pool of zero nodes with WaitForAll set.
var ErrDidNotTerminate = errors.New("simulation did not terminate")

// EngineState is the control state of a Simulator.
type EngineState string

const (
	// StateRunning admits arrivals.
	StateRunning EngineState = "running"
	// StateDraining waits for the queue and nodes to clear after the last arrival.
	StateDraining EngineState = "draining"
	// StateStopped is terminal.
	StateStopped EngineState = "stopped"
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithTrace records arrivals, dispatches and releases into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *Simulator) {
		s.trace = st
	}
}

// Simulator is the core object that holds simulation time, the queue, the node
// pool and the tick loop. It is single-use: Run may be called once.
type Simulator struct {
	Config SimulationConfig
	Clock  int64
	State  EngineState

	// WaitQ aka task waiting queue before dispatch
	WaitQ       *WaitQueue
	Nodes       *NodePool
	Arrivals    *ArrivalProcess
	Dispatcher  *Dispatcher
	Completions *CompletionQueue

	MaxQueueLen int

	key         SimulationKey
	ceiling     int64
	time        int64
	timeClamped bool
	trace       *trace.SimulationTrace
}

// NewSimulator validates cfg and builds a Simulator seeded from key.
func NewSimulator(cfg SimulationConfig, key SimulationKey, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(key)
	selector, err := NewNodeSelector(cfg.SelectorName(), rng.Range(SubsystemDispatch))
	if err != nil {
		return nil, err
	}
	completions := &CompletionQueue{}
	s := &Simulator{
		Config:      cfg,
		Clock:       0,
		State:       StateRunning,
		WaitQ:       &WaitQueue{},
		Nodes:       NewNodePool(cfg.NodesCount),
		Arrivals:    NewArrivalProcess(cfg.TasksCount, cfg.Arrival, rng.Range(SubsystemArrival)),
		Dispatcher:  NewDispatcher(selector, cfg.Service, rng.Range(SubsystemService), completions),
		Completions: completions,
		key:         key,
		ceiling:     cfg.TickCeiling(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Dispatcher.trace = s.trace
	return s, nil
}

// RunSimulation validates cfg, runs it to completion and returns the result.
// A nil seed draws one from EntropySeed.
func RunSimulation(cfg SimulationConfig, seed *int64, opts ...Option) (*SimulationResult, error) {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = EntropySeed()
	}
	sim, err := NewSimulator(cfg, NewSimulationKey(s), opts...)
	if err != nil {
		return nil, err
	}
	return sim.Run()
}

// Run advances ticks until the engine stops and assembles the result.
func (sim *Simulator) Run() (*SimulationResult, error) {
	if sim.State == StateStopped {
		return nil, errors.New("simulator already stopped")
	}
	logrus.Infof("Starting simulation: tasks=%d arrival=%v nodes=%d service=%v waitForAll=%t policy=%s seed=%d",
		sim.Config.TasksCount, sim.Config.Arrival, sim.Config.NodesCount, sim.Config.Service,
		sim.Config.WaitForAll, sim.Config.SelectorName(), sim.key)

	for sim.State != StateStopped {
		if sim.Clock > sim.ceiling {
			return nil, fmt.Errorf("%w: exceeded %d ticks with %d queued and %d tasks still to arrive",
				ErrDidNotTerminate, sim.ceiling, sim.WaitQ.Len(), sim.Arrivals.Remaining())
		}
		if err := sim.step(sim.Clock); err != nil {
			return nil, err
		}
	}
	logrus.Infof("[tick %07d] Simulation ended, reported time %d", sim.Clock, sim.time)
	return sim.result(), nil
}

// step executes one tick and advances the clock unless the engine stopped.
func (sim *Simulator) step(tick int64) error {
	if sim.State == StateRunning {
		if sim.Arrivals.Exhausted() && !sim.Config.WaitForAll {
			// Early stop reports the previous tick: the last one with activity.
			sim.stop(tick - 1)
			return nil
		}
		if err := sim.admit(tick); err != nil {
			return err
		}
		if sim.Arrivals.Exhausted() && sim.Config.WaitForAll {
			sim.State = StateDraining
			logrus.Debugf("[tick %07d] arrivals exhausted, draining", tick)
		}
	}

	for _, t := range sim.Completions.ReleaseDue(tick, sim.Nodes) {
		logrus.Debugf("[tick %07d] task %d completed", tick, t.ID)
		if sim.trace != nil {
			sim.trace.RecordRelease(trace.ReleaseRecord{TaskID: t.ID, NodeID: sim.nodeOf(t), Clock: tick})
		}
	}

	if _, err := sim.Dispatcher.Dispatch(tick, sim.Nodes.FreeNodes(), sim.WaitQ); err != nil {
		return err
	}

	if sim.Arrivals.Exhausted() && sim.WaitQ.Len() == 0 && sim.Nodes.AllFree() {
		sim.stop(tick)
		return nil
	}

	sim.MaxQueueLen = max(sim.MaxQueueLen, sim.WaitQ.Len())
	sim.Clock++
	return nil
}

// admit enqueues every task arriving at tick.
func (sim *Simulator) admit(tick int64) error {
	for {
		t, ok, err := sim.Arrivals.MaybeSpawn(tick)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		sim.WaitQ.Enqueue(t)
		logrus.Debugf("[tick %07d] << arrival: task %d", tick, t.ID)
		if sim.trace != nil {
			sim.trace.RecordArrival(trace.ArrivalRecord{TaskID: t.ID, Clock: tick, QueueDepth: sim.WaitQ.Len()})
		}
	}
}

func (sim *Simulator) stop(time int64) {
	if time < 0 {
		time = 0
		sim.timeClamped = true
	}
	sim.time = time
	sim.State = StateStopped
}

// nodeOf finds the node that processed t. Only used for tracing.
func (sim *Simulator) nodeOf(t *Task) int {
	for _, n := range sim.Nodes.Nodes() {
		if len(n.History) > 0 && n.History[len(n.History)-1] == t {
			return n.ID
		}
	}
	return -1
}

func (sim *Simulator) result() *SimulationResult {
	remaining := sim.WaitQ.Items()
	totalWait := sim.Dispatcher.TotalWaitTicks()
	for _, t := range remaining {
		totalWait += t.Wait(sim.time)
	}
	return &SimulationResult{
		Config:         sim.Config,
		Seed:           int64(sim.key),
		Time:           sim.time,
		TimeClamped:    sim.timeClamped,
		Ticks:          sim.Clock + 1,
		Nodes:          sim.Nodes.Nodes(),
		RemainingQueue: remaining,
		MaxQueueLen:    sim.MaxQueueLen,
		TotalWaitTicks: totalWait,
		EverServiced:   sim.Dispatcher.EverServiced(),
	}
}
