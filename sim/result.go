package sim

// SimulationResult is the final state of a run. It owns the nodes and tasks
// and is the only artifact a run exposes.
type SimulationResult struct {
	Config SimulationConfig
	Seed   int64

	// Time is the reported simulated time in ticks. On an early stop
	// (WaitForAll unset) it is the tick before the stop, clamped to zero.
	Time        int64
	TimeClamped bool  // Time was raised to 0 from -1
	Ticks       int64 // loop iterations executed, including the stopping one

	Nodes          []*Node
	RemainingQueue []*Task // tasks never dispatched, head first
	MaxQueueLen    int
	// TotalWaitTicks sums ProcBegin-ArrivalTime over dispatched tasks and
	// Time-ArrivalTime over RemainingQueue.
	TotalWaitTicks int64
	// EverServiced lists every dispatched task in dispatch order.
	EverServiced []*Task
}

// TasksCreated returns the number of tasks that arrived during the run.
func (r *SimulationResult) TasksCreated() int {
	return len(r.EverServiced) + len(r.RemainingQueue)
}

// Tasks returns every task that arrived, ordered by id.
func (r *SimulationResult) Tasks() []*Task {
	tasks := make([]*Task, r.TasksCreated())
	for _, t := range r.EverServiced {
		tasks[t.ID] = t
	}
	for _, t := range r.RemainingQueue {
		tasks[t.ID] = t
	}
	return tasks
}
