// Package sim provides the discrete-time simulation engine for queue-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - task.go: Task lifecycle (queued → running → completed) and processing window
//   - dispatch.go: Node selection policies and the Dispatcher pairing tasks with nodes
//   - simulator.go: The tick loop, arrival admission and the termination rule
//
// # Architecture
//
// One FIFO WaitQueue feeds a NodePool. Every tick the engine admits arrivals,
// releases nodes whose task ended, dispatches queued tasks to free nodes and
// checks whether the run is over. Completions are kept in a min-heap keyed by
// end tick. Randomness comes from a PartitionedRNG so that the arrival,
// service and dispatch streams are isolated from one another.
//
// Sub-packages consume the SimulationResult:
//   - sim/timeline/: queue replay and text timeline
//   - sim/trace/: Decision trace recording
//   - sim/exporter/: Prometheus textfile export of the report
//
// # Key Interfaces
//
//   - NodeSelector: pick a free node for the head of the queue (ordered, random)
//
// RunSimulation and BuildReport are the entry points used by the CLI.
package sim
