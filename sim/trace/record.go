// Package trace provides decision-trace recording for queue simulation analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// ArrivalRecord captures a task entering the queue.
type ArrivalRecord struct {
	TaskID     int
	Clock      int64
	QueueDepth int // queue length right after the arrival
}

// DispatchRecord captures a single dispatch decision.
type DispatchRecord struct {
	TaskID    int
	NodeID    int
	Clock     int64
	Wait      int64  // ticks the task spent queued
	Duration  int64  // drawn service duration
	Policy    string // node selection policy name
	FreeNodes int    // free nodes the policy chose from
}

// ReleaseRecord captures a node finishing its task.
type ReleaseRecord struct {
	TaskID int
	NodeID int
	Clock  int64
}
