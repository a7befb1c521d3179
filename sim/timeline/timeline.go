// Package timeline reconstructs the recorded history of a run for drawing:
// one bar per processed task and the queue contents at every tick.
package timeline

import (
	"slices"

	"github.com/queue-sim/queue-sim/sim"
)

// Bar is one task's processing window [Begin, End) on a node.
type Bar struct {
	Node   int
	TaskID int
	Begin  int64
	End    int64
	Active bool // still the node's current task when the run stopped
}

// Bars returns the bars of every node, node by node in assignment order.
func Bars(result *sim.SimulationResult) []Bar {
	var bars []Bar
	for _, n := range result.Nodes {
		for _, t := range n.History {
			bars = append(bars, Bar{
				Node:   n.ID,
				TaskID: t.ID,
				Begin:  t.ProcBegin,
				End:    t.ProcEnd,
				Active: t == n.Current,
			})
		}
	}
	return bars
}

// FrameTask is a queued task as seen in one frame.
type FrameTask struct {
	ID          int
	ArrivalTime int64
	ArrivedNow  bool // arrived on the frame's tick
}

// QueueFrame is the queue at the end of a tick, head first.
type QueueFrame struct {
	Tick  int64
	Tasks []FrameTask
}

// Replay returns one frame per tick 0..result.Time.
//
// Frames are rebuilt backward from the final queue: at each tick the tasks
// dispatched on it are moved back to the head and the tasks that arrived on
// it are dropped from the tail.
func Replay(result *sim.SimulationResult) []QueueFrame {
	frames := make([]QueueFrame, result.Time+1)
	queue := slices.Clone(result.RemainingQueue)
	serviced := result.EverServiced
	next := len(serviced) - 1

	for r := result.Time; r >= 0; r-- {
		frame := QueueFrame{Tick: r, Tasks: make([]FrameTask, len(queue))}
		for i, t := range queue {
			frame.Tasks[i] = FrameTask{ID: t.ID, ArrivalTime: t.ArrivalTime, ArrivedNow: t.ArrivalTime == r}
		}
		frames[r] = frame

		var undispatched []*sim.Task
		for next >= 0 && serviced[next].ProcBegin == r {
			undispatched = append(undispatched, serviced[next])
			next--
		}
		slices.Reverse(undispatched)
		queue = append(undispatched, queue...)

		for len(queue) > 0 && queue[len(queue)-1].ArrivalTime == r {
			queue = queue[:len(queue)-1]
		}
	}
	return frames
}

// MaxDepth returns the longest queue across frames.
func MaxDepth(frames []QueueFrame) int {
	depth := 0
	for _, f := range frames {
		depth = max(depth, len(f.Tasks))
	}
	return depth
}
