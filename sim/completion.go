package sim

import (
	"cmp"

	"github.com/addrummond/heap"
)

// completion marks the tick a node's current task ends.
type completion struct {
	End    int64
	NodeID int
}

func (a *completion) Cmp(b *completion) int {
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.NodeID, b.NodeID)
}

// CompletionQueue orders running tasks by end tick so the engine releases
// finished nodes without scanning the whole pool every tick.
type CompletionQueue struct {
	h     heap.Heap[completion, heap.Min]
	count int
}

// Push registers that node nodeID is busy until end.
func (q *CompletionQueue) Push(end int64, nodeID int) {
	heap.PushOrderable(&q.h, completion{End: end, NodeID: nodeID})
	q.count++
}

// Len returns the number of pending completions.
func (q *CompletionQueue) Len() int {
	return q.count
}

// ReleaseDue frees every node whose task ends at or before tick and returns
// the completed tasks in (end, node id) order.
func (q *CompletionQueue) ReleaseDue(tick int64, pool *NodePool) []*Task {
	var released []*Task
	for {
		next, ok := heap.Peek(&q.h)
		if !ok || next.End > tick {
			return released
		}
		_, _ = heap.PopOrderable(&q.h)
		q.count--
		if t := pool.Get(next.NodeID).release(); t != nil {
			released = append(released, t)
		}
	}
}
