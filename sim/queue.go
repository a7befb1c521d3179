// Implements the WaitQueue, which holds all tasks waiting for a free node.
// Tasks are enqueued on arrival and leave strictly from the head.

package sim

import (
	"fmt"
	"strings"

	"github.com/gammazero/deque"
)

// WaitQueue represents a FIFO queue of tasks waiting to be dispatched.
// The zero value is an empty queue ready to use.
type WaitQueue struct {
	queue deque.Deque[*Task]
}

// Enqueue adds a task to the back of the wait queue.
func (wq *WaitQueue) Enqueue(t *Task) {
	if t == nil {
		panic("Enqueue: task must not be nil")
	}
	if t.Scheduled() {
		panic(fmt.Sprintf("Enqueue: task %d is already scheduled", t.ID))
	}
	wq.queue.PushBack(t)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < wq.queue.Len(); i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprint(wq.queue.At(i).ID))
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of tasks in the queue.
func (wq *WaitQueue) Len() int {
	return wq.queue.Len()
}

// Peek returns the task at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Task {
	if wq.queue.Len() == 0 {
		return nil
	}
	return wq.queue.Front()
}

// Dequeue removes the task at the front of the queue.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Dequeue() *Task {
	if wq.queue.Len() == 0 {
		return nil
	}
	return wq.queue.PopFront()
}

// Items returns a copy of the queue contents, head first.
func (wq *WaitQueue) Items() []*Task {
	items := make([]*Task, wq.queue.Len())
	for i := range items {
		items[i] = wq.queue.At(i)
	}
	return items
}
