// Defines the Task struct that models a single unit of work flowing through the queue.
// Tracks arrival, processing start and processing end in ticks.

package sim

import (
	"fmt"
)

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	TaskQueued    TaskState = "queued"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
)

// Task models one task's lifecycle in the simulation.
// ProcBegin and ProcEnd are meaningful only once the task has been dispatched
// (State != TaskQueued); use Begin and End to read them safely, since zero is
// a valid tick.
type Task struct {
	ID          int       // Sequential id in arrival order, starting at 0
	ArrivalTime int64     // Tick the task entered the queue
	ProcBegin   int64     // Tick the task was assigned to a node
	ProcEnd     int64     // Tick the assignment completes
	State       TaskState // queued, running, completed
}

// NewTask creates a queued task.
func NewTask(id int, arrivalTime int64) *Task {
	return &Task{
		ID:          id,
		ArrivalTime: arrivalTime,
		State:       TaskQueued,
	}
}

// Scheduled reports whether the task has been dispatched.
func (t *Task) Scheduled() bool {
	return t.State != TaskQueued
}

// Begin returns the dispatch tick, or false while the task is queued.
func (t *Task) Begin() (int64, bool) {
	if !t.Scheduled() {
		return 0, false
	}
	return t.ProcBegin, true
}

// End returns the completion tick, or false while the task is queued.
func (t *Task) End() (int64, bool) {
	if !t.Scheduled() {
		return 0, false
	}
	return t.ProcEnd, true
}

// Wait returns the ticks the task spent queued as of now.
// For a dispatched task now is ignored.
func (t *Task) Wait(now int64) int64 {
	if t.Scheduled() {
		return t.ProcBegin - t.ArrivalTime
	}
	return now - t.ArrivalTime
}

// BusyUntil returns the ticks of [ProcBegin, min(ProcEnd, horizon)).
func (t *Task) BusyUntil(horizon int64) int64 {
	if !t.Scheduled() {
		return 0
	}
	return max(min(t.ProcEnd, horizon)-t.ProcBegin, 0)
}

// schedule stamps the task with its processing window.
func (t *Task) schedule(begin, end int64) {
	if t.Scheduled() {
		panic(fmt.Sprintf("schedule: task %d already scheduled", t.ID))
	}
	t.ProcBegin = begin
	t.ProcEnd = end
	t.State = TaskRunning
}

// This method returns a human-readable string representation of a Task.
func (t Task) String() string {
	if !t.Scheduled() {
		return fmt.Sprintf("Task: (ID: %d, State: %s, ArrivalTime: %d)", t.ID, t.State, t.ArrivalTime)
	}
	return fmt.Sprintf("Task: (ID: %d, State: %s, ArrivalTime: %d, Proc: [%d, %d))",
		t.ID, t.State, t.ArrivalTime, t.ProcBegin, t.ProcEnd)
}
