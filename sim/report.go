// Derives the end-of-run statistics: per-node utilization, idle probability,
// average wait and queue lengths.

package sim

import (
	"fmt"
	"io"
	"math"
)

// Stat is a derived statistic that may be undefined (e.g. a ratio over zero time).
type Stat struct {
	Value float64
	Valid bool
}

// NA is the undefined Stat.
var NA = Stat{}

func defined(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

func (s Stat) String() string {
	if !s.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", s.Value)
}

// round2 rounds to two decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NodeReport holds the statistics of one node.
type NodeReport struct {
	ID          int
	TasksServed int
	BusyTicks   int64 // sum of min(ProcEnd, Time) - ProcBegin over the node's history
	Busy        bool  // still processing a task when the run stopped
	Utilization Stat  // percent of Time spent busy
}

// StatisticsReport aggregates a SimulationResult for final reporting.
type StatisticsReport struct {
	NodesCount      int
	TasksCount      int
	Time            int64
	Nodes           []NodeReport
	TotalBusyTicks  int64
	IdleProbability Stat
	AverageWait     Stat
	TotalWaitTicks  int64
	MaxQueueLen     int
	CurrentQueueLen int
}

// BuildReport derives the statistics of result. It only reads result, so
// calling it repeatedly yields identical reports.
func BuildReport(result *SimulationResult) *StatisticsReport {
	r := &StatisticsReport{
		NodesCount:      len(result.Nodes),
		TasksCount:      result.Config.TasksCount,
		Time:            result.Time,
		Nodes:           make([]NodeReport, 0, len(result.Nodes)),
		TotalWaitTicks:  result.TotalWaitTicks,
		MaxQueueLen:     result.MaxQueueLen,
		CurrentQueueLen: len(result.RemainingQueue),
	}

	for _, n := range result.Nodes {
		nr := NodeReport{
			ID:          n.ID,
			TasksServed: len(n.History),
			Busy:        n.Current != nil,
			Utilization: NA,
		}
		for _, t := range n.History {
			nr.BusyTicks += t.BusyUntil(result.Time)
		}
		if result.Time != 0 {
			nr.Utilization = defined(round2(float64(nr.BusyTicks) * 100 / float64(result.Time)))
		}
		r.TotalBusyTicks += nr.BusyTicks
		r.Nodes = append(r.Nodes, nr)
	}

	r.IdleProbability = NA
	if capacity := int64(r.NodesCount) * result.Time; capacity != 0 {
		r.IdleProbability = defined(round2(1 - float64(r.TotalBusyTicks)/float64(capacity)))
	}

	r.AverageWait = NA
	if r.TasksCount > 0 {
		r.AverageWait = defined(round2(float64(result.TotalWaitTicks) / float64(r.TasksCount)))
	}
	return r
}

// Print writes the report in human-readable form.
func (r *StatisticsReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Report ===")
	fmt.Fprintf(w, "Nodes                : %d\n", r.NodesCount)
	fmt.Fprintf(w, "Tasks                : %d\n", r.TasksCount)
	fmt.Fprintln(w)
	for _, n := range r.Nodes {
		fmt.Fprintf(w, "==== Node %d ====\n", n.ID)
		if n.Busy {
			fmt.Fprintln(w, "Busy")
		}
		fmt.Fprintf(w, "Tasks served         : %d\n", n.TasksServed)
		if n.Utilization.Valid {
			fmt.Fprintf(w, "Load                 : %s%%\n", n.Utilization)
		} else {
			fmt.Fprintf(w, "Load                 : %s\n", n.Utilization)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Max queue length     : %d\n", r.MaxQueueLen)
	fmt.Fprintf(w, "Current queue length : %d\n", r.CurrentQueueLen)
	fmt.Fprintf(w, "Total modelling time : %d ticks\n", r.Time)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Idle probability     : %s\n", r.IdleProbability)
	fmt.Fprintf(w, "Average wait         : %s ticks\n", r.AverageWait)
}
