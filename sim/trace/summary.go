package trace

import (
	"fmt"
	"io"
	"slices"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalArrivals    int
	TotalDispatches  int
	TotalReleases    int
	MeanWait         float64
	MaxWait          int64
	MaxQueueDepth    int
	UniqueNodes      int
	NodeDistribution map[int]int // node ID → count of tasks dispatched to it
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		NodeDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalArrivals = len(st.Arrivals)
	for _, a := range st.Arrivals {
		summary.MaxQueueDepth = max(summary.MaxQueueDepth, a.QueueDepth)
	}
	summary.TotalReleases = len(st.Releases)

	if len(st.Dispatches) > 0 {
		var totalWait int64
		for _, d := range st.Dispatches {
			summary.NodeDistribution[d.NodeID]++
			totalWait += d.Wait
			if d.Wait > summary.MaxWait {
				summary.MaxWait = d.Wait
			}
		}
		summary.TotalDispatches = len(st.Dispatches)
		summary.MeanWait = float64(totalWait) / float64(len(st.Dispatches))
	}

	summary.UniqueNodes = len(summary.NodeDistribution)

	return summary
}

// Print writes the summary in human-readable form.
func (s *TraceSummary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Arrivals             : %d\n", s.TotalArrivals)
	fmt.Fprintf(w, "Dispatches           : %d\n", s.TotalDispatches)
	fmt.Fprintf(w, "Releases             : %d\n", s.TotalReleases)
	fmt.Fprintf(w, "Mean dispatch wait   : %.2f ticks\n", s.MeanWait)
	fmt.Fprintf(w, "Max dispatch wait    : %d ticks\n", s.MaxWait)
	fmt.Fprintf(w, "Peak queue on arrival: %d\n", s.MaxQueueDepth)
	ids := make([]int, 0, len(s.NodeDistribution))
	for id := range s.NodeDistribution {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  node %-4d          : %d tasks\n", id, s.NodeDistribution[id])
	}
}
