package timeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/queue-sim/queue-sim/sim"
)

// Render writes a fixed-width text timeline of result: one row per node with
// each task drawn over [ProcBegin, ProcEnd), a tick ruler, and the queue
// contents per tick below it. Finished tasks are drawn with '=', tasks still
// running at the end with '~'. Queue cells mark tasks that arrived on that
// tick with '*'.
func Render(w io.Writer, result *sim.SimulationResult) error {
	bars := Bars(result)
	frames := Replay(result)

	horizon := result.Time
	maxID := 0
	for _, b := range bars {
		horizon = max(horizon, b.End)
		maxID = max(maxID, b.TaskID)
	}
	for _, t := range result.RemainingQueue {
		maxID = max(maxID, t.ID)
	}
	cell := max(len(strconv.FormatInt(horizon, 10)), len(strconv.Itoa(maxID))+1) + 1
	label := len(fmt.Sprintf("node %d", max(len(result.Nodes)-1, 0))) + 1

	var sb strings.Builder
	for _, n := range result.Nodes {
		row := make([]string, horizon+1)
		for _, b := range bars {
			if b.Node != n.ID {
				continue
			}
			fill := "="
			if b.Active {
				fill = "~"
			}
			for c := b.Begin; c < b.End; c++ {
				row[c] = strings.Repeat(fill, cell)
			}
			if row[b.Begin] == "" || b.End > b.Begin {
				row[b.Begin] = pad(strconv.Itoa(b.TaskID), fill, cell)
			}
		}
		writeRow(&sb, fmt.Sprintf("node %d", n.ID), label, row, cell)
	}

	ruler := make([]string, horizon+1)
	for c := range ruler {
		ruler[c] = strconv.Itoa(c)
	}
	writeRow(&sb, "tick", label, ruler, cell)

	for d := 0; d < MaxDepth(frames); d++ {
		row := make([]string, horizon+1)
		for _, f := range frames {
			if d >= len(f.Tasks) {
				continue
			}
			ft := f.Tasks[d]
			s := strconv.Itoa(ft.ID)
			if ft.ArrivedNow {
				s += "*"
			}
			row[f.Tick] = s
		}
		name := ""
		if d == 0 {
			name = "queue"
		}
		writeRow(&sb, name, label, row, cell)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func pad(s, fill string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(fill, width-len(s))
}

func writeRow(sb *strings.Builder, name string, label int, cells []string, width int) {
	fmt.Fprintf(sb, "%-*s|", label, name)
	for _, c := range cells {
		if c == "" {
			c = strings.Repeat(" ", width)
		}
		sb.WriteString(pad(c, " ", width))
	}
	sb.WriteString("\n")
}
