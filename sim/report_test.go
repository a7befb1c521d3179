package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_String(t *testing.T) {
	assert.Equal(t, "N/A", NA.String())
	assert.Equal(t, "85.71", defined(85.714).String())
	assert.Equal(t, "0.00", defined(0).String())
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.0 / 3.0, 0.33},
		{600.0 / 7.0, 85.71},
		{1 - 12.0/14.0, 0.14},
		{0.125, 0.13},
		{2, 2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, round2(tt.in), 1e-9, "round2(%v)", tt.in)
	}
}

func TestBuildReport_TwoNodes(t *testing.T) {
	// GIVEN 4 tasks a tick apart on 2 nodes with 3-tick service
	cfg := SimulationConfig{
		TasksCount: 4,
		Arrival:    Interval{Min: 1, Max: 1},
		NodesCount: 2,
		Service:    Interval{Min: 3, Max: 3},
		WaitForAll: true,
	}
	res := mustRun(t, cfg, 1)

	// WHEN the report is built
	r := BuildReport(res)

	// THEN busy time and derived statistics match the schedule
	require.Len(t, r.Nodes, 2)
	for _, n := range r.Nodes {
		assert.Equal(t, 2, n.TasksServed)
		assert.Equal(t, int64(6), n.BusyTicks)
		assert.Equal(t, "85.71", n.Utilization.String())
		assert.False(t, n.Busy)
	}
	assert.Equal(t, int64(12), r.TotalBusyTicks)
	assert.Equal(t, "0.14", r.IdleProbability.String())
	assert.Equal(t, "0.50", r.AverageWait.String())
	assert.Equal(t, 1, r.MaxQueueLen)
	assert.Equal(t, 0, r.CurrentQueueLen)
}

func TestBuildReport_EarlyStop_ClipsBusyAtReportedTime(t *testing.T) {
	res := mustRun(t, serialConfig(false), 1)
	r := BuildReport(res)

	// task 0 ran [0,2), task 1 started at 2 == Time, so it adds nothing
	assert.Equal(t, int64(2), r.Nodes[0].BusyTicks)
	assert.Equal(t, "100.00", r.Nodes[0].Utilization.String())
	assert.True(t, r.Nodes[0].Busy)
	assert.Equal(t, 1, r.CurrentQueueLen)
}

func TestBuildReport_ZeroTime_Undefined(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TasksCount = 0
	cfg.WaitForAll = false
	r := BuildReport(mustRun(t, cfg, 1))

	for _, n := range r.Nodes {
		assert.False(t, n.Utilization.Valid)
	}
	assert.False(t, r.IdleProbability.Valid)
	assert.False(t, r.AverageWait.Valid)
}

func TestBuildReport_Idempotent(t *testing.T) {
	res := mustRun(t, DefaultConfig(), 9)
	assert.Equal(t, BuildReport(res), BuildReport(res))
}

func TestStatisticsReport_Print(t *testing.T) {
	res := mustRun(t, serialConfig(false), 1)
	var buf bytes.Buffer
	BuildReport(res).Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "==== Node 0 ====")
	assert.Contains(t, out, "Busy\n")
	assert.Contains(t, out, "Load                 : 100.00%")
	assert.Contains(t, out, "Max queue length     : 1")
	assert.Contains(t, out, "Current queue length : 1")
	assert.Contains(t, out, "Total modelling time : 2 ticks")
	assert.Contains(t, out, "Idle probability     : 0.00")
	assert.Contains(t, out, "Average wait         : 0.33 ticks")
}

func TestStatisticsReport_Print_NA(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TasksCount = 0
	cfg.WaitForAll = false
	var buf bytes.Buffer
	BuildReport(mustRun(t, cfg, 1)).Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Load                 : N/A\n")
	assert.Contains(t, out, "Idle probability     : N/A")
	assert.Contains(t, out, "Average wait         : N/A ticks")
}
