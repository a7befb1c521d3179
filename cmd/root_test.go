package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queue-sim/queue-sim/sim"
)

// newTestRunCommand binds a fresh set of run flags with settings in a temp dir.
func newTestRunCommand(t *testing.T, args ...string) (*cobra.Command, *runOptions) {
	t.Helper()
	o := &runOptions{}
	c := &cobra.Command{Use: "run"}
	o.bindFlags(c)
	o.bindOutputFlags(c)
	require.NoError(t, c.Flags().Set("settings", filepath.Join(t.TempDir(), "settings.toml")))
	require.NoError(t, c.Flags().Parse(args))
	return c, o
}

func TestResolve_NoSources_UsesDefaults(t *testing.T) {
	c, o := newTestRunCommand(t)

	cfg, seed, err := o.resolve(c)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
	assert.Nil(t, seed, "no --seed means an entropy-seeded run")
}

func TestResolve_Precedence(t *testing.T) {
	// GIVEN settings with tasks=10 nodes=3, a scenario with nodes=4 seed=9,
	// and an explicit --tasks flag
	settings := writeFile(t, "settings.toml", "[modelling]\ntasks = 10\nnodes = 3\nwait_for_all = false\n")
	scenario := writeFile(t, "scenario.yaml", "nodes: 4\nseed: 9\n")
	c, o := newTestRunCommand(t, "--settings", settings, "--scenario", scenario, "--tasks", "5")

	// WHEN the effective config is resolved
	cfg, seed, err := o.resolve(c)
	require.NoError(t, err)

	// THEN each source wins over the previous one
	assert.Equal(t, 5, cfg.TasksCount, "flag beats settings")
	assert.Equal(t, 4, cfg.NodesCount, "scenario beats settings")
	assert.False(t, cfg.WaitForAll, "settings beat defaults")
	assert.Equal(t, sim.Interval{Min: 1, Max: 9}, cfg.Arrival, "defaults fill the rest")
	require.NotNil(t, seed)
	assert.Equal(t, int64(9), *seed)
}

func TestResolve_SeedFlag_OverridesScenarioSeed(t *testing.T) {
	scenario := writeFile(t, "scenario.yaml", "seed: 9\n")
	c, o := newTestRunCommand(t, "--scenario", scenario, "--seed", "11")

	_, seed, err := o.resolve(c)
	require.NoError(t, err)
	require.NotNil(t, seed)
	assert.Equal(t, int64(11), *seed)
}

func TestResolve_BadScenario_ReturnsError(t *testing.T) {
	scenario := writeFile(t, "scenario.yaml", "bogus: 1\n")
	c, o := newTestRunCommand(t, "--scenario", scenario)

	_, _, err := o.resolve(c)
	assert.Error(t, err)
}

func TestExecute_SerialScenario_PrintsReportAndExtras(t *testing.T) {
	// GIVEN the one-node serial scenario with every output enabled
	metrics := filepath.Join(t.TempDir(), "queue.prom")
	c, o := newTestRunCommand(t,
		"--tasks", "3", "--arrival-min", "1", "--arrival-max", "1",
		"--nodes", "1", "--service-min", "2", "--service-max", "2",
		"--wait-for-all=true", "--seed", "1",
		"--timeline", "--trace", "decisions", "--metrics-file", metrics,
	)

	// WHEN executed
	var out bytes.Buffer
	require.NoError(t, o.execute(c, &out))

	// THEN the report, timeline and trace summary are printed
	s := out.String()
	assert.Contains(t, s, "Total modelling time : 6 ticks")
	assert.Contains(t, s, "Average wait         : 1.00 ticks")
	assert.Contains(t, s, "Seed                 : 1")
	assert.Contains(t, s, "node 0 |0=====1=====2=====")
	assert.Contains(t, s, "=== Trace Summary ===")

	// AND the metrics textfile is written
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "queuesim_simulated_ticks{run=")

	// AND the effective config is persisted
	saved, err := LoadSettings(o.settingsPath, sim.SimulationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 3, saved.TasksCount)
	assert.Equal(t, sim.Interval{Min: 2, Max: 2}, saved.Service)
}

func TestExecute_NoSave_LeavesSettingsUntouched(t *testing.T) {
	c, o := newTestRunCommand(t, "--tasks", "2", "--seed", "1", "--no-save")

	var out bytes.Buffer
	require.NoError(t, o.execute(c, &out))

	_, err := os.Stat(o.settingsPath)
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_InvalidConfig_ReturnsConfigurationError(t *testing.T) {
	c, o := newTestRunCommand(t, "--arrival-min", "5", "--arrival-max", "4", "--no-save")

	var out bytes.Buffer
	err := o.execute(c, &out)
	assert.ErrorIs(t, err, sim.ErrConfiguration)
	assert.Empty(t, out.String())
}

func TestExecute_NoNodesWaitForAll_DidNotTerminate(t *testing.T) {
	c, o := newTestRunCommand(t, "--nodes", "0", "--tasks", "2", "--wait-for-all=true", "--no-save")

	var out bytes.Buffer
	assert.ErrorIs(t, o.execute(c, &out), sim.ErrDidNotTerminate)
}

func TestExecute_UnknownTraceLevel_ReturnsError(t *testing.T) {
	c, o := newTestRunCommand(t, "--trace", "everything", "--no-save")

	var out bytes.Buffer
	assert.Error(t, o.execute(c, &out))
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["defaults"])
}
