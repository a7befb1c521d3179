package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/exporter"
	"github.com/queue-sim/queue-sim/sim/timeline"
	"github.com/queue-sim/queue-sim/sim/trace"
)

// runOptions holds the CLI flags shared by `run` and `defaults`.
type runOptions struct {
	tasks            int    // Number of tasks to create
	arrivalMin       int64  // Min gap between arrivals (ticks)
	arrivalMax       int64  // Max gap between arrivals (ticks)
	nodes            int    // Number of processing nodes
	serviceMin       int64  // Min service duration (ticks)
	serviceMax       int64  // Max service duration (ticks)
	waitForAll       bool   // Keep running until every task is processed
	randomAssignment bool   // Pick free nodes at random instead of lowest id first
	maxTicks         int64  // Explicit tick ceiling, 0 = derived
	seed             int64  // Fixed seed; entropy-seeded when not given
	scenarioPath     string // YAML scenario file
	settingsPath     string // TOML persisted settings
	noSave           bool   // Do not persist the effective config

	// output
	showTimeline bool
	traceLevel   string
	metricsFile  string
	logLevel     string
}

var (
	runOpts      = &runOptions{}
	defaultsOpts = &runOptions{}
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Discrete-time simulator of a single queue served by several nodes",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the queue simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runOpts.execute(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// defaultsCmd prints the configuration `run` would use with the same flags
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the effective simulation config as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(defaultsOpts.logLevel)
		cfg, seed, err := defaultsOpts.resolve(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := WriteScenario(cmd.OutOrStdout(), Scenario{SimulationConfig: cfg, Seed: seed}); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// bindFlags registers the config flags on c. Flag defaults are only used for
// help output: a flag overrides settings and scenario only when Changed.
func (o *runOptions) bindFlags(c *cobra.Command) {
	def := sim.DefaultConfig()
	c.Flags().IntVar(&o.tasks, "tasks", def.TasksCount, "Number of tasks to create")
	c.Flags().Int64Var(&o.arrivalMin, "arrival-min", def.Arrival.Min, "Min ticks between consecutive arrivals")
	c.Flags().Int64Var(&o.arrivalMax, "arrival-max", def.Arrival.Max, "Max ticks between consecutive arrivals")
	c.Flags().IntVar(&o.nodes, "nodes", def.NodesCount, "Number of processing nodes")
	c.Flags().Int64Var(&o.serviceMin, "service-min", def.Service.Min, "Min service duration (in ticks)")
	c.Flags().Int64Var(&o.serviceMax, "service-max", def.Service.Max, "Max service duration (in ticks)")
	c.Flags().BoolVar(&o.waitForAll, "wait-for-all", def.WaitForAll, "Run until every task has been processed")
	c.Flags().BoolVar(&o.randomAssignment, "random-assignment", def.RandomAssignment, "Assign tasks to a random free node instead of the lowest id")
	c.Flags().Int64Var(&o.maxTicks, "max-ticks", 0, "Abort after this many ticks (0 = derive from the config)")
	c.Flags().Int64Var(&o.seed, "seed", 0, "Seed for reproducible runs (default: time-based)")
	c.Flags().StringVar(&o.scenarioPath, "scenario", "", "YAML scenario file")
	c.Flags().StringVar(&o.settingsPath, "settings", DefaultSettingsPath(), "TOML file holding the last used settings")
	c.Flags().StringVar(&o.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

func (o *runOptions) bindOutputFlags(c *cobra.Command) {
	c.Flags().BoolVar(&o.noSave, "no-save", false, "Do not persist the effective config to the settings file")
	c.Flags().BoolVar(&o.showTimeline, "timeline", false, "Print a text timeline of the run")
	c.Flags().StringVar(&o.traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	c.Flags().StringVar(&o.metricsFile, "metrics-file", "", "Write the report as Prometheus metrics to this file")
}

// resolve builds the effective config: defaults < settings < scenario < flags.
// A nil seed means the run is entropy-seeded.
func (o *runOptions) resolve(c *cobra.Command) (sim.SimulationConfig, *int64, error) {
	cfg := sim.DefaultConfig()

	loaded, err := LoadSettings(o.settingsPath, cfg)
	if err != nil {
		logrus.Warnf("Ignoring settings: %v", err)
	} else {
		cfg = loaded
	}

	var seed *int64
	if o.scenarioPath != "" {
		sc, err := LoadScenario(o.scenarioPath, cfg)
		if err != nil {
			return cfg, nil, err
		}
		cfg, seed = sc.SimulationConfig, sc.Seed
	}

	flags := c.Flags()
	if flags.Changed("tasks") {
		cfg.TasksCount = o.tasks
	}
	if flags.Changed("arrival-min") {
		cfg.Arrival.Min = o.arrivalMin
	}
	if flags.Changed("arrival-max") {
		cfg.Arrival.Max = o.arrivalMax
	}
	if flags.Changed("nodes") {
		cfg.NodesCount = o.nodes
	}
	if flags.Changed("service-min") {
		cfg.Service.Min = o.serviceMin
	}
	if flags.Changed("service-max") {
		cfg.Service.Max = o.serviceMax
	}
	if flags.Changed("wait-for-all") {
		cfg.WaitForAll = o.waitForAll
	}
	if flags.Changed("random-assignment") {
		cfg.RandomAssignment = o.randomAssignment
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = o.maxTicks
	}
	if flags.Changed("seed") {
		s := o.seed
		seed = &s
	}
	return cfg, seed, nil
}

// execute runs one simulation and writes the report and the requested
// extras to out.
func (o *runOptions) execute(c *cobra.Command, out io.Writer) error {
	setLogLevel(o.logLevel)
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("unknown trace level %q", o.traceLevel)
	}

	cfg, seed, err := o.resolve(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logrus.WithField("run", runID)

	var opts []sim.Option
	var st *trace.SimulationTrace
	if trace.TraceLevel(o.traceLevel) != trace.TraceLevelNone {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(o.traceLevel)})
		opts = append(opts, sim.WithTrace(st))
	}

	result, err := sim.RunSimulation(cfg, seed, opts...)
	if err != nil {
		return err
	}
	log.Infof("Simulation complete: time=%d ticks=%d seed=%d", result.Time, result.Ticks, result.Seed)

	report := sim.BuildReport(result)
	report.Print(out)
	fmt.Fprintf(out, "Seed                 : %d\n", result.Seed)

	if o.showTimeline {
		fmt.Fprintln(out)
		if err := timeline.Render(out, result); err != nil {
			return err
		}
	}
	if st != nil {
		fmt.Fprintln(out)
		trace.Summarize(st).Print(out)
	}
	if o.metricsFile != "" {
		if err := exporter.Write(o.metricsFile, report, prometheus.Labels{"run": runID}); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Infof("Metrics written to %s", o.metricsFile)
	}

	if !o.noSave {
		if err := SaveSettings(o.settingsPath, cfg); err != nil {
			log.Warnf("Failed to save settings to %s: %v", o.settingsPath, err)
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runOpts.bindFlags(runCmd)
	runOpts.bindOutputFlags(runCmd)
	defaultsOpts.bindFlags(defaultsCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
