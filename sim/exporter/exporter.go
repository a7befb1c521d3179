// Package exporter writes the statistics of a run in the Prometheus text
// exposition format, for pickup by a node_exporter textfile collector.
package exporter

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/queue-sim/queue-sim/sim"
)

const namespace = "queuesim"

// Collect builds a private registry holding the gauges of report.
// constLabels are attached to every series (e.g. a run id).
// Undefined statistics are left out rather than exported as NaN.
func Collect(report *sim.StatisticsReport, constLabels prometheus.Labels) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	utilization := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "node_utilization_percent",
		Help:        "Share of simulated time the node spent processing tasks.",
		ConstLabels: constLabels,
	}, []string{"node"})
	busy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "node_busy_ticks",
		Help:        "Ticks the node spent processing tasks.",
		ConstLabels: constLabels,
	}, []string{"node"})
	served := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "node_tasks_served",
		Help:        "Tasks assigned to the node.",
		ConstLabels: constLabels,
	}, []string{"node"})
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	idle := gauge("idle_probability", "Fraction of node-ticks across the pool spent unused.")
	avgWait := gauge("average_wait_ticks", "Mean ticks a task spent queued.")
	maxQueue := gauge("max_queue_length", "Longest queue observed at the end of a tick.")
	curQueue := gauge("current_queue_length", "Tasks still queued when the run stopped.")
	ticks := gauge("simulated_ticks", "Reported simulated time.")

	collectors := []prometheus.Collector{utilization, busy, served, maxQueue, curQueue, ticks}
	for _, n := range report.Nodes {
		id := strconv.Itoa(n.ID)
		busy.WithLabelValues(id).Set(float64(n.BusyTicks))
		served.WithLabelValues(id).Set(float64(n.TasksServed))
		if n.Utilization.Valid {
			utilization.WithLabelValues(id).Set(n.Utilization.Value)
		}
	}
	if report.IdleProbability.Valid {
		idle.Set(report.IdleProbability.Value)
		collectors = append(collectors, idle)
	}
	if report.AverageWait.Valid {
		avgWait.Set(report.AverageWait.Value)
		collectors = append(collectors, avgWait)
	}
	maxQueue.Set(float64(report.MaxQueueLen))
	curQueue.Set(float64(report.CurrentQueueLen))
	ticks.Set(float64(report.Time))

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return reg, nil
}

// Write collects report and writes it atomically to path.
func Write(path string, report *sim.StatisticsReport, constLabels prometheus.Labels) error {
	reg, err := Collect(report, constLabels)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
