package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid simulation configuration")

// ConfigurationError reports a SimulationConfig that cannot be simulated.
// It is raised before any tick executes.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Interval is an inclusive tick range [Min, Max].
type Interval struct {
	Min int64 `yaml:"min" toml:"min"`
	Max int64 `yaml:"max" toml:"max"`
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Min, iv.Max)
}

// SimulationConfig is the immutable input of a run.
type SimulationConfig struct {
	TasksCount       int      `yaml:"tasks"`
	Arrival          Interval `yaml:"arrival"`
	NodesCount       int      `yaml:"nodes"`
	Service          Interval `yaml:"service"`
	WaitForAll       bool     `yaml:"wait_for_all"`
	RandomAssignment bool     `yaml:"random_assignment"`
	MaxTicks         int64    `yaml:"max_ticks,omitempty"` // 0 = derive from the other fields
}

// DefaultConfig returns the scenario the tool starts with when nothing else is configured.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		TasksCount:       100,
		Arrival:          Interval{Min: 1, Max: 9},
		NodesCount:       2,
		Service:          Interval{Min: 1, Max: 5},
		WaitForAll:       true,
		RandomAssignment: false,
	}
}

// Validate checks the configuration before a run starts.
// Every failure is a *ConfigurationError.
func (c SimulationConfig) Validate() error {
	if c.TasksCount < 0 {
		return &ConfigurationError{Field: "tasks", Reason: fmt.Sprintf("must be >= 0, got %d", c.TasksCount)}
	}
	if c.NodesCount < 0 {
		return &ConfigurationError{Field: "nodes", Reason: fmt.Sprintf("must be >= 0, got %d", c.NodesCount)}
	}
	if err := validateInterval("arrival", c.Arrival); err != nil {
		return err
	}
	if err := validateInterval("service", c.Service); err != nil {
		return err
	}
	if c.MaxTicks < 0 {
		return &ConfigurationError{Field: "max_ticks", Reason: fmt.Sprintf("must be >= 0, got %d", c.MaxTicks)}
	}
	return nil
}

func validateInterval(name string, iv Interval) error {
	if iv.Min > iv.Max {
		return &ConfigurationError{Field: name, Reason: fmt.Sprintf("invalid interval %v: min > max", iv)}
	}
	if iv.Min < 0 {
		return &ConfigurationError{Field: name, Reason: fmt.Sprintf("invalid interval %v: negative bound", iv)}
	}
	return nil
}

// SelectorName returns the node selection policy implied by RandomAssignment.
func (c SimulationConfig) SelectorName() string {
	if c.RandomAssignment {
		return SelectorRandom
	}
	return SelectorOrdered
}

// TickCeiling returns the tick after which a run is declared non-terminating.
// Without an explicit MaxTicks the bound is the serial worst case: every gap
// and every service at its maximum, one task at a time. A zero-length service
// still holds its node until the next tick, hence the floor of one.
func (c SimulationConfig) TickCeiling() int64 {
	if c.MaxTicks > 0 {
		return c.MaxTicks
	}
	service := max(c.Service.Max, 1)
	if c.Arrival.Max > math.MaxInt64-service {
		return math.MaxInt64 - 1
	}
	per := c.Arrival.Max + service
	tasks := int64(c.TasksCount)
	if tasks > (math.MaxInt64-1)/per {
		return math.MaxInt64 - 1
	}
	return tasks*per + 1
}
