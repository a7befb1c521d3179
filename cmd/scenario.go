package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim"
)

// Scenario is a YAML scenario file: a simulation config plus an optional
// fixed seed. Fields left out keep the value they had before loading.
//
//	tasks: 20
//	arrival: {min: 1, max: 3}
//	nodes: 2
//	service: {min: 2, max: 6}
//	wait_for_all: true
//	random_assignment: false
//	seed: 7
type Scenario struct {
	sim.SimulationConfig `yaml:",inline"`
	Seed                 *int64 `yaml:"seed,omitempty"`
}

// LoadScenario overlays the scenario file at path on base.
// Uses strict field checking: unknown keys are errors.
func LoadScenario(path string, base sim.SimulationConfig) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	sc := Scenario{SimulationConfig: base}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && err != io.EOF {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// WriteScenario writes sc as YAML.
func WriteScenario(w io.Writer, sc Scenario) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(sc); err != nil {
		return err
	}
	return encoder.Close()
}
