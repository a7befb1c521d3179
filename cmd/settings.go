package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim"
)

// Settings is the persisted settings file. The eight modelling inputs of the
// last successful run are stored so the next run starts from them.
type Settings struct {
	Modelling ModellingSettings `toml:"modelling"`
}

// ModellingSettings mirrors the user-facing fields of sim.SimulationConfig.
type ModellingSettings struct {
	Tasks            int   `toml:"tasks"`
	ArrivalMin       int64 `toml:"arrival_min"`
	ArrivalMax       int64 `toml:"arrival_max"`
	Nodes            int   `toml:"nodes"`
	ServiceMin       int64 `toml:"service_min"`
	ServiceMax       int64 `toml:"service_max"`
	WaitForAll       bool  `toml:"wait_for_all"`
	RandomAssignment bool  `toml:"random_assignment"`
}

func settingsFromConfig(cfg sim.SimulationConfig) Settings {
	return Settings{Modelling: ModellingSettings{
		Tasks:            cfg.TasksCount,
		ArrivalMin:       cfg.Arrival.Min,
		ArrivalMax:       cfg.Arrival.Max,
		Nodes:            cfg.NodesCount,
		ServiceMin:       cfg.Service.Min,
		ServiceMax:       cfg.Service.Max,
		WaitForAll:       cfg.WaitForAll,
		RandomAssignment: cfg.RandomAssignment,
	}}
}

// apply overlays the settings on cfg. MaxTicks is not persisted.
func (s Settings) apply(cfg sim.SimulationConfig) sim.SimulationConfig {
	m := s.Modelling
	cfg.TasksCount = m.Tasks
	cfg.Arrival = sim.Interval{Min: m.ArrivalMin, Max: m.ArrivalMax}
	cfg.NodesCount = m.Nodes
	cfg.Service = sim.Interval{Min: m.ServiceMin, Max: m.ServiceMax}
	cfg.WaitForAll = m.WaitForAll
	cfg.RandomAssignment = m.RandomAssignment
	return cfg
}

// DefaultSettingsPath returns $QUEUE_SIM_HOME/settings.toml, or
// settings.toml under the user config directory.
func DefaultSettingsPath() string {
	if env := os.Getenv("QUEUE_SIM_HOME"); env != "" {
		return filepath.Join(env, "settings.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "queue-sim", "settings.toml")
}

// LoadSettings overlays the settings file at path on base. Keys missing from
// the file keep their base value; a missing file returns base unchanged.
func LoadSettings(path string, base sim.SimulationConfig) (sim.SimulationConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}

	s := settingsFromConfig(base)
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return base, fmt.Errorf("parse settings %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logrus.Warnf("Ignoring unknown settings key %q in %s", key.String(), path)
	}
	return s.apply(base), nil
}

// SaveSettings writes the modelling inputs of cfg to path.
func SaveSettings(path string, cfg sim.SimulationConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(settingsFromConfig(cfg))
}
