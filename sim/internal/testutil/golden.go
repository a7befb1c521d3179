// Package testutil provides shared test infrastructure for the queue simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and its subpackages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single scenario from the golden dataset.
// Scenarios use degenerate intervals or the ordered policy so their outcome
// does not depend on the seed.
type GoldenTestCase struct {
	Name             string        `json:"name"`
	Tasks            int           `json:"tasks"`
	ArrivalMin       int64         `json:"arrival_min"`
	ArrivalMax       int64         `json:"arrival_max"`
	Nodes            int           `json:"nodes"`
	ServiceMin       int64         `json:"service_min"`
	ServiceMax       int64         `json:"service_max"`
	WaitForAll       bool          `json:"wait_for_all"`
	RandomAssignment bool          `json:"random_assignment"`
	Seed             int64         `json:"seed"`
	Metrics          GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden scenario.
// Nullable fields are statistics reported as N/A.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Time            int64 `json:"time"`
	TimeClamped     bool  `json:"time_clamped"`
	MaxQueueLen     int   `json:"max_queue_len"`
	CurrentQueueLen int   `json:"current_queue_len"`
	TotalWaitTicks  int64 `json:"total_wait_ticks"`

	// Rounded statistics
	AverageWait     *float64   `json:"average_wait"`
	IdleProbability *float64   `json:"idle_probability"`
	Utilization     []*float64 `json:"utilization"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertOptionalFloat64 checks a statistic that may be undefined. A nil want
// expects valid to be false.
func AssertOptionalFloat64(t *testing.T, name string, want *float64, got float64, valid bool) {
	t.Helper()
	if want == nil {
		if valid {
			t.Errorf("%s: got %v, want N/A", name, got)
		}
		return
	}
	if !valid {
		t.Errorf("%s: got N/A, want %v", name, *want)
		return
	}
	AssertFloat64Equal(t, name, *want, got, 1e-9)
}
