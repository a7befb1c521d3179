package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemService).Int63()
		v2 := rng2.ForSubsystem(SubsystemService).Int63()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Drawing from the dispatch stream doesn't affect the service stream
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemDispatch).Int63()
	}

	if a, b := rngA.ForSubsystem(SubsystemService).Int63(), rngB.ForSubsystem(SubsystemService).Int63(); a != b {
		t.Errorf("service stream perturbed by dispatch draws: %d != %d", a, b)
	}
}

func TestPartitionedRNG_ArrivalUsesMasterSeed(t *testing.T) {
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	arrivalRNG := rng.ForSubsystem(SubsystemArrival)
	directRNG := newRandFromSeed(seed)

	for i := 0; i < 10; i++ {
		got := arrivalRNG.Float64()
		want := directRNG.Float64()
		if got != want {
			t.Errorf("Value %d: arrival RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if rng.ForSubsystem(SubsystemArrival) != rng.ForSubsystem(SubsystemArrival) {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Collision(t *testing.T) {
	names := []string{SubsystemArrival, SubsystemService, SubsystemDispatch, ""}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === RandomRange Tests ===

func TestRandomRange_Draw_StaysInsideInclusiveRange(t *testing.T) {
	r := NewRandomRange(newRandFromSeed(1))
	seen := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		v, err := r.Draw(3, 7)
		if err != nil {
			t.Fatalf("Draw(3, 7): %v", err)
		}
		if v < 3 || v > 7 {
			t.Fatalf("Draw(3, 7) = %d, outside range", v)
		}
		seen[v] = true
	}
	// both bounds are reachable
	for v := int64(3); v <= 7; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn in 2000 draws", v)
		}
	}
}

func TestRandomRange_Draw_DegenerateRange(t *testing.T) {
	r := NewRandomRange(newRandFromSeed(1))
	for _, v := range []int64{0, 5, -3, math.MaxInt64} {
		got, err := r.Draw(v, v)
		if err != nil || got != v {
			t.Errorf("Draw(%d, %d) = %d, %v; want %d, nil", v, v, got, err, v)
		}
	}
}

func TestRandomRange_Draw_InvertedRange_ReturnsErrInvalidRange(t *testing.T) {
	r := NewRandomRange(newRandFromSeed(1))
	_, err := r.Draw(5, 4)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Draw(5, 4) error = %v, want ErrInvalidRange", err)
	}
}

func TestRandomRange_Draw_FullRange_DoesNotOverflow(t *testing.T) {
	r := NewRandomRange(newRandFromSeed(9))
	for i := 0; i < 100; i++ {
		if _, err := r.Draw(math.MinInt64, math.MaxInt64); err != nil {
			t.Fatalf("full range draw: %v", err)
		}
		v, err := r.Draw(-1, math.MaxInt64)
		if err != nil || v < -1 {
			t.Fatalf("Draw(-1, MaxInt64) = %d, %v", v, err)
		}
	}
}

func TestRandomRange_SameSeed_SameSequence(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(77)).Range(SubsystemService)
	b := NewPartitionedRNG(NewSimulationKey(77)).Range(SubsystemService)
	for i := 0; i < 20; i++ {
		va, _ := a.Draw(1, 100)
		vb, _ := b.Draw(1, 100)
		if va != vb {
			t.Fatalf("draw %d differs: %d vs %d", i, va, vb)
		}
	}
}

// === Benchmark ===

func BenchmarkRandomRange_Draw(b *testing.B) {
	r := NewRandomRange(newRandFromSeed(42))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Draw(1, 9)
	}
}

// === Helper ===

// newRandFromSeed creates a *rand.Rand with the given seed
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
