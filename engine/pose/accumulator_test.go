package pose

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-curve/internal/testutil"
)

func TestAccumulatorWeightedAverage(t *testing.T) {
	acc := NewAccumulator(2)
	acc.Add([]float32{0, 10}, 1)
	acc.Add([]float32{4, 2}, 3)
	acc.Add([]float32{100, 100}, 0)
	acc.Add([]float32{100, 100}, -1)
	acc.Add([]float32{100, 100}, math.NaN())

	if acc.Weight() != 4 {
		t.Fatalf("Weight() = %v, want 4", acc.Weight())
	}
	dst := make([]float32, 2)
	if !acc.Resolve(dst) {
		t.Fatalf("Resolve returned false")
	}
	testutil.RequireSliceNearlyEqual(t, dst, []float32{3, 4}, 1e-6)
}

func TestAccumulatorEmptyAndReset(t *testing.T) {
	acc := NewAccumulator(3)
	dst := []float32{7, 8, 9}
	if acc.Resolve(dst) {
		t.Fatalf("Resolve on empty accumulator returned true")
	}
	testutil.RequireSliceNearlyEqual(t, dst, []float32{7, 8, 9}, 0)

	acc.Add([]float32{1, 2, 3}, 2)
	acc.Reset()
	if acc.Weight() != 0 || acc.Resolve(dst) {
		t.Fatalf("Reset left weight %v", acc.Weight())
	}

	acc.Add([]float32{1, 2, 3}, 0.25)
	acc.Resolve(dst)
	testutil.RequireSliceNearlyEqual(t, dst, []float32{1, 2, 3}, 1e-6)
}

func TestAccumulatorManyLayers(t *testing.T) {
	// Ten thousand small equal layers resolve back to the layer value.
	acc := NewAccumulator(1)
	v := float32(0.1)
	for range 10000 {
		acc.Add([]float32{v}, 0.001)
	}
	dst := make([]float32, 1)
	acc.Resolve(dst)
	testutil.RequireNearlyEqual(t, dst[0], v, 1e-7)
}

func TestAccumulatorSizeMismatchPanics(t *testing.T) {
	for name, fn := range map[string]func(){
		"add":     func() { NewAccumulator(2).Add([]float32{1}, 1) },
		"resolve": func() { NewAccumulator(2).Resolve(make([]float32, 3)) },
		"size":    func() { NewAccumulator(-1) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}
