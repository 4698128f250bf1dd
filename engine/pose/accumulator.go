package pose

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Accumulator blends many weighted layers of values into one pose. Sums are kept in float64 so long
// layer stacks do not lose precision before the result is rounded back to float32.
type Accumulator struct {
	sum     []float64
	scratch []float64
	weight  float64
}

// NewAccumulator creates an Accumulator for poses of size values.
//
// Parameters:
//   - size: the number of values per layer
//
// Returns:
//   - *Accumulator: the empty accumulator
func NewAccumulator(size int) *Accumulator {
	if size < 0 {
		panic(fmt.Sprintf("pose: accumulator size must not be negative, got %d", size))
	}
	return &Accumulator{
		sum:     make([]float64, size),
		scratch: make([]float64, size),
	}
}

// Add accumulates one layer of values with the given weight. Layers with a weight that is not positive
// are skipped.
//
// Parameters:
//   - values: the layer's values, one per pose value
//   - weight: the layer's weight
func (a *Accumulator) Add(values []float32, weight float64) {
	if len(values) != len(a.sum) {
		panic(fmt.Sprintf("pose: Add expects %d values, got %d", len(a.sum), len(values)))
	}
	if !(weight > 0) {
		return
	}
	for i, v := range values {
		a.scratch[i] = float64(v)
	}
	vecmath.ScaleBlock(a.scratch, a.scratch, weight)
	vecmath.AddBlockInPlace(a.sum, a.scratch)
	a.weight += weight
}

// Weight returns the total weight accumulated since the last Reset.
func (a *Accumulator) Weight() float64 {
	return a.weight
}

// Resolve writes the weighted average of all accumulated layers into dst.
//
// Parameters:
//   - dst: receives the resolved values
//
// Returns:
//   - bool: false if no layer has been accumulated, in which case dst is left unchanged
func (a *Accumulator) Resolve(dst []float32) bool {
	if len(dst) != len(a.sum) {
		panic(fmt.Sprintf("pose: Resolve expects %d values, got %d", len(a.sum), len(dst)))
	}
	if a.weight == 0 {
		return false
	}
	vecmath.ScaleBlock(a.scratch, a.sum, 1/a.weight)
	for i, v := range a.scratch {
		dst[i] = float32(v)
	}
	return true
}

// Reset clears all accumulated layers.
func (a *Accumulator) Reset() {
	clear(a.sum)
	a.weight = 0
}
