// Package pose mixes sampled curve values into the values currently applied to a skeleton or any other
// set of animated properties.
package pose

import (
	"fmt"

	"github.com/tphakala/simd/f32"
)

// MixBlend controls how a sampled value is combined with the current and setup values.
type MixBlend int

const (
	// MixBlendSetup mixes from the setup value. Before the first frame the setup value is applied.
	MixBlendSetup MixBlend = iota

	// MixBlendFirst mixes from the current value. Before the first frame the current value is mixed
	// towards the setup value.
	MixBlendFirst

	// MixBlendReplace mixes from the current value. Before the first frame nothing changes.
	MixBlendReplace

	// MixBlendAdd adds the sampled value scaled by alpha to the current value. Before the first frame
	// nothing changes.
	MixBlendAdd
)

func (b MixBlend) String() string {
	switch b {
	case MixBlendSetup:
		return "setup"
	case MixBlendFirst:
		return "first"
	case MixBlendReplace:
		return "replace"
	case MixBlendAdd:
		return "add"
	default:
		return fmt.Sprintf("MixBlend(%d)", int(b))
	}
}

// Mixer mixes value slices, reusing its scratch buffer between calls.
// A Mixer is not safe for concurrent use; give each goroutine its own.
type Mixer struct {
	scratch []float32
}

// Mix writes the mix of sampled into dst using a fresh Mixer. See Mixer.Mix.
func Mix(dst, current, setup, sampled []float32, alpha float32, blend MixBlend, before bool) {
	var m Mixer
	m.Mix(dst, current, setup, sampled, alpha, blend, before)
}

// Mix writes the mix of sampled into dst.
//
// From the curve's first record on the result is base + (sampled-base)*alpha, where base is setup for
// MixBlendSetup and current otherwise; MixBlendAdd gives current + sampled*alpha. When before is true the
// query time precedes the curve's first record and sampled is ignored.
//
// dst may alias current or setup. All slices must have the same length.
//
// Parameters:
//   - dst: receives the mixed values
//   - current: the values currently applied
//   - setup: the setup (rest) values
//   - sampled: the values sampled from the curve
//   - alpha: the mix strength, 0 keeps base and 1 applies sampled fully
//   - blend: how to combine the values
//   - before: whether the query time lies before the curve's first record
func (m *Mixer) Mix(dst, current, setup, sampled []float32, alpha float32, blend MixBlend, before bool) {
	n := len(dst)
	if len(current) != n || len(setup) != n || len(sampled) != n {
		panic(fmt.Sprintf("pose: Mix length mismatch: dst %d, current %d, setup %d, sampled %d",
			n, len(current), len(setup), len(sampled)))
	}

	if before {
		switch blend {
		case MixBlendSetup:
			copy(dst, setup)
		case MixBlendFirst:
			m.lerp(dst, current, setup, alpha)
		default:
			copy(dst, current)
		}
		return
	}

	switch blend {
	case MixBlendSetup:
		m.lerp(dst, setup, sampled, alpha)
	case MixBlendAdd:
		m.grow(n)
		f32.Scale(m.scratch, sampled, alpha)
		for i := range dst {
			dst[i] = current[i] + m.scratch[i]
		}
	default:
		m.lerp(dst, current, sampled, alpha)
	}
}

// lerp writes from + (to-from)*alpha into dst.
func (m *Mixer) lerp(dst, from, to []float32, alpha float32) {
	m.grow(len(dst))
	for i := range m.scratch {
		m.scratch[i] = to[i] - from[i]
	}
	f32.Scale(m.scratch, m.scratch, alpha)
	for i := range dst {
		dst[i] = from[i] + m.scratch[i]
	}
}

func (m *Mixer) grow(n int) {
	if cap(m.scratch) < n {
		m.scratch = make([]float32, n)
	}
	m.scratch = m.scratch[:n]
}
