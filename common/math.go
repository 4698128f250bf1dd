package common

import "math"

// Round forces v to float32 precision.
//
// Go permits an implementation to fuse x*y+z into a single FMA instruction (arm64, ppc64le, s390x),
// which skips the intermediate rounding step. Wrapping a product in an explicit float32 conversion
// rounds it and prevents fusion, keeping results identical across architectures.
//
// Parameters:
//   - v: the value to round
//
// Returns:
//   - float32: v rounded to float32 precision
func Round(v float32) float32 {
	return float32(v)
}

// IsFinite reports whether v is neither NaN nor an infinity.
//
// Parameters:
//   - v: the value to check
//
// Returns:
//   - bool: true if v is a finite number
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
