// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Float2 is a two-component float32 vector, used as the output of two-value curves (e.g. translate x/y, scale x/y).
type Float2 [2]float32

// Float3 is a three-component float32 vector, used as the output of three-value curves (e.g. RGB color).
type Float3 [3]float32

// Float4 is a four-component float32 vector, used as the output of four-value curves (e.g. RGBA color).
type Float4 [4]float32

// Add returns the component-wise sum of f and o.
func (f Float2) Add(o Float2) Float2 { return Float2{f[0] + o[0], f[1] + o[1]} }

// Sub returns the component-wise difference f - o.
func (f Float2) Sub(o Float2) Float2 { return Float2{f[0] - o[0], f[1] - o[1]} }

// Scale returns f with every component multiplied by s. Each product is rounded to float32.
func (f Float2) Scale(s float32) Float2 { return Float2{Round(f[0] * s), Round(f[1] * s)} }

// Add returns the component-wise sum of f and o.
func (f Float3) Add(o Float3) Float3 { return Float3{f[0] + o[0], f[1] + o[1], f[2] + o[2]} }

// Sub returns the component-wise difference f - o.
func (f Float3) Sub(o Float3) Float3 { return Float3{f[0] - o[0], f[1] - o[1], f[2] - o[2]} }

// Scale returns f with every component multiplied by s. Each product is rounded to float32.
func (f Float3) Scale(s float32) Float3 {
	return Float3{Round(f[0] * s), Round(f[1] * s), Round(f[2] * s)}
}

// Add returns the component-wise sum of f and o.
func (f Float4) Add(o Float4) Float4 {
	return Float4{f[0] + o[0], f[1] + o[1], f[2] + o[2], f[3] + o[3]}
}

// Sub returns the component-wise difference f - o.
func (f Float4) Sub(o Float4) Float4 {
	return Float4{f[0] - o[0], f[1] - o[1], f[2] - o[2], f[3] - o[3]}
}

// Scale returns f with every component multiplied by s. Each product is rounded to float32.
func (f Float4) Scale(s float32) Float4 {
	return Float4{Round(f[0] * s), Round(f[1] * s), Round(f[2] * s), Round(f[3] * s)}
}
