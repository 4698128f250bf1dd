package curve

import (
	"github.com/Carmen-Shannon/oxy-curve/common"
)

// CurveBuilderOption is a functional option for configuring a Curve during construction.
type CurveBuilderOption func(*curve)

// WithArity is an option builder that sets the number of values per record.
//
// Parameters:
//   - arity: the number of value components, 1 through 4
//
// Returns:
//   - CurveBuilderOption: a function that applies the arity option to a curve
func WithArity(arity int) CurveBuilderOption {
	return func(c *curve) {
		c.arity = arity
	}
}

// WithFrameStep is an option builder that sets the record size in floats.
// Defaults to FrameEntries(arity) when unset.
//
// Parameters:
//   - frameStep: the record size, at least 2 + arity
//
// Returns:
//   - CurveBuilderOption: a function that applies the frame step option to a curve
func WithFrameStep(frameStep int) CurveBuilderOption {
	return func(c *curve) {
		c.frameStep = frameStep
	}
}

// WithStride is an option builder that sets the distance from a record's time to the next record's time
// used by linear interpolation. Defaults to the frame step when unset.
//
// Parameters:
//   - stride: the stride in floats, between arity + 1 and the frame step
//
// Returns:
//   - CurveBuilderOption: a function that applies the stride option to a curve
func WithStride(stride int) CurveBuilderOption {
	return func(c *curve) {
		c.stride = stride
	}
}

// WithComponentSegmentStride is an option builder that sets how far apart the Bezier samples of consecutive
// values of one record are stored in the control-point buffer. Value k reads its samples at
// segment + (k-1)*stride. Defaults to BezierSize, which is how Writer lays segments out; 0 makes
// every value share the record's single segment.
//
// Parameters:
//   - stride: the per-value segment stride in floats
//
// Returns:
//   - CurveBuilderOption: a function that applies the segment stride option to a curve
func WithComponentSegmentStride(stride int) CurveBuilderOption {
	return func(c *curve) {
		c.componentStride = stride
	}
}

// NewCurve creates a Curve over the given buffers and validates their layout. The buffers are borrowed,
// not copied, and must not be modified while the Curve is in use.
//
// Validation rejects: records that do not tile the frame buffer, non-finite times, values or tags,
// negative tags, decreasing times, linear or Bezier records whose successor has the same time,
// Bezier segments that do not fit in the control-point buffer, and Bezier samples whose x does
// not start after the record's time or decreases.
//
// Parameters:
//   - frames: the keyframe records, [tag, time, value1..valueN] per record
//   - curves: the Bezier control-point samples, 18 floats per segment; may be nil if no record is Bezier
//   - options: functional options to configure arity and layout
//
// Returns:
//   - Curve: the validated curve
//   - error: a *DataError wrapping ErrInvalidCurveData if the data is malformed
func NewCurve(frames, curves []float32, options ...CurveBuilderOption) (Curve, error) {
	c := &curve{
		frames:          frames,
		curves:          curves,
		arity:           1,
		componentStride: BezierSize,
	}
	for _, option := range options {
		option(c)
	}
	c.frameStep = common.Coalesce(c.frameStep, FrameEntries(c.arity))
	c.stride = common.Coalesce(c.stride, c.frameStep)

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.last = len(frames)/c.frameStep - 1
	return c, nil
}

// validate checks the layout parameters first and then walks every record once.
func (c *curve) validate() error {
	if c.arity < 1 || c.arity > MaxArity {
		return dataError("arity", -1, "must be between 1 and %d, got %d", MaxArity, c.arity)
	}
	if c.frameStep < FrameEntries(c.arity) {
		return dataError("frameStep", -1, "%d is too small for arity %d", c.frameStep, c.arity)
	}
	if c.stride <= c.arity || c.stride > c.frameStep {
		return dataError("stride", -1, "%d must be in (%d, %d]", c.stride, c.arity, c.frameStep)
	}
	if c.componentStride < 0 {
		return dataError("componentStride", -1, "must not be negative, got %d", c.componentStride)
	}
	n := len(c.frames)
	if n == 0 {
		return dataError("frames", -1, "buffer is empty")
	}
	if n%c.frameStep != 0 {
		return dataError("frames", -1, "length %d is not a multiple of frame step %d", n, c.frameStep)
	}

	records := n / c.frameStep
	for r := range records {
		base := r * c.frameStep
		tag, time := c.frames[base+tagOffset], c.frames[base+timeOffset]
		if !common.IsFinite(tag) || tag < 0 {
			return dataError("frames", r, "invalid curve type tag %v", tag)
		}
		if !common.IsFinite(time) {
			return dataError("frames", r, "time %v is not finite", time)
		}
		for k := 1; k <= c.arity; k++ {
			if v := c.frames[base+timeOffset+k]; !common.IsFinite(v) {
				return dataError("frames", r, "value %d is not finite: %v", k, v)
			}
		}
		if r == records-1 {
			break
		}

		next := c.frames[base+c.frameStep+timeOffset]
		if next < time {
			return dataError("frames", r, "time %v is after next frame time %v", time, next)
		}
		ct, segment := typeOf(tag)
		switch ct {
		case CurveTypeStepped:
		case CurveTypeLinear:
			if end := c.frames[base+timeOffset+c.stride]; end <= time {
				return dataError("frames", r, "linear segment has zero length at time %v", time)
			}
		default:
			if next <= time {
				return dataError("frames", r, "bezier segment has zero length at time %v", time)
			}
			for k := 1; k <= c.arity; k++ {
				if err := c.validateSegment(r, time, c.Segment(segment, k)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateSegment checks that the 9 samples starting at segment exist and advance in x from the record time.
func (c *curve) validateSegment(frame int, time float32, segment int) error {
	if segment+BezierSize > len(c.curves) {
		return dataError("curves", frame, "segment %d exceeds control-point buffer of length %d", segment, len(c.curves))
	}
	prevX := time
	for j := segment; j < segment+BezierSize; j += 2 {
		x, y := c.curves[j], c.curves[j+1]
		if !common.IsFinite(x) || !common.IsFinite(y) {
			return dataError("curves", frame, "sample at %d is not finite", j)
		}
		if j == segment && x <= prevX {
			return dataError("curves", frame, "first sample x %v does not follow frame time %v", x, prevX)
		}
		if x < prevX {
			return dataError("curves", frame, "sample x decreases at %d", j)
		}
		prevX = x
	}
	return nil
}
