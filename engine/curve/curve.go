package curve

import (
	"github.com/Carmen-Shannon/oxy-curve/common"
)

// curve is the implementation of the Curve interface.
// It borrows the frame and control-point buffers; neither is copied or written.
type curve struct {
	frames []float32
	curves []float32

	arity, frameStep, stride int
	componentStride          int

	// last is the index of the final record, which has no successor to interpolate towards.
	last int
}

// Curve samples a keyframe curve stored as two flat float32 buffers.
//
// The frame buffer holds fixed-size records of [tag, time, value1..valueN]. The tag selects
// linear (0), stepped (1) or Bezier (>= 2) interpolation towards the next record; for Bezier
// records tag - 2 is the offset of the segment's samples within the control-point buffer.
// Each Bezier segment is 9 (x, y) samples of the cubic between two records.
//
// A Curve is validated when it is built, so the sampling methods never index out of range when
// called with a record index obtained from Search. All methods are read-only and safe to call
// from any number of goroutines at once.
type Curve interface {
	// Search returns the index of the record that starts the segment containing time.
	// Records are scanned forward from the second one; the result is the record before the first
	// record whose time is strictly greater than time. A record whose time equals time starts the segment.
	// If no record is greater, the last record is returned. Times before the first record select record 0.
	//
	// Parameters:
	//   - time: the query time
	//
	// Returns:
	//   - int: the record index (not a float offset)
	Search(time float32) int

	// Linear interpolates the first value between record frame and the record stride floats later.
	// The record must not be the last one.
	//
	// Parameters:
	//   - time: the query time
	//   - frame: the record index, usually from Search
	//
	// Returns:
	//   - float32: the interpolated value
	Linear(time float32, frame int) float32

	// Linear2 is Linear for the first two values.
	Linear2(time float32, frame int) common.Float2

	// Linear3 is Linear for the first three values.
	Linear3(time float32, frame int) common.Float3

	// Linear4 is Linear for the first four values.
	Linear4(time float32, frame int) common.Float4

	// Stepped returns the first value of record frame unchanged.
	//
	// Parameters:
	//   - frame: the record index
	//
	// Returns:
	//   - float32: the held value
	Stepped(frame int) float32

	// Stepped2 is Stepped for the first two values.
	Stepped2(frame int) common.Float2

	// Stepped3 is Stepped for the first three values.
	Stepped3(frame int) common.Float3

	// Stepped4 is Stepped for the first four values.
	Stepped4(frame int) common.Float4

	// Bezier evaluates one value of a Bezier record by walking the 9 samples of its segment.
	// The first sample whose x is >= time is interpolated against the previous point, starting
	// from the record's own time and value. If every sample lies before time, the last sample is
	// interpolated towards the next record's time and value. The record must not be the last one.
	//
	// Parameters:
	//   - time: the query time
	//   - frame: the record index
	//   - valueOffset: which value to read, 1 for the first value, 2 for the second, ...
	//   - segment: offset of the first sample within the control-point buffer
	//
	// Returns:
	//   - float32: the interpolated value
	Bezier(time float32, frame, valueOffset, segment int) float32

	// Value samples the curve's first value at time, dispatching on the tag of the active record.
	// At or after the last record's time the last record's value is held.
	//
	// Parameters:
	//   - time: the query time
	//
	// Returns:
	//   - float32: the sampled value
	Value(time float32) float32

	// Value2 samples the first two values at time.
	Value2(time float32) common.Float2

	// Value3 samples the first three values at time.
	Value3(time float32) common.Float3

	// Value4 samples the first four values at time.
	Value4(time float32) common.Float4

	// Before reports whether time precedes the first record.
	Before(time float32) bool

	// Type returns the curve type and Bezier segment of record frame.
	//
	// Parameters:
	//   - frame: the record index
	//
	// Returns:
	//   - CurveType: the record's curve type
	//   - int: the Bezier segment offset, 0 unless the type is CurveTypeBezier
	Type(frame int) (CurveType, int)

	// Segment returns the control-point offset of the given value's samples for a Bezier segment.
	//
	// Parameters:
	//   - segment: the segment read from the record's tag
	//   - valueOffset: the 1-based value index
	//
	// Returns:
	//   - int: the offset of that value's first sample
	Segment(segment, valueOffset int) int

	// Arity returns the number of values per record.
	Arity() int

	// FrameStep returns the record size in floats.
	FrameStep() int

	// Stride returns the distance in floats from a record's time to the next record's time used by Linear.
	Stride() int

	// FrameCount returns the number of records.
	FrameCount() int

	// Frames returns the borrowed frame buffer. Callers must not modify it.
	Frames() []float32

	// Curves returns the borrowed control-point buffer. Callers must not modify it.
	Curves() []float32
}

var _ Curve = &curve{}

// timeIndex converts a record index to the float offset of that record's time field.
func (c *curve) timeIndex(frame int) int {
	return frame*c.frameStep + timeOffset
}

func (c *curve) Search(time float32) int {
	n := len(c.frames)
	for i := c.frameStep; i < n; i += c.frameStep {
		if c.frames[i+timeOffset] > time {
			return i/c.frameStep - 1
		}
	}
	return n/c.frameStep - 1
}

func (c *curve) Linear(time float32, frame int) float32 {
	i := c.timeIndex(frame)
	startTime, startVal := c.frames[i], c.frames[i+1]
	endTime, endVal := c.frames[i+c.stride], c.frames[i+c.stride+1]
	return startVal + float32((time-startTime)/(endTime-startTime)*(endVal-startVal))
}

func (c *curve) Linear2(time float32, frame int) common.Float2 {
	i := c.timeIndex(frame)
	j := i + c.stride
	startTime, endTime := c.frames[i], c.frames[j]
	start := common.Float2{c.frames[i+1], c.frames[i+2]}
	end := common.Float2{c.frames[j+1], c.frames[j+2]}
	return start.Add(end.Sub(start).Scale((time - startTime) / (endTime - startTime)))
}

func (c *curve) Linear3(time float32, frame int) common.Float3 {
	i := c.timeIndex(frame)
	j := i + c.stride
	startTime, endTime := c.frames[i], c.frames[j]
	start := common.Float3{c.frames[i+1], c.frames[i+2], c.frames[i+3]}
	end := common.Float3{c.frames[j+1], c.frames[j+2], c.frames[j+3]}
	return start.Add(end.Sub(start).Scale((time - startTime) / (endTime - startTime)))
}

func (c *curve) Linear4(time float32, frame int) common.Float4 {
	i := c.timeIndex(frame)
	j := i + c.stride
	startTime, endTime := c.frames[i], c.frames[j]
	start := common.Float4{c.frames[i+1], c.frames[i+2], c.frames[i+3], c.frames[i+4]}
	end := common.Float4{c.frames[j+1], c.frames[j+2], c.frames[j+3], c.frames[j+4]}
	return start.Add(end.Sub(start).Scale((time - startTime) / (endTime - startTime)))
}

func (c *curve) Stepped(frame int) float32 {
	return c.frames[c.timeIndex(frame)+1]
}

func (c *curve) Stepped2(frame int) common.Float2 {
	i := c.timeIndex(frame)
	return common.Float2{c.frames[i+1], c.frames[i+2]}
}

func (c *curve) Stepped3(frame int) common.Float3 {
	i := c.timeIndex(frame)
	return common.Float3{c.frames[i+1], c.frames[i+2], c.frames[i+3]}
}

func (c *curve) Stepped4(frame int) common.Float4 {
	i := c.timeIndex(frame)
	return common.Float4{c.frames[i+1], c.frames[i+2], c.frames[i+3], c.frames[i+4]}
}

func (c *curve) Bezier(time float32, frame, valueOffset, segment int) float32 {
	i := c.timeIndex(frame)
	prevX, prevY := c.frames[i], c.frames[i+valueOffset]
	for j, n := segment, segment+BezierSize; j < n; j += 2 {
		x := c.curves[j]
		if x >= time {
			return prevY + float32((time-prevX)/(x-prevX)*(c.curves[j+1]-prevY))
		}
		prevX, prevY = x, c.curves[j+1]
	}
	next := i + c.frameStep
	return prevY + float32((time-prevX)/(c.frames[next]-prevX)*(c.frames[next+valueOffset]-prevY))
}

func (c *curve) Value(time float32) float32 {
	frame := c.Search(time)
	if frame == c.last {
		return c.Stepped(frame)
	}
	switch ct, segment := c.Type(frame); ct {
	case CurveTypeLinear:
		return c.Linear(time, frame)
	case CurveTypeStepped:
		return c.Stepped(frame)
	default:
		return c.Bezier(time, frame, 1, c.Segment(segment, 1))
	}
}

func (c *curve) Value2(time float32) common.Float2 {
	frame := c.Search(time)
	if frame == c.last {
		return c.Stepped2(frame)
	}
	switch ct, segment := c.Type(frame); ct {
	case CurveTypeLinear:
		return c.Linear2(time, frame)
	case CurveTypeStepped:
		return c.Stepped2(frame)
	default:
		return common.Float2{
			c.Bezier(time, frame, 1, c.Segment(segment, 1)),
			c.Bezier(time, frame, 2, c.Segment(segment, 2)),
		}
	}
}

func (c *curve) Value3(time float32) common.Float3 {
	frame := c.Search(time)
	if frame == c.last {
		return c.Stepped3(frame)
	}
	switch ct, segment := c.Type(frame); ct {
	case CurveTypeLinear:
		return c.Linear3(time, frame)
	case CurveTypeStepped:
		return c.Stepped3(frame)
	default:
		return common.Float3{
			c.Bezier(time, frame, 1, c.Segment(segment, 1)),
			c.Bezier(time, frame, 2, c.Segment(segment, 2)),
			c.Bezier(time, frame, 3, c.Segment(segment, 3)),
		}
	}
}

func (c *curve) Value4(time float32) common.Float4 {
	frame := c.Search(time)
	if frame == c.last {
		return c.Stepped4(frame)
	}
	switch ct, segment := c.Type(frame); ct {
	case CurveTypeLinear:
		return c.Linear4(time, frame)
	case CurveTypeStepped:
		return c.Stepped4(frame)
	default:
		return common.Float4{
			c.Bezier(time, frame, 1, c.Segment(segment, 1)),
			c.Bezier(time, frame, 2, c.Segment(segment, 2)),
			c.Bezier(time, frame, 3, c.Segment(segment, 3)),
			c.Bezier(time, frame, 4, c.Segment(segment, 4)),
		}
	}
}

func (c *curve) Before(time float32) bool {
	return time < c.frames[timeOffset]
}

func (c *curve) Type(frame int) (CurveType, int) {
	return typeOf(c.frames[frame*c.frameStep+tagOffset])
}

func (c *curve) Segment(segment, valueOffset int) int {
	return segment + (valueOffset-1)*c.componentStride
}

func (c *curve) Arity() int {
	return c.arity
}

func (c *curve) FrameStep() int {
	return c.frameStep
}

func (c *curve) Stride() int {
	return c.stride
}

func (c *curve) FrameCount() int {
	return c.last + 1
}

func (c *curve) Frames() []float32 {
	return c.frames
}

func (c *curve) Curves() []float32 {
	return c.curves
}
