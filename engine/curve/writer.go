package curve

import (
	"fmt"
)

// Writer fills frame and control-point buffers in the layout Curve reads.
// Records default to linear; SetStepped and SetBezier change a record's curve type.
// A Writer is not safe for concurrent use.
type Writer struct {
	frames, curves []float32

	arity, frameStep int
}

// NewWriter creates a Writer with room for frameCount records of the given arity.
// Panics if frameCount is less than 1 or arity is outside 1 through 4.
//
// Parameters:
//   - frameCount: the number of records to allocate
//   - arity: the number of values per record
//
// Returns:
//   - *Writer: the newly created writer
func NewWriter(frameCount, arity int) *Writer {
	if frameCount < 1 {
		panic(fmt.Sprintf("curve: NewWriter requires at least one frame, got %d", frameCount))
	}
	if arity < 1 || arity > MaxArity {
		panic(fmt.Sprintf("curve: NewWriter arity must be between 1 and %d, got %d", MaxArity, arity))
	}
	frameStep := FrameEntries(arity)
	return &Writer{
		frames:    make([]float32, frameCount*frameStep),
		arity:     arity,
		frameStep: frameStep,
	}
}

// SetFrame sets the time and values of a record. The record's curve type is left unchanged.
// Panics if len(values) does not match the writer's arity.
//
// Parameters:
//   - frame: the record index
//   - time: the record time
//   - values: one value per component
func (w *Writer) SetFrame(frame int, time float32, values ...float32) {
	if len(values) != w.arity {
		panic(fmt.Sprintf("curve: SetFrame expects %d values, got %d", w.arity, len(values)))
	}
	i := frame*w.frameStep + timeOffset
	w.frames[i] = time
	copy(w.frames[i+1:i+1+w.arity], values)
}

// SetLinear marks a record as linearly interpolated to its successor.
// Any Bezier samples previously written for it stay in the control-point buffer unused.
//
// Parameters:
//   - frame: the record index
func (w *Writer) SetLinear(frame int) {
	w.frames[frame*w.frameStep+tagOffset] = float32(CurveTypeLinear)
}

// SetStepped marks a record as holding its value until its successor.
//
// Parameters:
//   - frame: the record index
func (w *Writer) SetStepped(frame int) {
	w.frames[frame*w.frameStep+tagOffset] = float32(CurveTypeStepped)
}

// SetBezier marks a record as Bezier and writes the 9 samples of one value's cubic towards the next record.
// The curve runs from (time, value) of frame to (time, value) of frame+1 with control points (cx1, cy1)
// and (cx2, cy2), so both records must be set first. The samples are generated by forward differencing
// at t = 0.1 through 0.9 with float32 arithmetic. The first call for a record allocates segments for all
// of its values; later calls for other values of the same record reuse them.
//
// Parameters:
//   - frame: the record index, must not be the last record
//   - value: the 1-based value index
//   - cx1, cy1: the first control point
//   - cx2, cy2: the second control point
func (w *Writer) SetBezier(frame, value int, cx1, cy1, cx2, cy2 float32) {
	if value < 1 || value > w.arity {
		panic(fmt.Sprintf("curve: SetBezier value must be between 1 and %d, got %d", w.arity, value))
	}
	base := frame * w.frameStep
	segment := w.segmentFor(base)
	i := segment + (value-1)*BezierSize

	time1, value1 := w.frames[base+timeOffset], w.frames[base+timeOffset+value]
	next := base + w.frameStep
	time2, value2 := w.frames[next+timeOffset], w.frames[next+timeOffset+value]

	tmpx, tmpy := float32((time1-cx1*2+cx2)*0.03), float32((value1-cy1*2+cy2)*0.03)
	dddx := float32((float32((cx1-cx2)*3)-time1+time2)*0.006)
	dddy := float32((float32((cy1-cy2)*3)-value1+value2)*0.006)
	ddx, ddy := float32(tmpx*2)+dddx, float32(tmpy*2)+dddy
	dx := float32((cx1-time1)*0.3) + tmpx + float32(dddx*0.16666667)
	dy := float32((cy1-value1)*0.3) + tmpy + float32(dddy*0.16666667)
	x, y := time1+dx, value1+dy
	for n := i + BezierSize; i < n; i += 2 {
		w.curves[i] = x
		w.curves[i+1] = y
		dx += ddx
		dy += ddy
		ddx += dddx
		ddy += dddy
		x += dx
		y += dy
	}
}

// segmentFor returns the record's Bezier segment, allocating one block of arity segments if the record is not Bezier yet.
func (w *Writer) segmentFor(base int) int {
	if ct, segment := typeOf(w.frames[base+tagOffset]); ct == CurveTypeBezier {
		return segment
	}
	segment := len(w.curves)
	// Tags are float32; offsets past 2^24 are no longer exactly representable.
	if segment+int(CurveTypeBezier) > 1<<24 {
		panic(fmt.Sprintf("curve: control-point buffer too large for float tags (%d)", segment))
	}
	w.curves = append(w.curves, make([]float32, w.arity*BezierSize)...)
	w.frames[base+tagOffset] = float32(int(CurveTypeBezier) + segment)
	return segment
}

// Frames returns the frame buffer being written.
func (w *Writer) Frames() []float32 {
	return w.frames
}

// Curves returns the control-point buffer being written.
func (w *Writer) Curves() []float32 {
	return w.curves
}

// Curve validates the written buffers and returns a Curve over them. The Curve borrows the writer's
// buffers, so the writer must not be modified afterwards.
//
// Parameters:
//   - options: additional options applied after arity and frame step
//
// Returns:
//   - Curve: the validated curve
//   - error: a *DataError if the written data is malformed
func (w *Writer) Curve(options ...CurveBuilderOption) (Curve, error) {
	opts := append([]CurveBuilderOption{WithArity(w.arity), WithFrameStep(w.frameStep)}, options...)
	return NewCurve(w.frames, w.curves, opts...)
}
