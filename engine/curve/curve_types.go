package curve

// CurveType identifies how a keyframe record interpolates to its successor.
// It is stored in the frame buffer as a float and truncated to an integer when read.
type CurveType int

const (
	// CurveTypeLinear interpolates linearly between a record and the next one.
	CurveTypeLinear CurveType = iota

	// CurveTypeStepped holds the record's value until the next record.
	CurveTypeStepped

	// CurveTypeBezier marks the first Bezier tag. Any tag >= CurveTypeBezier is Bezier and
	// tag - CurveTypeBezier is the segment offset into the control-point buffer.
	CurveTypeBezier
)

const (
	// BezierSize is the number of floats per Bezier segment: 9 (x, y) sample pairs.
	BezierSize = 18

	// BezierSamples is the number of (x, y) samples in one segment.
	BezierSamples = BezierSize / 2

	// MaxArity is the largest number of value components a curve record can hold.
	MaxArity = 4
)

const (
	// tagOffset is the offset of the curve-type tag within a record.
	tagOffset = 0

	// timeOffset is the offset of the time field within a record. Value k (1-based) sits at timeOffset + k.
	timeOffset = 1
)

// FrameEntries returns the minimal record size for a curve of the given arity: tag, time, and one float per value.
//
// Parameters:
//   - arity: the number of value components (1-4)
//
// Returns:
//   - int: the record size in floats
func FrameEntries(arity int) int {
	return timeOffset + 1 + arity
}

// typeOf converts a stored tag to its curve type and Bezier segment.
// The segment is only meaningful when the returned type is CurveTypeBezier.
func typeOf(tag float32) (CurveType, int) {
	t := int(tag)
	if t >= int(CurveTypeBezier) {
		return CurveTypeBezier, t - int(CurveTypeBezier)
	}
	return CurveType(t), 0
}
