package curve

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-curve/common"
	"github.com/Carmen-Shannon/oxy-curve/internal/testutil"
)

func mustCurve(t *testing.T, frames, curves []float32, options ...CurveBuilderOption) Curve {
	t.Helper()
	c, err := NewCurve(frames, curves, options...)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	return c
}

// cubic evaluates the Bezier from p0 to p3 at parameter s.
func cubic(p0, p1, p2, p3, s float64) float64 {
	u := 1 - s
	return u*u*u*p0 + 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s*p3
}

func TestLinearScenario(t *testing.T) {
	c := mustCurve(t, []float32{0, 0, 0, 0, 1, 10}, nil, WithFrameStep(3), WithStride(3))
	if got := c.Value(0.5); got != 5 {
		t.Fatalf("Value(0.5) = %v, want 5", got)
	}
}

func TestSteppedScenario(t *testing.T) {
	c := mustCurve(t, []float32{1, 0, 7, 1, 2, 9}, nil)
	if got := c.Value(1.9); got != 7 {
		t.Fatalf("Value(1.9) = %v, want 7", got)
	}
}

func TestLinearEndpoints(t *testing.T) {
	for _, tc := range []struct {
		name           string
		t0, v0, t1, v1 float32
	}{
		{name: "rising", t0: 0, v0: 0, t1: 1, v1: 10},
		{name: "falling", t0: 0.25, v0: 3.5, t1: 2.75, v1: -1.25},
		{name: "offset", t0: 10, v0: 100, t1: 10.5, v1: 101},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCurve(t, []float32{0, tc.t0, tc.v0, 0, tc.t1, tc.v1}, nil)
			if got := c.Value(tc.t0); got != tc.v0 {
				t.Fatalf("Value(start) = %v, want %v", got, tc.v0)
			}
			if got := c.Value(tc.t1); got != tc.v1 {
				t.Fatalf("Value(end) = %v, want %v", got, tc.v1)
			}
			testutil.RequireNearlyEqual(t, c.Linear(tc.t1, 0), tc.v1, 1e-5)
		})
	}
}

func TestSteppedHoldsAcrossSegment(t *testing.T) {
	c := mustCurve(t, []float32{1, 0, 7, 1, 2, 9, 0, 3, 0}, nil)
	for _, time := range []float32{0, 0.001, 0.5, 1, 1.5, 1.999} {
		if got := c.Value(time); got != 7 {
			t.Fatalf("Value(%v) = %v, want 7", time, got)
		}
	}
	if got := c.Value(2); got != 9 {
		t.Fatalf("Value(2) = %v, want 9", got)
	}
}

func TestLinearExtrapolatesBeforeFirstFrame(t *testing.T) {
	c := mustCurve(t, []float32{0, 0, 0, 0, 1, 10}, nil)
	if !c.Before(-1) || c.Before(0) {
		t.Fatalf("Before mismatch")
	}
	if got := c.Value(-1); got != -10 {
		t.Fatalf("Value(-1) = %v, want -10", got)
	}
}

func TestHoldsLastFrame(t *testing.T) {
	c := mustCurve(t, []float32{0, 0, 0, 0, 1, 10}, nil)
	for _, time := range []float32{1, 2, 1e6} {
		if got := c.Value(time); got != 10 {
			t.Fatalf("Value(%v) = %v, want 10", time, got)
		}
	}

	single := mustCurve(t, []float32{0, 4, 42}, nil)
	for _, time := range []float32{-1, 4, 100} {
		if got := single.Value(time); got != 42 {
			t.Fatalf("single Value(%v) = %v, want 42", time, got)
		}
	}
}

func TestSearch(t *testing.T) {
	// Times 0, 1, 1, 3 with one value per record.
	c := mustCurve(t, []float32{1, 0, 0, 1, 1, 0, 1, 1, 0, 1, 3, 0}, nil)
	for _, tc := range []struct {
		time float32
		want int
	}{
		{time: -5, want: 0},
		{time: 0, want: 0},
		{time: 0.5, want: 0},
		{time: 1, want: 2},
		{time: 2.9, want: 2},
		{time: 3, want: 3},
		{time: 10, want: 3},
	} {
		if got := c.Search(tc.time); got != tc.want {
			t.Fatalf("Search(%v) = %d, want %d", tc.time, got, tc.want)
		}
	}
}

func TestSearchMonotonicAndIdempotent(t *testing.T) {
	frames := make([]float32, 0, 3*20)
	for i := range 20 {
		frames = append(frames, 0, float32(i)*0.5, float32(i))
	}
	c := mustCurve(t, frames, nil)

	prev := -1
	for i := -10; i < 120; i++ {
		time := float32(i) * 0.1
		got := c.Search(time)
		if again := c.Search(time); again != got {
			t.Fatalf("Search(%v) not idempotent: %d then %d", time, got, again)
		}
		if got < prev {
			t.Fatalf("Search(%v) = %d, below previous %d", time, got, prev)
		}
		prev = got
	}
}

func TestCustomFrameStepAndStride(t *testing.T) {
	// Records carry one padding float after the value.
	frames := []float32{
		0, 0, 2, -1,
		0, 2, 6, -1,
		0, 4, 0, -1,
	}
	c := mustCurve(t, frames, nil, WithFrameStep(4))
	if c.Stride() != 4 || c.FrameStep() != 4 || c.FrameCount() != 3 {
		t.Fatalf("layout = step %d stride %d count %d", c.FrameStep(), c.Stride(), c.FrameCount())
	}
	if got := c.Value(1); got != 4 {
		t.Fatalf("Value(1) = %v, want 4", got)
	}
	if got := c.Value(3); got != 3 {
		t.Fatalf("Value(3) = %v, want 3", got)
	}
}

func TestMultiValueLinearAndStepped(t *testing.T) {
	frames := []float32{
		0, 0, 0, 10, 20, 30,
		1, 2, 4, 14, 24, 34,
		0, 3, 0, 0, 0, 0,
	}
	c := mustCurve(t, frames, nil, WithArity(4))

	if got, want := c.Value2(1), (common.Float2{2, 12}); got != want {
		t.Fatalf("Value2(1) = %v, want %v", got, want)
	}
	if got, want := c.Value3(1), (common.Float3{2, 12, 22}); got != want {
		t.Fatalf("Value3(1) = %v, want %v", got, want)
	}
	if got, want := c.Value4(1), (common.Float4{2, 12, 22, 32}); got != want {
		t.Fatalf("Value4(1) = %v, want %v", got, want)
	}
	if got, want := c.Value4(2.5), (common.Float4{4, 14, 24, 34}); got != want {
		t.Fatalf("Value4(2.5) = %v, want %v", got, want)
	}
	if got, want := c.Value4(3), (common.Float4{0, 0, 0, 0}); got != want {
		t.Fatalf("Value4(3) = %v, want %v", got, want)
	}
}

func TestWriterBezierSamplesFollowCubic(t *testing.T) {
	w := NewWriter(2, 1)
	w.SetFrame(0, 0, 0)
	w.SetFrame(1, 1, 10)
	w.SetBezier(0, 1, 0.25, 0, 0.75, 10)

	curves := w.Curves()
	if len(curves) != BezierSize {
		t.Fatalf("len(curves) = %d, want %d", len(curves), BezierSize)
	}
	for k := range BezierSamples {
		s := float64(k+1) / 10
		testutil.RequireNearlyEqual(t, curves[2*k], float32(cubic(0, 0.25, 0.75, 1, s)), 1e-5)
		testutil.RequireNearlyEqual(t, curves[2*k+1], float32(cubic(0, 0, 10, 10, s)), 1e-4)
	}
}

func TestBezierValue(t *testing.T) {
	w := NewWriter(2, 1)
	w.SetFrame(0, 0, 0)
	w.SetFrame(1, 1, 10)
	w.SetBezier(0, 1, 0.25, 0, 0.75, 10)
	c, err := w.Curve()
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}

	if ct, segment := c.Type(0); ct != CurveTypeBezier || segment != 0 {
		t.Fatalf("Type(0) = %v, %d", ct, segment)
	}
	if got := c.Value(0); got != 0 {
		t.Fatalf("Value(start) = %v, want 0", got)
	}

	curves := c.Curves()
	for k := range BezierSamples {
		x, y := curves[2*k], curves[2*k+1]
		testutil.RequireNearlyEqual(t, c.Value(x), y, 1e-5)
	}

	// Past the final sample the value interpolates towards the next frame.
	lastX, lastY := curves[BezierSize-2], curves[BezierSize-1]
	time := (lastX + 1) / 2
	want := lastY + (time-lastX)/(1-lastX)*(10-lastY)
	testutil.RequireNearlyEqual(t, c.Value(time), want, 1e-5)

	prev := float32(math.Inf(-1))
	for i := 0; i <= 100; i++ {
		v := c.Value(float32(i) / 100)
		if v < prev {
			t.Fatalf("ease curve not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestBezierStraightControlsMatchLinear(t *testing.T) {
	w := NewWriter(2, 1)
	w.SetFrame(0, 0, 0)
	w.SetFrame(1, 3, 6)
	w.SetBezier(0, 1, 1, 2, 2, 4)
	c, err := w.Curve()
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	for i := 0; i < 30; i++ {
		time := float32(i) * 0.1
		testutil.RequireNearlyEqual(t, c.Value(time), 2*time, 1e-4)
	}
}

func TestBezierValuesUseIndependentSegments(t *testing.T) {
	controls := [][4]float32{
		{0.3, 0, 0.7, 1},
		{0.1, 5, 0.2, -3},
		{0.5, 2, 0.5, 2},
		{0.9, 0, 0.95, 1},
	}
	starts := []float32{0, 1, -2, 4}
	ends := []float32{1, -1, 2, 8}

	multi := NewWriter(3, 4)
	multi.SetFrame(0, 0, starts...)
	multi.SetFrame(1, 1, ends...)
	multi.SetFrame(2, 2, ends...)
	for k, cp := range controls {
		multi.SetBezier(0, k+1, cp[0], cp[1], cp[2], cp[3])
	}
	mc, err := multi.Curve()
	if err != nil {
		t.Fatalf("multi Curve: %v", err)
	}

	singles := make([]Curve, len(controls))
	for k, cp := range controls {
		w := NewWriter(3, 1)
		w.SetFrame(0, 0, starts[k])
		w.SetFrame(1, 1, ends[k])
		w.SetFrame(2, 2, ends[k])
		w.SetBezier(0, 1, cp[0], cp[1], cp[2], cp[3])
		if singles[k], err = w.Curve(); err != nil {
			t.Fatalf("single %d Curve: %v", k, err)
		}
	}

	for i := 0; i <= 20; i++ {
		time := float32(i) * 0.1
		got := mc.Value4(time)
		for k := range got {
			if want := singles[k].Value(time); got[k] != want {
				t.Fatalf("Value4(%v)[%d] = %v, want %v", time, k, got[k], want)
			}
		}
		v2, v3 := mc.Value2(time), mc.Value3(time)
		if v2[0] != got[0] || v2[1] != got[1] || v3[2] != got[2] {
			t.Fatalf("Value2/Value3 disagree with Value4 at %v", time)
		}
	}
}

func TestSharedComponentSegment(t *testing.T) {
	w := NewWriter(2, 1)
	w.SetFrame(0, 0, 0)
	w.SetFrame(1, 1, 1)
	w.SetBezier(0, 1, 0.2, 0.5, 0.8, 0.5)

	// Both values read the writer's single segment.
	frames := []float32{
		w.Frames()[0], 0, 0, 0,
		0, 1, 1, 1,
	}
	c := mustCurve(t, frames, w.Curves(), WithArity(2), WithComponentSegmentStride(0))
	got := c.Value2(0.5)
	if got[0] != got[1] {
		t.Fatalf("shared segment values differ: %v", got)
	}
	if c.Segment(4, 2) != 4 {
		t.Fatalf("Segment(4, 2) = %d, want 4", c.Segment(4, 2))
	}
}

func TestAccessors(t *testing.T) {
	frames := []float32{0, 0, 1, 2, 0, 1, 3, 4}
	c := mustCurve(t, frames, nil, WithArity(2))
	if c.Arity() != 2 || c.FrameStep() != 4 || c.Stride() != 4 || c.FrameCount() != 2 {
		t.Fatalf("unexpected layout")
	}
	if &c.Frames()[0] != &frames[0] {
		t.Fatalf("frames were copied")
	}
	if c.Curves() != nil {
		t.Fatalf("curves = %v, want nil", c.Curves())
	}
}
