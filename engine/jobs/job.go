package jobs

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-curve/common"
	"github.com/Carmen-Shannon/oxy-curve/engine/curve"
)

// Job is one independent unit of work run by a Dispatcher.
// Execute must not touch state shared with other jobs in the same batch; it runs to completion
// without blocking and may run on any goroutine.
type Job interface {
	// Execute runs the job and writes its result into the job's own output.
	//
	// Returns:
	//   - error: an error if the job could not produce its output
	Execute() error
}

// JobFunc adapts an ordinary function to the Job interface.
type JobFunc func() error

// Execute calls f.
func (f JobFunc) Execute() error {
	return f()
}

// Float1Job samples the first value of a curve at Time into Output.
type Float1Job struct {
	Curve  curve.Curve
	Time   float32
	Output float32
}

// Float2Job samples the first two values of a curve at Time into Output.
type Float2Job struct {
	Curve  curve.Curve
	Time   float32
	Output common.Float2
}

// Float3Job samples the first three values of a curve at Time into Output.
type Float3Job struct {
	Curve  curve.Curve
	Time   float32
	Output common.Float3
}

// Float4Job samples the first four values of a curve at Time into Output.
type Float4Job struct {
	Curve  curve.Curve
	Time   float32
	Output common.Float4
}

var (
	_ Job = &Float1Job{}
	_ Job = &Float2Job{}
	_ Job = &Float3Job{}
	_ Job = &Float4Job{}
	_ Job = JobFunc(nil)
)

func (j *Float1Job) Execute() error {
	if err := checkInput(j.Curve, 1, j.Time); err != nil {
		return err
	}
	j.Output = j.Curve.Value(j.Time)
	return nil
}

func (j *Float2Job) Execute() error {
	if err := checkInput(j.Curve, 2, j.Time); err != nil {
		return err
	}
	j.Output = j.Curve.Value2(j.Time)
	return nil
}

func (j *Float3Job) Execute() error {
	if err := checkInput(j.Curve, 3, j.Time); err != nil {
		return err
	}
	j.Output = j.Curve.Value3(j.Time)
	return nil
}

func (j *Float4Job) Execute() error {
	if err := checkInput(j.Curve, 4, j.Time); err != nil {
		return err
	}
	j.Output = j.Curve.Value4(j.Time)
	return nil
}

// checkInput rejects inputs a validated curve cannot sample, before any output is written.
func checkInput(c curve.Curve, arity int, time float32) error {
	if c == nil {
		return fmt.Errorf("%w: job has no curve", curve.ErrInvalidCurveData)
	}
	if c.Arity() < arity {
		return fmt.Errorf("%w: job needs %d values, curve has %d", curve.ErrInvalidCurveData, arity, c.Arity())
	}
	if math.IsNaN(float64(time)) {
		return fmt.Errorf("%w: query time is NaN", curve.ErrInvalidCurveData)
	}
	return nil
}
