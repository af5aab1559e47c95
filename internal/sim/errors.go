package sim

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimestep = errors.New("sim: invalid timestep")

	ErrInvalidDuration = errors.New("sim: invalid duration")

	ErrNoSources = errors.New("sim: no sources")

	// ErrTooManyFrames is returned when more frames are requested than
	// there are steps to take them at.
	ErrTooManyFrames = errors.New("sim: more frames than steps")

	ErrInvalidFrameCount = errors.New("sim: frame count must be positive")
)

// FrameError wraps a failure to emit a frame with where it happened.
type FrameError struct {
	Frame   int
	Step    int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (step %d, t=%.4f): %v", e.Frame, e.Step, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
