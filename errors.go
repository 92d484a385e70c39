package shadowgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension reports a non-positive or out-of-range geometric
	// input. It is returned before any pixel is allocated.
	ErrInvalidDimension = errors.New("shadowgen: invalid dimension")

	// ErrRender reports degenerate canvas bounds (zero width or height).
	ErrRender = errors.New("shadowgen: degenerate canvas bounds")

	// ErrEmptyResult reports that the crop found no pixel with non-zero
	// alpha. It is a legitimate outcome; the caller decides whether it is
	// an error.
	ErrEmptyResult = errors.New("shadowgen: empty result")

	// ErrInvariantViolation reports negative insets, meaning the base shape
	// ended up outside the crop. It indicates a defect upstream and must not
	// be clamped away.
	ErrInvariantViolation = errors.New("shadowgen: invariant violation")
)

// Stage names used in StageError.
const (
	StageGeometry  = "geometry"
	StageLayer     = "layer"
	StageComposite = "composite"
	StageCrop      = "crop"
	StageInsets    = "insets"
)

// StageError records which pipeline stage failed. Err wraps one of the
// package sentinels, so errors.Is works through it.
type StageError struct {
	// Stage is the pipeline stage (StageGeometry, StageCrop, ...).
	Stage string
	// Index is the shadow layer index for StageLayer errors, -1 otherwise.
	Index int
	// Err is the underlying error.
	Err error
}

func (e *StageError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s [layer %d]: %v", e.Stage, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Index: -1, Err: err}
}

func layerErr(index int, err error) error {
	return &StageError{Stage: StageLayer, Index: index, Err: err}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidDimension}, args...)...)
}
