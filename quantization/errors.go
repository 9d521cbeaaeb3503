package quantization

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when a quantile or option is outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrShapeMismatch is returned when the number of values does not equal numVectors × dim.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInsufficientData is returned when a dimension has no samples to estimate bounds from.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNonFinite is returned when an input value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value")

	// ErrDimensionOutOfRange is returned by batch accessors for an invalid dimension or row index.
	ErrDimensionOutOfRange = errors.New("index out of range")
)

// ShapeMismatchError describes a flat input whose length does not match its declared shape.
//
// It matches ErrShapeMismatch via errors.Is.
type ShapeMismatchError struct {
	NumVectors int
	Dim        int
	Actual     int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %d vectors × %d dims, got %d values", e.NumVectors, e.Dim, e.Actual)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// InsufficientDataError identifies the dimension that had no samples.
// Dimension is -1 when the batch has no dimensions at all.
//
// It matches ErrInsufficientData via errors.Is.
type InsufficientDataError struct {
	Dimension int
}

func (e *InsufficientDataError) Error() string {
	if e.Dimension < 0 {
		return "insufficient data: batch has no dimensions"
	}
	return fmt.Sprintf("insufficient data: dimension %d has no samples", e.Dimension)
}

// Is reports whether target is ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// NonFiniteError reports the position of the first NaN or infinite value found.
//
// It matches ErrNonFinite via errors.Is.
type NonFiniteError struct {
	Index int
	Value float32
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("non-finite value %v at index %d", e.Value, e.Index)
}

// Is reports whether target is ErrNonFinite.
func (e *NonFiniteError) Is(target error) bool { return target == ErrNonFinite }

func invalidParameter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
