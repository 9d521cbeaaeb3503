package squant

import (
	"errors"
	"fmt"

	"github.com/hupe1980/squant/blobstore"
	"github.com/hupe1980/squant/fvecs"
	"github.com/hupe1980/squant/quantization"
)

// Errors returned by Compressor. Typed details remain reachable with errors.As
// on the quantization and fvecs error types.
var (
	ErrInvalidParameter    = quantization.ErrInvalidParameter
	ErrShapeMismatch       = quantization.ErrShapeMismatch
	ErrInsufficientData    = quantization.ErrInsufficientData
	ErrNonFinite           = quantization.ErrNonFinite
	ErrDimensionOutOfRange = quantization.ErrDimensionOutOfRange
	ErrMalformedRecord     = fvecs.ErrMalformedRecord
	ErrNotFound            = blobstore.ErrNotFound
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// A source with too few records cannot supply the samples the batch needs.
	if errors.Is(err, fvecs.ErrNotEnoughRecords) {
		return fmt.Errorf("%w: %w", ErrInsufficientData, err)
	}
	if errors.Is(err, fvecs.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	return err
}
