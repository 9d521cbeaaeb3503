package fvecs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is returned when a record's header disagrees with the
	// expected dimension or the data ends inside a record.
	ErrMalformedRecord = errors.New("fvecs: malformed record")
	// ErrNotEnoughRecords is returned when more records are requested than the source holds.
	ErrNotEnoughRecords = errors.New("fvecs: not enough records")
	// ErrInvalidArgument is returned for a non-positive dimension or a negative count.
	ErrInvalidArgument = errors.New("fvecs: invalid argument")
)

// MalformedRecordError describes the first bad record found in a source.
type MalformedRecordError struct {
	Index    int   // record index
	Offset   int64 // byte offset of the record
	Declared int   // dimension from the record header, -1 if the header is truncated
	Expected int
}

func (e *MalformedRecordError) Error() string {
	if e.Declared < 0 {
		return fmt.Sprintf("fvecs: record %d at offset %d is truncated", e.Index, e.Offset)
	}
	if e.Declared == e.Expected {
		return fmt.Sprintf("fvecs: record %d at offset %d is truncated (dim %d)", e.Index, e.Offset, e.Declared)
	}
	return fmt.Sprintf("fvecs: record %d at offset %d declares dim %d, expected %d", e.Index, e.Offset, e.Declared, e.Expected)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
