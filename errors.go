package probemap

import "errors"

var (
	// ErrInvalidCapacity rejects construction with a capacity that is not
	// a positive power of two. Probing locates buckets with a bitwise
	// mask, so the slot count cannot be arbitrary.
	ErrInvalidCapacity = errors.New("probemap: capacity must be a positive power of two")

	// ErrTableFull is returned by Put when the probe sequence wraps the
	// whole table without finding a free or matching slot.
	ErrTableFull = errors.New("probemap: table is full")
)
