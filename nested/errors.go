package nested

import "errors"

var (
	// ErrPathNotFound means a path key was absent, or led to a plain
	// value where a child table was needed.
	ErrPathNotFound = errors.New("nested: path not found")

	// ErrBadHandle means a handle does not name a table of this arena.
	ErrBadHandle = errors.New("nested: handle outside arena")

	// ErrValueType means the terminal value exists but has a different
	// type than the operation expects.
	ErrValueType = errors.New("nested: value has unexpected type")
)
