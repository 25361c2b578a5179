// Package nested builds tree shaped structures out of probemap tables and
// resolves key paths through them. Tables live in an Arena and refer to
// each other by Handle, never by pointer: a parent stores the child's
// handle as an ordinary value, and every hop is validated during
// resolution. Values are held as any, by convention int64 for plain
// numbers and Handle for child tables.
package nested

import (
	"fmt"

	"github.com/goupdate/probemap"
)

// Handle names a table inside an Arena. Handles are dense indexes,
// valid until Reset.
type Handle uint32

// Arena owns a set of tables that may reference each other. Not safe for
// concurrent use, wrap it in a mutex.
type Arena[K probemap.Key] struct {
	tables []*probemap.Table[K, any]
}

func NewArena[K probemap.Key]() *Arena[K] {
	return &Arena[K]{}
}

// NewTable adds an empty table to the arena and returns its handle.
// capacity must be a positive power of two, see probemap.New.
func (a *Arena[K]) NewTable(capacity int) (Handle, error) {
	t, err := probemap.New[K, any](capacity)
	if err != nil {
		return 0, err
	}
	a.tables = append(a.tables, t)
	return Handle(len(a.tables) - 1), nil
}

// Table resolves a handle to its table.
func (a *Arena[K]) Table(h Handle) (*probemap.Table[K, any], error) {
	if int(h) >= len(a.tables) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadHandle, h, len(a.tables))
	}
	return a.tables[h], nil
}

// Link stores child under key in parent. Both handles are validated
// first, so a linked reference can never dangle.
func (a *Arena[K]) Link(parent Handle, key K, child Handle) error {
	pt, err := a.Table(parent)
	if err != nil {
		return err
	}
	if _, err := a.Table(child); err != nil {
		return err
	}
	return pt.Put(key, child)
}

// Len returns the number of tables in the arena.
func (a *Arena[K]) Len() int {
	return len(a.tables)
}

// Reset drops every table. Outstanding handles and refs become invalid.
func (a *Arena[K]) Reset() {
	a.tables = nil
}
