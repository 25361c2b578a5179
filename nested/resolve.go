package nested

import (
	"fmt"

	"github.com/goupdate/probemap"
)

// TableAt returns the table reached by following path from root. An empty
// path is root itself. Every path key must hold a child Handle.
func (a *Arena[K]) TableAt(root Handle, path ...K) (*probemap.Table[K, any], error) {
	t, err := a.Table(root)
	if err != nil {
		return nil, err
	}
	for _, key := range path {
		v, ok := t.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: no entry for %v", ErrPathNotFound, key)
		}
		child, ok := v.(Handle)
		if !ok {
			return nil, fmt.Errorf("%w: %v holds %T, not a child table", ErrPathNotFound, key, v)
		}
		if t, err = a.Table(child); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// walk descends to the table holding the last path key and returns it
// together with that key.
func (a *Arena[K]) walk(root Handle, path []K) (*probemap.Table[K, any], K, error) {
	var last K
	if len(path) == 0 {
		return nil, last, fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	t, err := a.TableAt(root, path[:len(path)-1]...)
	if err != nil {
		return nil, last, err
	}
	return t, path[len(path)-1], nil
}

// Resolve walks path from root, one table per key, and returns a mutable
// reference to the terminal slot. Every key before the last must hold a
// child handle and the last must be present in the final table. The
// reference stays valid until Reset, repeated mutations need no second
// walk.
func (a *Arena[K]) Resolve(root Handle, path ...K) (*any, error) {
	t, last, err := a.walk(root, path)
	if err != nil {
		return nil, err
	}
	ref, ok := t.Ref(last)
	if !ok {
		return nil, fmt.Errorf("%w: no terminal entry for %v", ErrPathNotFound, last)
	}
	return ref, nil
}

// GetPath reads the value at path without exposing the slot.
func (a *Arena[K]) GetPath(root Handle, path ...K) (any, error) {
	ref, err := a.Resolve(root, path...)
	if err != nil {
		return nil, err
	}
	return *ref, nil
}

// PutPath stores value under the last path key, inserting or updating it
// in the table the earlier keys lead to. Those earlier keys must already
// resolve, PutPath never creates intermediate tables.
func (a *Arena[K]) PutPath(root Handle, value any, path ...K) error {
	t, last, err := a.walk(root, path)
	if err != nil {
		return err
	}
	return t.Put(last, value)
}

// AddInt adds delta to the int64 at path and returns the new value. The
// terminal must already hold an int64.
func (a *Arena[K]) AddInt(root Handle, delta int64, path ...K) (int64, error) {
	ref, err := a.Resolve(root, path...)
	if err != nil {
		return 0, err
	}
	cur, ok := (*ref).(int64)
	if !ok {
		return 0, fmt.Errorf("%w: terminal holds %T, not int64", ErrValueType, *ref)
	}
	cur += delta
	*ref = cur
	return cur, nil
}
