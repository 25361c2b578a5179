package probemap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type slot[K Key, V any] struct {
	key      K
	value    V
	occupied bool
}

// Table is a fixed-capacity hash table with open addressing and linear
// probing. Capacity is chosen at construction and never changes: there is
// no rehashing, no deletion and no internal locking. Wrap it in a mutex
// for concurrent use.
//
// The zero value is not usable, construct with New.
type Table[K Key, V any] struct {
	slots []slot[K, V]
	mask  uint64
	used  int
}

// New creates an empty table with the given slot count. capacity must be
// a positive power of two or ErrInvalidCapacity is returned. The table
// holds at most capacity entries, there is no load factor headroom.
func New[K Key, V any](capacity int) (*Table[K, V], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Table[K, V]{
		slots: make([]slot[K, V], capacity),
		mask:  uint64(capacity - 1),
	}, nil
}

// findSlot walks key's probe sequence and returns the slot occupied by
// key, or the first empty slot. ok is false when the probe wrapped the
// whole table without hitting either. Entries are never removed, so an
// empty slot proves the key is absent.
func (t *Table[K, V]) findSlot(key K) (int, bool) {
	idx := hashKey(key) & t.mask
	for range t.slots {
		s := &t.slots[idx]
		if !s.occupied || s.key == key {
			return int(idx), true
		}
		idx = (idx + 1) & t.mask
	}
	return 0, false
}

// Put inserts key or updates it in place. Returns ErrTableFull when every
// slot is occupied by another key. Updates of present keys succeed even
// on a full table.
func (t *Table[K, V]) Put(key K, value V) error {
	idx, ok := t.findSlot(key)
	if !ok {
		return fmt.Errorf("%w: %d slots", ErrTableFull, len(t.slots))
	}
	s := &t.slots[idx]
	if !s.occupied {
		s.key = key
		s.occupied = true
		t.used++
	}
	s.value = value
	return nil
}

// Get returns the value stored under key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	idx, ok := t.findSlot(key)
	if ok {
		if s := &t.slots[idx]; s.occupied {
			return s.value, true
		}
	}
	var zero V
	return zero, false
}

// Ref returns a pointer to the value slot for key. Slots never move, the
// table never grows, so the pointer stays valid until Clear. Callers may
// mutate the value through it without another probe.
func (t *Table[K, V]) Ref(key K) (*V, bool) {
	idx, ok := t.findSlot(key)
	if ok {
		if s := &t.slots[idx]; s.occupied {
			return &s.value, true
		}
	}
	return nil, false
}

func (t *Table[K, V]) Exist(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of occupied slots.
func (t *Table[K, V]) Len() int {
	return t.used
}

// Cap returns the fixed slot count.
func (t *Table[K, V]) Cap() int {
	return len(t.slots)
}

// Clear empties the table keeping its capacity. Pointers handed out by
// Ref must not be used after Clear.
func (t *Table[K, V]) Clear() {
	clear(t.slots)
	t.used = 0
}

// dont modify the table in fn!
func (t *Table[K, V]) Iterate(fn func(key K, value V) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(s.key, s.value) {
			return
		}
	}
}

// Range calls fn for each entry until fn returns false. Same as Iterate,
// named for sync.Map habits.
func (t *Table[K, V]) Range(fn func(key K, value V) bool) {
	t.Iterate(fn)
}

// Keys returns the occupied keys in slot order, which depends on
// insertion history. Use SortedKeys when a stable order matters.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, t.used)
	t.Iterate(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// SortedKeys returns the table's keys in ascending order.
func SortedKeys[K Key, V any](t *Table[K, V]) []K {
	keys := t.Keys()
	slices.Sort(keys)
	return keys
}
