package probemap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidatesCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -8, 3, 6, 100, 1023} {
		_, err := New[int, int](capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity, "Expected capacity %d to be rejected", capacity)
	}
	for _, capacity := range []int{1, 2, 8, 64, 1024} {
		tab, err := New[int, int](capacity)
		assert.NoError(t, err, "Expected capacity %d to be accepted", capacity)
		assert.Equal(t, capacity, tab.Cap(), "Capacity must be kept as given")
		assert.Equal(t, 0, tab.Len(), "New table must be empty")
	}
}

func TestPutAndGet(t *testing.T) {
	tab, err := New[int, string](8)
	assert.NoError(t, err)

	assert.NoError(t, tab.Put(1, "one"))
	assert.NoError(t, tab.Put(2, "two"))
	assert.NoError(t, tab.Put(3, "three"))

	value, found := tab.Get(1)
	assert.True(t, found, "Expected to find key 1")
	assert.Equal(t, "one", value, "Expected value for key 1 is 'one'")

	value, found = tab.Get(3)
	assert.True(t, found, "Expected to find key 3")
	assert.Equal(t, "three", value)

	assert.Equal(t, 3, tab.Len())
}

func TestStringKeys(t *testing.T) {
	tab, err := New[string, int64](8)
	assert.NoError(t, err)

	fields := map[string]int64{"name": 0, "age": 30, "city": 0, "score": 95, "level": 5}
	for k, v := range fields {
		assert.NoError(t, tab.Put(k, v))
	}
	for k, want := range fields {
		got, found := tab.Get(k)
		assert.True(t, found, "Expected to find field %q", k)
		assert.Equal(t, want, got, "Wrong value for field %q", k)
	}
	_, found := tab.Get("missing")
	assert.False(t, found, "Field 'missing' was never put")
}

func TestPutUpdatesInPlace(t *testing.T) {
	tab, _ := New[int, string](8)

	assert.NoError(t, tab.Put(5, "first"))
	assert.NoError(t, tab.Put(5, "second"))
	assert.NoError(t, tab.Put(5, "third"))

	value, found := tab.Get(5)
	assert.True(t, found)
	assert.Equal(t, "third", value, "Last write must win")
	assert.Equal(t, 1, tab.Len(), "Updates must not grow the table")
}

func TestGetAbsent(t *testing.T) {
	tab, _ := New[int, int](16)

	_, found := tab.Get(42)
	assert.False(t, found, "Empty table holds nothing")

	for i := 0; i < 10; i++ {
		assert.NoError(t, tab.Put(i, i*10))
	}
	for _, key := range []int{10, 42, -1, 1 << 20} {
		_, found = tab.Get(key)
		assert.False(t, found, "Key %d was never put", key)
	}
}

// Keys 1 and 9 share bucket 1 of an 8 slot table under the multiplicative
// hash, and key 2 then lands on the slot 9 was displaced to. The probe
// chain must resolve all three.
func TestCollidingKeysShareBuckets(t *testing.T) {
	assert.Equal(t, hashKey(1)&7, hashKey(9)&7, "Keys 1 and 9 must share a bucket at capacity 8")

	tab, _ := New[int, int](8)
	assert.NoError(t, tab.Put(1, 10))
	assert.NoError(t, tab.Put(9, 20))
	assert.NoError(t, tab.Put(2, 30))

	for key, want := range map[int]int{1: 10, 9: 20, 2: 30} {
		got, found := tab.Get(key)
		assert.True(t, found, "Expected to find key %d", key)
		assert.Equal(t, want, got, "Wrong value for key %d", key)
	}
	assert.Equal(t, 3, tab.Len())
}

func TestTableFull(t *testing.T) {
	const capacity = 8
	tab, _ := New[int, int](capacity)

	for i := 0; i < capacity; i++ {
		assert.NoError(t, tab.Put(i, i), "Table must accept exactly %d distinct keys", capacity)
	}
	assert.Equal(t, capacity, tab.Len())

	err := tab.Put(capacity, 0)
	assert.ErrorIs(t, err, ErrTableFull, "Insert into a full table must fail")
	assert.Equal(t, capacity, tab.Len(), "Failed insert must not change the table")

	// updates of present keys still work at 100% load
	assert.NoError(t, tab.Put(3, 333))
	v, found := tab.Get(3)
	assert.True(t, found)
	assert.Equal(t, 333, v)

	// lookups of absent keys terminate after one full wrap
	_, found = tab.Get(capacity)
	assert.False(t, found, "Absent key must not be found in a full table")
}

func TestRefMutatesInPlace(t *testing.T) {
	tab, _ := New[string, int64](8)
	assert.NoError(t, tab.Put("counter", 0))

	ref, found := tab.Ref("counter")
	assert.True(t, found, "Expected a ref to key 'counter'")
	for i := 0; i < 100; i++ {
		*ref++
	}

	v, _ := tab.Get("counter")
	assert.Equal(t, int64(100), v, "Mutations through the ref must be visible")

	_, found = tab.Ref("absent")
	assert.False(t, found, "No ref for a key that was never put")
}

func TestExist(t *testing.T) {
	tab, _ := New[int, string](4)
	tab.Put(1, "one")

	assert.True(t, tab.Exist(1))
	assert.False(t, tab.Exist(2))
}

func TestClear(t *testing.T) {
	tab, _ := New[int, int](8)
	for i := 0; i < 8; i++ {
		assert.NoError(t, tab.Put(i, i))
	}

	tab.Clear()
	assert.Equal(t, 0, tab.Len(), "Clear must empty the table")
	assert.Equal(t, 8, tab.Cap(), "Clear must keep the capacity")

	_, found := tab.Get(3)
	assert.False(t, found, "Cleared entries must be gone")

	// the freed slots are reusable
	for i := 100; i < 108; i++ {
		assert.NoError(t, tab.Put(i, i))
	}
	assert.Equal(t, 8, tab.Len())
}

func TestIterateAndRange(t *testing.T) {
	tab, _ := New[int, int](16)
	want := map[int]int{}
	for i := 0; i < 10; i++ {
		tab.Put(i, i*i)
		want[i] = i * i
	}

	got := map[int]int{}
	tab.Range(func(k, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, want, got, "Range must visit every entry exactly once")

	count := 0
	tab.Iterate(func(k, v int) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count, "Iterate must stop when fn returns false")
}

func TestKeysAndSortedKeys(t *testing.T) {
	tab, _ := New[int, int](16)
	for _, k := range []int{7, 3, 11, 5, 2} {
		tab.Put(k, k)
	}

	keys := tab.Keys()
	assert.Len(t, keys, 5)
	assert.ElementsMatch(t, []int{2, 3, 5, 7, 11}, keys)

	assert.Equal(t, []int{2, 3, 5, 7, 11}, SortedKeys(tab))
}

// Lookup results must not depend on insertion order. Fill tables to 100%
// load from shuffled key sets and compare every lookup against a builtin
// map holding the same data.
func TestInsertionOrderIndependence(t *testing.T) {
	const capacity = 64
	rng := rand.New(rand.NewSource(1))

	want := map[int]int{}
	keys := make([]int, 0, capacity)
	for i := 0; i < capacity; i++ {
		key := i * 3
		keys = append(keys, key)
		want[key] = i
	}

	for round := 0; round < 10; round++ {
		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

		tab, err := New[int, int](capacity)
		assert.NoError(t, err)
		for _, k := range keys {
			assert.NoError(t, tab.Put(k, want[k]))
		}

		for k, wantV := range want {
			got, found := tab.Get(k)
			assert.True(t, found, "Round %d: expected to find key %d", round, k)
			assert.Equal(t, wantV, got, "Round %d: wrong value for key %d", round, k)
		}
		for k := range want {
			_, found := tab.Get(k + 1)
			assert.False(t, found, "Round %d: key %d was never put", round, k+1)
		}
	}
}

func TestTableAll(t *testing.T) {
	tab, err := New[uint32, string](128)
	assert.NoError(t, err)

	for i := uint32(0); i < 100; i++ {
		assert.NoError(t, tab.Put(i, "v"))
	}
	assert.Equal(t, 100, tab.Len())

	for i := uint32(0); i < 100; i++ {
		assert.NoError(t, tab.Put(i, "w"))
	}
	assert.Equal(t, 100, tab.Len(), "Rewrites must not grow the table")

	for i := uint32(0); i < 100; i++ {
		v, found := tab.Get(i)
		assert.True(t, found)
		assert.Equal(t, "w", v)
	}

	tab.Clear()
	assert.Equal(t, 0, tab.Len())
}
