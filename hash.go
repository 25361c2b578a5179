package probemap

// Key is the set of key types a Table knows how to hash: the fixed-width
// integers and strings. Exact types only, so the hash dispatch below stays
// a plain type switch.
type Key interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		string
}

const (
	// knuthMultiplier is Knuth's multiplicative hashing constant.
	// Multiplying by it scatters sequential integer keys across the table.
	knuthMultiplier = 2654435761

	// djb2Seed is the initial state of the djb2 string hash.
	djb2Seed = 5381
)

// hashKey maps a key to its bucket hash. Deterministic and unseeded: the
// same key always walks the same probe sequence, across processes too.
// Not collision resistant, do not feed it attacker-chosen keys.
func hashKey[K Key](key K) uint64 {
	switch k := any(key).(type) {
	case string:
		return hashString(k)
	case int:
		return uint64(k) * knuthMultiplier
	case int8:
		return uint64(k) * knuthMultiplier
	case int16:
		return uint64(k) * knuthMultiplier
	case int32:
		return uint64(k) * knuthMultiplier
	case int64:
		return uint64(k) * knuthMultiplier
	case uint:
		return uint64(k) * knuthMultiplier
	case uint8:
		return uint64(k) * knuthMultiplier
	case uint16:
		return uint64(k) * knuthMultiplier
	case uint32:
		return uint64(k) * knuthMultiplier
	case uint64:
		return k * knuthMultiplier
	}
	return 0 // unreachable, Key admits no other types
}

// hashString is djb2: h = h*33 + c over the raw bytes of s.
func hashString(s string) uint64 {
	h := uint64(djb2Seed)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint64(s[i])
	}
	return h
}
