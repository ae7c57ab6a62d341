package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// KeyComparator orders keys that are not naturally ordered,
// e.g. coordinate tuples.
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
type KeyComparator[K any] func(i, j K) int64

// OrderedKeyComparator builds the natural comparator of an ordered key.
func OrderedKeyComparator[K OrderedKey]() KeyComparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i > j {
			return 1
		}
		return -1
	}
}
