package tree

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K any, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is an ordered map.
// Nodes returned by the lookups are only valid until the next removal,
// because removing an inner node moves its successor's (or predecessor's)
// key and value into it.
type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V, ifNotPresent ...bool) error
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	Get(key K) (V, bool)
	// Floor returns the node with the greatest key less than or equal to key.
	Floor(key K) RBNode[K, V]
	// Higher returns the node with the least key strictly greater than key.
	Higher(key K) RBNode[K, V]
	Min() RBNode[K, V]
	Max() RBNode[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}
