// Package hvplus holds the linked point structure shared by the 3-D and 4-D
// hypervolume sweeps (HV3D+ and HV4D+).
//
// Every point lives in an Arena slot and refers to its neighbours by NodeID.
// Slots 0, 1 and 2 are the sentinels bounding all lists, so a sweep never
// has to test for an empty neighbour.
package hvplus

import (
	"math"
	"sort"
)

type NodeID int32

const (
	// S1 is the head of every list, [-inf, ref1, -inf, -inf].
	S1 NodeID = iota
	// S2 follows the head, [ref0, -inf, -inf, -inf].
	S2
	// S3 closes every list, [-inf, -inf, ref2, ref3].
	S3
	NilID NodeID = -1
)

const (
	// ZList is the list ordered by the third coordinate.
	ZList = 2
	// WList is the list ordered by the fourth coordinate.
	WList = 3
)

type Node struct {
	X       [4]float64
	Closest [2]NodeID
	CNext   [2]NodeID
	Next    [4]NodeID
	Prev    [4]NodeID
	NDomr   int
	Info    any
	inUse   bool
}

// Arena is not safe for concurrent use.
type Arena struct {
	nodes []Node
	free  []NodeID
	ref   [4]float64
	dims  int
}

// NewArena creates the sentinels for a dims (3 or 4) dimensional sweep.
// A nil ref, or a missing coordinate, is read as +inf.
func NewArena(dims int, ref []float64) *Arena {
	if dims != 3 && dims != 4 {
		panic( /* debug assertion */ "[hvplus] only 3 or 4 dimensions are swept")
	}
	a := &Arena{
		nodes: make([]Node, 3, 16),
		dims:  dims,
	}
	inf := math.Inf(1)
	for i := 0; i < 4; i++ {
		a.ref[i] = inf
		if i < len(ref) {
			a.ref[i] = ref[i]
		}
	}
	a.nodes[S1].X = [4]float64{-inf, a.ref[1], -inf, -inf}
	a.nodes[S2].X = [4]float64{a.ref[0], -inf, -inf, -inf}
	w := -inf
	if dims == 4 {
		w = a.ref[3]
	}
	a.nodes[S3].X = [4]float64{-inf, -inf, a.ref[2], w}
	for id := S1; id <= S3; id++ {
		a.nodes[id].Closest = [2]NodeID{S2, S1}
		a.nodes[id].CNext = [2]NodeID{S2, S1}
		a.nodes[id].inUse = true
	}
	for d := ZList; d <= WList; d++ {
		a.resetList(d)
	}
	return a
}

func (a *Arena) Dims() int {
	return a.dims
}

func (a *Arena) Ref() [4]float64 {
	return a.ref
}

// Node returns the slot of id. The pointer is invalidated by Alloc.
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

func (a *Arena) Alloc(x []float64, info any) NodeID {
	var id NodeID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, Node{})
		id = NodeID(len(a.nodes) - 1)
	}
	node := &a.nodes[id]
	*node = Node{
		Closest: [2]NodeID{S2, S1},
		CNext:   [2]NodeID{S2, S1},
		Next:    [4]NodeID{NilID, NilID, NilID, NilID},
		Prev:    [4]NodeID{NilID, NilID, NilID, NilID},
		Info:    info,
		inUse:   true,
	}
	copy(node.X[:], x)
	return id
}

// Clone copies the whole arena. Infos are shared.
func (a *Arena) Clone() *Arena {
	c := &Arena{
		nodes: make([]Node, len(a.nodes), cap(a.nodes)),
		free:  make([]NodeID, len(a.free)),
		ref:   a.ref,
		dims:  a.dims,
	}
	copy(c.nodes, a.nodes)
	copy(c.free, a.free)
	return c
}

// Free returns an unlinked slot to the arena.
func (a *Arena) Free(id NodeID) {
	if id <= S3 || !a.nodes[id].inUse {
		return
	}
	a.nodes[id] = Node{}
	a.free = append(a.free, id)
}

func (a *Arena) resetList(d int) {
	a.nodes[S1].Next[d], a.nodes[S2].Prev[d] = S2, S1
	a.nodes[S2].Next[d], a.nodes[S3].Prev[d] = S3, S2
	a.nodes[S3].Next[d], a.nodes[S1].Prev[d] = S1, S3
}

// First returns the first point of list d, S3 when the list is empty.
func (a *Arena) First(d int) NodeID {
	return a.nodes[S2].Next[d]
}

// Each visits the points of list d in order until fn returns false.
func (a *Arena) Each(d int, fn func(id NodeID, node *Node) bool) {
	for p := a.nodes[S2].Next[d]; p != S3; {
		next := a.nodes[p].Next[d]
		if !fn(p, &a.nodes[p]) {
			return
		}
		p = next
	}
}

func (a *Arena) Len(d int) int {
	n := 0
	for p := a.nodes[S2].Next[d]; p != S3; p = a.nodes[p].Next[d] {
		n++
	}
	return n
}

// InsertBefore links id into list d in front of at.
func (a *Arena) InsertBefore(d int, id, at NodeID) {
	prev := a.nodes[at].Prev[d]
	a.nodes[id].Prev[d], a.nodes[id].Next[d] = prev, at
	a.nodes[prev].Next[d] = id
	a.nodes[at].Prev[d] = id
}

// Unlink drops id from list d. Its own links are kept so an ongoing
// traversal can step over it.
func (a *Arena) Unlink(d int, id NodeID) {
	n := &a.nodes[id]
	a.nodes[n.Prev[d]].Next[d] = n.Next[d]
	a.nodes[n.Next[d]].Prev[d] = n.Prev[d]
}

// InsertSorted allocates x and links it into list d in front of the first
// point it is lexicographically less than. Equal points keep their
// insertion order.
func (a *Arena) InsertSorted(d int, x []float64, info any) NodeID {
	less := LexLess
	if d == WList {
		less = LexLess4
	}
	id := a.Alloc(x[:a.dims], info)
	ux := a.nodes[id].X
	at := a.nodes[S2].Next[d]
	for at != S3 && less(a.nodes[at].X, ux) {
		at = a.nodes[at].Next[d]
	}
	a.InsertBefore(d, id, at)
	return id
}

// Find returns the point of list d with exactly the coordinates x.
func (a *Arena) Find(d int, x []float64) NodeID {
	for p := a.nodes[S2].Next[d]; p != S3; p = a.nodes[p].Next[d] {
		if sameCoords(a.nodes[p].X[:a.dims], x) {
			return p
		}
	}
	return NilID
}

// InDomain reports whether x is strictly below the reference point.
func (a *Arena) InDomain(x []float64) bool {
	for i := 0; i < a.dims && i < len(x); i++ {
		if !(x[i] < a.ref[i]) {
			return false
		}
	}
	return true
}

// Setup links the in-domain points into the list of the last dimension,
// sorted lexicographically with the last coordinate most significant.
// 3-D points also get a zero fourth coordinate. The returned slice holds
// the ids in list order.
func (a *Arena) Setup(points [][]float64, infos []any) []NodeID {
	idx := make([]int, 0, len(points))
	for i, p := range points {
		if a.InDomain(p) {
			idx = append(idx, i)
		}
	}
	less := LexLess
	d := ZList
	if a.dims == 4 {
		less, d = LexLess4, WList
	}
	sort.SliceStable(idx, func(i, j int) bool {
		var pi, pj [4]float64
		copy(pi[:a.dims], points[idx[i]])
		copy(pj[:a.dims], points[idx[j]])
		return less(pi, pj) && !less(pj, pi)
	})

	ids := make([]NodeID, 0, len(idx))
	for _, i := range idx {
		var info any
		if i < len(infos) {
			info = infos[i]
		}
		id := a.Alloc(points[i][:a.dims], info)
		a.InsertBefore(d, id, S3)
		ids = append(ids, id)
	}
	return ids
}

// LexLess orders by z, then y, then x. Equal points are less than each other.
func LexLess(a, b [4]float64) bool {
	return a[2] < b[2] || (a[2] == b[2] && (a[1] < b[1] || (a[1] == b[1] && a[0] <= b[0])))
}

// LexLess4 orders by w first and falls back to LexLess.
func LexLess4(a, b [4]float64) bool {
	return a[3] < b[3] || (a[3] == b[3] && LexLess(a, b))
}

func sameCoords(x []float64, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// WeaklyDominates reports a <= b in the first dims coordinates.
func WeaklyDominates(a, b [4]float64, dims int) bool {
	for i := 0; i < dims; i++ {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}
