package archive

import (
	"math"
)

type entry struct {
	x    []float64
	info any
}

// engine is the per dimension part of an archive. Points handed to an
// engine have the right length and are in domain.
type engine interface {
	// insert adds x unless a point weakly dominates it and returns the
	// points x evicted.
	insert(x []float64, info any) (removed []entry, ok bool)
	delete(x []float64) (info any, ok bool)
	find(x []float64) (info any, ok bool)
	// each visits the points ascending in the sweep coordinate until fn
	// returns false. x is only valid during the call.
	each(fn func(x []float64, info any) bool)
	size() int
	hypervolume() float64
	// improvement is the volume x would add. x is neither dominated nor
	// already present.
	improvement(x []float64) float64
	kinkPoints() [][]float64
	clone() engine
}

// newEngine builds the engine of dims objectives from scratch. A nil ref
// stands for +inf in every coordinate.
func newEngine(dims int, ref []float64, contrib4D bool, points [][]float64, infos []any) engine {
	switch dims {
	case 2:
		return newEngine2D(ref, points, infos)
	case 3:
		return newEngine3D(ref, points, infos)
	case 4:
		return newEngine4D(ref, points, infos, contrib4D)
	default:
	}
	panic( /* debug assertion */ "[archive] engine dimension out of range")
}

// entries copies the points of e in sweep order.
func entries(e engine) []entry {
	res := make([]entry, 0, e.size())
	e.each(func(x []float64, info any) bool {
		res = append(res, entry{x: append([]float64(nil), x...), info: info})
		return true
	})
	return res
}

func refOrInf(ref []float64, dims int) []float64 {
	res := make([]float64, dims)
	for i := range res {
		res[i] = math.Inf(1)
		if i < len(ref) {
			res[i] = ref[i]
		}
	}
	return res
}

func strictlyBelow(x, ref []float64) bool {
	for i := range ref {
		if !(x[i] < ref[i]) {
			return false
		}
	}
	return true
}

func weaklyDominates(a, b []float64) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func equalPoints(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
