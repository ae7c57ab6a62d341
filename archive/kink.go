package archive

import (
	"math"
	"sort"

	"github.com/tidwall/btree"

	"github.com/benz9527/moarchive/lib/hvplus"
)

// Kink points are the local upper bounds of a non-dominated set: the
// maximal points no archive point strictly dominates. The distance of a
// dominated point to the front is its distance to the nearest of them.

// kinkCandidate is an open local upper bound of the (x, y) projection,
// opened at height z.
type kinkCandidate struct {
	x, y, z float64
}

func kinkCandidateLess(a, b kinkCandidate) bool {
	return a.x < b.x || (a.x == b.x && a.y < b.y)
}

func sortedCoords(points []entry, less func(a, b [4]float64) bool) [][4]float64 {
	res := make([][4]float64, 0, len(points))
	for _, p := range points {
		var x [4]float64
		copy(x[:], p.x)
		res = append(res, x)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return less(res[i], res[j]) && !less(res[j], res[i])
	})
	return res
}

// kinkPoints3D sweeps z upwards. A candidate is closed, and becomes a kink
// at the current height, once a point strictly dominates it in (x, y).
// The open candidates are exactly the local upper bounds of the (x, y)
// staircase, so they form an antichain and the closed ones are a run in x.
func kinkPoints3D(points []entry, ref [3]float64) [][]float64 {
	inf := math.Inf(1)
	state := newStaircase(stair{x: ref[0], y: -inf}, stair{x: -inf, y: ref[1]})
	open := btree.NewBTreeGOptions[kinkCandidate](kinkCandidateLess, btree.Options{NoLocks: true})
	open.Set(kinkCandidate{x: ref[0], y: ref[1], z: -inf})

	var kinks [][]float64
	for _, p := range sortedCoords(points, hvplus.LexLess) {
		var closed []kinkCandidate
		open.Ascend(kinkCandidate{x: p[0], y: inf}, func(c kinkCandidate) bool {
			if c.x <= p[0] {
				return true
			}
			if c.y <= p[1] {
				return false
			}
			closed = append(closed, c)
			return true
		})
		for _, c := range closed {
			if c.z < p[2] {
				kinks = append(kinks, []float64{c.x, c.y, p[2]})
			}
			open.Delete(c)
		}

		s := stair{x: p[0], y: p[1]}
		if _, ok := state.add(s); !ok {
			continue
		}
		pred, _ := state.lower(s)
		succ, _ := state.higher(s)
		for _, c := range [2]kinkCandidate{{x: p[0], y: pred.y, z: p[2]}, {x: succ.x, y: p[1], z: p[2]}} {
			if _, found := open.Get(c); !found {
				open.Set(c)
			}
		}
	}
	open.Scan(func(c kinkCandidate) bool {
		if c.z < ref[2] {
			kinks = append(kinks, []float64{c.x, c.y, ref[2]})
		}
		return true
	})
	return kinks
}

// kinkPoints4D runs the same sweep along w over 3-D states. Only the 3-D
// kinks touching the point just added can be new, the others were opened
// by an earlier point.
func kinkPoints4D(points []entry, ref [4]float64) [][]float64 {
	ref3 := [3]float64{ref[0], ref[1], ref[2]}
	state := hvplus.NewArena(3, ref3[:])
	open := map[[3]float64]float64{ref3: math.Inf(-1)}

	var kinks [][]float64
	for _, p := range sortedCoords(points, hvplus.LexLess4) {
		for c, w := range open {
			if p[0] < c[0] && p[1] < c[1] && p[2] < c[2] {
				if w < p[3] {
					kinks = append(kinks, []float64{c[0], c[1], c[2], p[3]})
				}
				delete(open, c)
			}
		}

		_, removed, ok := state.Insert3D(p[:3], nil)
		if !ok {
			continue
		}
		for _, id := range removed {
			state.Free(id)
		}
		for _, k := range kinkPoints3D(arenaEntries(state, hvplus.ZList), ref3) {
			if k[0] != p[0] && k[1] != p[1] && k[2] != p[2] {
				continue
			}
			c := [3]float64{k[0], k[1], k[2]}
			if _, found := open[c]; !found {
				open[c] = p[3]
			}
		}
	}
	for c, w := range open {
		if w < ref[3] {
			kinks = append(kinks, []float64{c[0], c[1], c[2], ref[3]})
		}
	}
	return kinks
}
