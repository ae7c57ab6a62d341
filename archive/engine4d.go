package archive

import (
	"github.com/benz9527/moarchive/lib/hvplus"
)

// engine4D only keeps the w list. HV4D rebuilds the z lists of all slices
// on every query, so a mutation is a plain O(n) list update and a
// hypervolume query costs O(n^2).
type engine4D struct {
	arena   *hvplus.Arena
	contrib bool
}

func newEngine4D(ref []float64, points [][]float64, infos []any, contrib bool) *engine4D {
	a := hvplus.NewArena(4, ref)
	a.Setup(points, infos)
	// A weak dominator always comes first in the w list.
	kept := make([][4]float64, 0, len(points))
	a.Each(hvplus.WList, func(id hvplus.NodeID, node *hvplus.Node) bool {
		for _, k := range kept {
			if hvplus.WeaklyDominates(k, node.X, 4) {
				a.Unlink(hvplus.WList, id)
				a.Free(id)
				return true
			}
		}
		kept = append(kept, node.X)
		return true
	})
	return &engine4D{arena: a, contrib: contrib}
}

func (e *engine4D) insert(x []float64, info any) ([]entry, bool) {
	var ux [4]float64
	copy(ux[:], x)
	dominated := false
	e.arena.Each(hvplus.WList, func(_ hvplus.NodeID, node *hvplus.Node) bool {
		dominated = hvplus.WeaklyDominates(node.X, ux, 4)
		return !dominated
	})
	if dominated {
		return nil, false
	}
	var removed []entry
	e.arena.Each(hvplus.WList, func(id hvplus.NodeID, node *hvplus.Node) bool {
		if hvplus.WeaklyDominates(ux, node.X, 4) {
			removed = append(removed, entry{x: append([]float64(nil), node.X[:]...), info: node.Info})
			e.arena.Unlink(hvplus.WList, id)
			e.arena.Free(id)
		}
		return true
	})
	e.arena.InsertSorted(hvplus.WList, x, info)
	return removed, true
}

func (e *engine4D) delete(x []float64) (any, bool) {
	id := e.arena.Find(hvplus.WList, x)
	if id == hvplus.NilID {
		return nil, false
	}
	info := e.arena.Node(id).Info
	e.arena.Unlink(hvplus.WList, id)
	e.arena.Free(id)
	return info, true
}

func (e *engine4D) find(x []float64) (any, bool) {
	id := e.arena.Find(hvplus.WList, x)
	if id == hvplus.NilID {
		return nil, false
	}
	return e.arena.Node(id).Info, true
}

func (e *engine4D) each(fn func(x []float64, info any) bool) {
	arenaEach(e.arena, hvplus.WList, fn)
}

func (e *engine4D) size() int {
	return e.arena.Len(hvplus.WList)
}

func (e *engine4D) hypervolume() float64 {
	return e.arena.HV4D(e.contrib)
}

// improvement measures the archive with and without a temporary node for x.
func (e *engine4D) improvement(x []float64) float64 {
	before := e.arena.HV4D(e.contrib)
	id := e.arena.InsertSorted(hvplus.WList, x, nil)
	after := e.arena.HV4D(e.contrib)
	e.arena.Unlink(hvplus.WList, id)
	e.arena.Free(id)
	return after - before
}

func (e *engine4D) kinkPoints() [][]float64 {
	return kinkPoints4D(entries(e), e.arena.Ref())
}

func (e *engine4D) clone() engine {
	return &engine4D{arena: e.arena.Clone(), contrib: e.contrib}
}
