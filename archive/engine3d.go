package archive

import (
	"github.com/benz9527/moarchive/lib/hvplus"
)

// engine3D keeps the z list of the HV3D+ sweep up to date point by point,
// so a hypervolume query is a single linear sweep.
type engine3D struct {
	arena *hvplus.Arena
}

func newEngine3D(ref []float64, points [][]float64, infos []any) *engine3D {
	a := hvplus.NewArena(3, ref)
	a.Setup(points, infos)
	a.Preprocess()
	for _, id := range a.DropDominated() {
		a.Free(id)
	}
	return &engine3D{arena: a}
}

func (e *engine3D) insert(x []float64, info any) ([]entry, bool) {
	_, removedIDs, ok := e.arena.Insert3D(x, info)
	if !ok {
		return nil, false
	}
	removed := make([]entry, 0, len(removedIDs))
	for _, id := range removedIDs {
		node := e.arena.Node(id)
		removed = append(removed, entry{x: append([]float64(nil), node.X[:3]...), info: node.Info})
		e.arena.Free(id)
	}
	return removed, true
}

func (e *engine3D) delete(x []float64) (any, bool) {
	id := e.arena.Find(hvplus.ZList, x)
	if id == hvplus.NilID {
		return nil, false
	}
	info := e.arena.Node(id).Info
	e.arena.Remove3D(id)
	e.arena.Free(id)
	return info, true
}

func (e *engine3D) find(x []float64) (any, bool) {
	id := e.arena.Find(hvplus.ZList, x)
	if id == hvplus.NilID {
		return nil, false
	}
	return e.arena.Node(id).Info, true
}

func (e *engine3D) each(fn func(x []float64, info any) bool) {
	arenaEach(e.arena, hvplus.ZList, fn)
}

func (e *engine3D) size() int {
	return e.arena.Len(hvplus.ZList)
}

func (e *engine3D) hypervolume() float64 {
	return e.arena.HV3D()
}

func (e *engine3D) improvement(x []float64) float64 {
	return e.arena.Contribution3D(x)
}

func (e *engine3D) kinkPoints() [][]float64 {
	ref := e.arena.Ref()
	return kinkPoints3D(entries(e), [3]float64{ref[0], ref[1], ref[2]})
}

func (e *engine3D) clone() engine {
	return &engine3D{arena: e.arena.Clone()}
}

func arenaEach(a *hvplus.Arena, d int, fn func(x []float64, info any) bool) {
	dims := a.Dims()
	a.Each(d, func(_ hvplus.NodeID, node *hvplus.Node) bool {
		return fn(node.X[:dims], node.Info)
	})
}

func arenaEntries(a *hvplus.Arena, d int) []entry {
	res := make([]entry, 0, a.Len(d))
	arenaEach(a, d, func(x []float64, info any) bool {
		res = append(res, entry{x: append([]float64(nil), x...), info: info})
		return true
	})
	return res
}
