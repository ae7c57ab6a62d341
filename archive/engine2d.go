package archive

import (
	"math"
)

// engine2D is the bi-objective staircase.
type engine2D struct {
	ref    [2]float64
	stairs *staircase
}

func newEngine2D(ref []float64, points [][]float64, infos []any) *engine2D {
	r := refOrInf(ref, 2)
	e := &engine2D{
		ref:    [2]float64{r[0], r[1]},
		stairs: newStaircase(),
	}
	for i, p := range points {
		if !strictlyBelow(p, r) {
			continue
		}
		var info any
		if i < len(infos) {
			info = infos[i]
		}
		e.stairs.add(stair{x: p[0], y: p[1], info: info})
	}
	return e
}

func (e *engine2D) insert(x []float64, info any) ([]entry, bool) {
	evicted, ok := e.stairs.add(stair{x: x[0], y: x[1], info: info})
	if !ok {
		return nil, false
	}
	removed := make([]entry, 0, len(evicted))
	for _, s := range evicted {
		removed = append(removed, entry{x: []float64{s.x, s.y}, info: s.info})
	}
	return removed, true
}

func (e *engine2D) delete(x []float64) (any, bool) {
	s, ok := e.stairs.remove(x[0], x[1])
	return s.info, ok
}

func (e *engine2D) find(x []float64) (any, bool) {
	s, ok := e.stairs.get(x[0], x[1])
	return s.info, ok
}

func (e *engine2D) each(fn func(x []float64, info any) bool) {
	var buf [2]float64
	e.stairs.each(func(s stair) bool {
		buf[0], buf[1] = s.x, s.y
		return fn(buf[:], s.info)
	})
}

func (e *engine2D) size() int {
	return e.stairs.len()
}

func (e *engine2D) hypervolume() float64 {
	var hv float64
	left, height := math.Inf(1), 0.0
	e.stairs.each(func(s stair) bool {
		if !math.IsInf(left, 1) {
			hv += (s.x - left) * height
		}
		left, height = s.x, e.ref[1]-s.y
		return true
	})
	if !math.IsInf(left, 1) {
		hv += (e.ref[0] - left) * height
	}
	return hv
}

// improvement walks the slabs right of x until a step drops to x's height.
func (e *engine2D) improvement(x []float64) float64 {
	ceil := e.ref[1]
	if l, ok := e.stairs.lower(stair{x: x[0], y: math.Inf(-1)}); ok {
		ceil = math.Min(ceil, l.y)
	}
	var area float64
	left := x[0]
	done := false
	e.stairs.t.Ascend(stair{x: x[0], y: math.Inf(-1)}, func(s stair) bool {
		area += (s.x - left) * (ceil - x[1])
		if s.y <= x[1] {
			done = true
			return false
		}
		left, ceil = s.x, s.y
		return true
	})
	if !done {
		area += (e.ref[0] - left) * (ceil - x[1])
	}
	return area
}

// kinkPoints pairs every x with the y of the step to its left.
func (e *engine2D) kinkPoints() [][]float64 {
	res := make([][]float64, 0, e.stairs.len()+1)
	y := e.ref[1]
	e.stairs.each(func(s stair) bool {
		res = append(res, []float64{s.x, y})
		y = s.y
		return true
	})
	return append(res, []float64{e.ref[0], y})
}

func (e *engine2D) clone() engine {
	return &engine2D{ref: e.ref, stairs: e.stairs.clone()}
}
