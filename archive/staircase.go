package archive

import (
	"math"

	"github.com/tidwall/btree"
)

type stair struct {
	x, y float64
	info any
}

func stairLess(a, b stair) bool {
	return a.x < b.x || (a.x == b.x && a.y < b.y)
}

// staircase keeps mutually non-dominated (x, y) pairs, ascending in x and
// therefore descending in y.
type staircase struct {
	t *btree.BTreeG[stair]
}

func newStaircase(seeds ...stair) *staircase {
	s := &staircase{
		t: btree.NewBTreeGOptions[stair](stairLess, btree.Options{NoLocks: true}),
	}
	for _, seed := range seeds {
		s.add(seed)
	}
	return s
}

func (s *staircase) len() int {
	return s.t.Len()
}

// floor returns the entry with the largest x not above x.
func (s *staircase) floor(x float64) (res stair, ok bool) {
	s.t.Descend(stair{x: x, y: math.Inf(1)}, func(item stair) bool {
		res, ok = item, true
		return false
	})
	return
}

func (s *staircase) lower(p stair) (res stair, ok bool) {
	s.t.Descend(p, func(item stair) bool {
		if !stairLess(item, p) {
			return true
		}
		res, ok = item, true
		return false
	})
	return
}

func (s *staircase) higher(p stair) (res stair, ok bool) {
	s.t.Ascend(p, func(item stair) bool {
		if !stairLess(p, item) {
			return true
		}
		res, ok = item, true
		return false
	})
	return
}

// dominated reports whether an entry weakly dominates (x, y).
func (s *staircase) dominated(x, y float64) bool {
	f, ok := s.floor(x)
	return ok && f.y <= y
}

// add inserts p and evicts the entries it weakly dominates. ok is false,
// and nothing changes, when an entry weakly dominates p.
func (s *staircase) add(p stair) (evicted []stair, ok bool) {
	if s.dominated(p.x, p.y) {
		return nil, false
	}
	s.t.Ascend(stair{x: p.x, y: math.Inf(-1)}, func(item stair) bool {
		if item.y < p.y {
			return false
		}
		evicted = append(evicted, item)
		return true
	})
	for _, e := range evicted {
		s.t.Delete(e)
	}
	s.t.Set(p)
	return evicted, true
}

func (s *staircase) get(x, y float64) (stair, bool) {
	return s.t.Get(stair{x: x, y: y})
}

func (s *staircase) remove(x, y float64) (stair, bool) {
	return s.t.Delete(stair{x: x, y: y})
}

func (s *staircase) each(fn func(item stair) bool) {
	s.t.Scan(fn)
}

func (s *staircase) clone() *staircase {
	return &staircase{t: s.t.Copy()}
}
