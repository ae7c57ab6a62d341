package hvplus

import (
	"github.com/benz9527/moarchive/lib/tree"
)

// yxKey orders the staircase of a z prefix by y, then x.
type yxKey struct {
	y, x float64
}

func yxCompare(i, j yxKey) int64 {
	if i.y < j.y {
		return -1
	} else if i.y > j.y {
		return 1
	} else if i.x < j.x {
		return -1
	} else if i.x > j.x {
		return 1
	}
	return 0
}

func (a *Arena) keyOf(id NodeID) yxKey {
	return yxKey{y: a.nodes[id].X[1], x: a.nodes[id].X[0]}
}

func (a *Arena) newStaircase() tree.RBTree[yxKey, NodeID] {
	t := tree.NewRBTreeWithComparator[yxKey, NodeID](yxCompare)
	_ = t.Insert(a.keyOf(S1), S1)
	_ = t.Insert(a.keyOf(S2), S2)
	return t
}

// bounds finds the x and y delimiters of p in the staircase and drops the
// staircase entries p dominates in (x, y). Keys are copied before removing
// because a removal may move keys between tree nodes.
func (a *Arena) bounds(t tree.RBTree[yxKey, NodeID], p NodeID) (cx, cy NodeID, dominated bool) {
	px := a.nodes[p].X
	floor := t.Floor(a.keyOf(p))
	if floor == nil {
		panic( /* debug assertion */ "[hvplus] staircase lost its lower sentinel")
	}
	cx = floor.Val()
	if a.nodes[cx].X[0] <= px[0] {
		return cx, NilID, true
	}
	cxKey := floor.Key()
	for {
		h := t.Higher(cxKey)
		if h == nil {
			panic( /* debug assertion */ "[hvplus] staircase lost its upper sentinel")
		}
		if a.nodes[h.Val()].X[0] < px[0] {
			return cx, h.Val(), false
		}
		if _, err := t.Remove(h.Key()); err != nil {
			panic( /* debug assertion */ "[hvplus] staircase removal failed: " + err.Error())
		}
	}
}

// Preprocess sets Closest and NDomr of every point of the z list in
// O(n log n). Points dominated by an earlier point get NDomr = 1.
func (a *Arena) Preprocess() {
	t := a.newStaircase()
	defer t.Release()
	for p := a.nodes[S2].Next[ZList]; p != S3; p = a.nodes[p].Next[ZList] {
		cx, cy, dominated := a.bounds(t, p)
		if dominated {
			a.nodes[p].NDomr = 1
			continue
		}
		a.nodes[p].NDomr = 0
		a.nodes[p].Closest = [2]NodeID{cx, cy}
		_ = t.Insert(a.keyOf(p), p)
	}
}

// DropDominated unlinks from the z list every point Preprocess marked.
func (a *Arena) DropDominated() []NodeID {
	var dropped []NodeID
	a.Each(ZList, func(id NodeID, node *Node) bool {
		if node.NDomr > 0 {
			a.Unlink(ZList, id)
			dropped = append(dropped, id)
		}
		return true
	})
	return dropped
}

func (a *Arena) restartListY() {
	a.nodes[S2].CNext[1] = S1
	a.nodes[S1].CNext[0] = S2
}

// computeAreaSimple is the area exclusively dominated by p in the (x, y)
// chain, starting from delimiter s and the chain neighbour u along di.
func (a *Arena) computeAreaSimple(p [4]float64, di int, s, u NodeID) float64 {
	dj := 1 - di
	area := (a.nodes[s].X[dj] - p[dj]) * (a.nodes[u].X[di] - p[di])
	for p[dj] < a.nodes[u].X[dj] {
		q := u
		u = a.nodes[u].CNext[di]
		area += (a.nodes[q].X[dj] - p[dj]) * (a.nodes[u].X[di] - a.nodes[q].X[di])
	}
	return area
}

// HV3D sweeps the z list bottom up and returns the 3-D hypervolume. It
// relies on Closest being set, either by Preprocess or kept up to date by
// Insert3D, Remove3D and the 4-D link updates.
func (a *Arena) HV3D() float64 {
	a.restartListY()
	var area, vol float64
	for p := a.nodes[S2].Next[ZList]; p != S3; {
		node := &a.nodes[p]
		next := node.Next[ZList]
		if node.NDomr < 1 {
			node.CNext = node.Closest
			c0, c1 := node.CNext[0], node.CNext[1]
			area += a.computeAreaSimple(node.X, 1, c0, a.nodes[c0].CNext[1])
			a.nodes[c0].CNext[1] = p
			a.nodes[c1].CNext[0] = p
		} else {
			a.Unlink(ZList, p)
		}
		vol += area * (a.nodes[next].X[2] - node.X[2])
		p = next
	}
	return vol
}

// Insert3D adds x to the z list of a non-dominated 3-D point set. Points
// weakly dominated by x are unlinked and returned, the caller frees them.
// ok is false when an existing point weakly dominates x, nothing changes then.
func (a *Arena) Insert3D(x []float64, info any) (id NodeID, removed []NodeID, ok bool) {
	var ux [4]float64
	copy(ux[:3], x)
	cx, cy := S2, S1
	id = NilID
	for q := a.nodes[S2].Next[ZList]; ; {
		next := a.nodes[q].Next[ZList]
		qx := a.nodes[q].X
		if id == NilID {
			if q != S3 && LexLess(qx, ux) {
				if WeaklyDominates(qx, ux, 3) {
					return NilID, nil, false
				}
				if qx[0] > ux[0] && qx[1] < ux[1] {
					c := a.nodes[cx].X
					if qx[0] < c[0] || (qx[0] == c[0] && qx[1] < c[1]) {
						cx = q
					}
				} else if qx[1] > ux[1] && qx[0] < ux[0] {
					c := a.nodes[cy].X
					if qx[1] < c[1] || (qx[1] == c[1] && qx[0] < c[0]) {
						cy = q
					}
				}
				q = next
				continue
			}
			id = a.Alloc(x[:3], info)
			a.nodes[id].Closest = [2]NodeID{cx, cy}
			a.InsertBefore(ZList, id, q)
		}
		if q == S3 {
			return id, removed, true
		}

		if WeaklyDominates(ux, qx, 3) {
			a.Unlink(ZList, q)
			removed = append(removed, q)
			q = next
			continue
		}
		node := &a.nodes[q]
		c0 := a.nodes[node.Closest[0]].X
		if ux[1] < qx[1] && ((qx[0] < ux[0] && ux[0] < c0[0]) || (ux[0] == c0[0] && ux[1] <= c0[1])) {
			node.Closest[0] = id
		}
		c1 := a.nodes[node.Closest[1]].X
		if ux[0] < qx[0] && ((qx[1] < ux[1] && ux[1] < c1[1]) || (ux[1] == c1[1] && ux[0] <= c1[0])) {
			node.Closest[1] = id
		}
		q = next
	}
}

// Remove3D unlinks id from the z list and repairs the delimiters that
// pointed at it. The slot is not freed.
func (a *Arena) Remove3D(id NodeID) {
	t := a.newStaircase()
	defer t.Release()
	for p := a.nodes[S2].Next[ZList]; p != S3; p = a.nodes[p].Next[ZList] {
		if p == id {
			continue
		}
		cx, cy, dominated := a.bounds(t, p)
		if dominated {
			continue
		}
		node := &a.nodes[p]
		if node.Closest[0] == id {
			node.Closest[0] = cx
		}
		if node.Closest[1] == id {
			node.Closest[1] = cy
		}
		_ = t.Insert(a.keyOf(p), p)
	}
	a.Unlink(ZList, id)
}
