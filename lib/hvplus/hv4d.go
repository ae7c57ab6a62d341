package hvplus

// AddToZ splices p into the z list at the position recorded in p.Prev[2].
func (a *Arena) AddToZ(p NodeID) {
	node := &a.nodes[p]
	node.Next[ZList] = a.nodes[node.Prev[ZList]].Next[ZList]
	a.nodes[node.Next[ZList]].Prev[ZList] = p
	a.nodes[node.Prev[ZList]].Next[ZList] = p
}

func (a *Arena) RemoveFromZ(p NodeID) {
	a.Unlink(ZList, p)
}

// SetupZAndClosest walks the z list up to the position of p, counting the
// points dominating p in (x, y) and choosing its delimiters. p is not linked.
func (a *Arena) SetupZAndClosest(p NodeID) {
	a.setupZAndClosest(p, false)
}

// RestartBaseSetupZAndClosest does what SetupZAndClosest does and also
// rebuilds the (x, y) chain of the points below p, as a sweep would have
// left it right before reaching p.
func (a *Arena) RestartBaseSetupZAndClosest(p NodeID) {
	a.setupZAndClosest(p, true)
}

func (a *Arena) setupZAndClosest(p NodeID, restart bool) {
	if restart {
		a.restartListY()
	}
	px := a.nodes[p].X
	c0, c1 := S2, S1
	ndomr := 0
	q := a.nodes[S2].Next[ZList]
	for q != S3 && LexLess(a.nodes[q].X, px) {
		qn := &a.nodes[q]
		if restart {
			qn.CNext = qn.Closest
			a.nodes[qn.CNext[0]].CNext[1] = q
			a.nodes[qn.CNext[1]].CNext[0] = q
		}
		qx := qn.X
		if qx[0] <= px[0] && qx[1] <= px[1] {
			ndomr++
		} else if qx[1] < px[1] {
			c := a.nodes[c0].X
			if qx[0] < c[0] || (qx[0] == c[0] && qx[1] < c[1]) {
				c0 = q
			}
		} else if qx[0] < px[0] {
			c := a.nodes[c1].X
			if qx[1] < c[1] || (qx[1] == c[1] && qx[0] < c[0]) {
				c1 = q
			}
		}
		q = qn.Next[ZList]
	}
	node := &a.nodes[p]
	node.NDomr = ndomr
	node.Closest = [2]NodeID{c0, c1}
	node.CNext = node.Closest
	node.Prev[ZList] = a.nodes[q].Prev[ZList]
	node.Next[ZList] = q
}

// UpdateLinks visits the z list from q on after p was added. Points p
// dominates in (x, y) are dropped from the list and p replaces the
// delimiters it tightens. It stops at the first point strictly dominating
// p in (x, y), past which nothing can change.
func (a *Arena) UpdateLinks(p, q NodeID) {
	px := a.nodes[p].X
	for ; q != S1; q = a.nodes[q].Next[ZList] {
		qn := &a.nodes[q]
		qx := qn.X
		if qx[0] <= px[0] && qx[1] <= px[1] && (qx[0] < px[0] || qx[1] < px[1]) {
			return
		}
		if px[0] <= qx[0] {
			if px[1] <= qx[1] {
				qn.NDomr++
				a.RemoveFromZ(q)
			} else if px[0] < qx[0] {
				c := a.nodes[qn.Closest[1]].X
				if px[1] < c[1] || (px[1] == c[1] && (px[0] < c[0] || (px[0] == c[0] && px[2] < c[2]))) {
					qn.Closest[1] = p
				}
			}
		} else if px[1] < qx[1] {
			c := a.nodes[qn.Closest[0]].X
			if px[0] < c[0] || (px[0] == c[0] && (px[1] < c[1] || (px[1] == c[1] && px[2] < c[2]))) {
				qn.Closest[0] = p
			}
		}
	}
}

// OneContribution3D returns the volume p would add to the points of the
// z list without linking it. Only the CNext chain is touched.
func (a *Arena) OneContribution3D(p NodeID) float64 {
	a.RestartBaseSetupZAndClosest(p)
	if a.nodes[p].NDomr > 0 {
		return 0
	}
	px := a.nodes[p].X
	// p's chain neighbours move while the sweep goes up.
	cnext := a.nodes[p].Closest
	area := a.computeAreaSimple(px, 1, cnext[0], a.nodes[cnext[0]].CNext[1])

	var vol float64
	lastz := px[2]
	q := a.nodes[p].Next[ZList]
	for a.nodes[q].X[0] > px[0] || a.nodes[q].X[1] > px[1] {
		qn := &a.nodes[q]
		qx := qn.X
		vol += area * (qx[2] - lastz)
		qn.CNext = qn.Closest
		if qx[0] >= px[0] && qx[1] >= px[1] {
			area -= a.computeAreaSimple(qx, 1, qn.CNext[0], a.nodes[qn.CNext[0]].CNext[1])
			a.nodes[qn.CNext[1]].CNext[0] = q
			a.nodes[qn.CNext[0]].CNext[1] = q
		} else if qx[0] >= px[0] {
			if qx[0] <= a.nodes[cnext[0]].X[0] {
				strip := [4]float64{qx[0], px[1], qx[2]}
				area -= a.computeAreaSimple(strip, 1, cnext[0], a.nodes[cnext[0]].CNext[1])
				qn.CNext[0] = cnext[0]
				a.nodes[qn.CNext[1]].CNext[0] = q
				cnext[0] = q
			}
		} else if qx[1] <= a.nodes[cnext[1]].X[1] {
			strip := [4]float64{px[0], qx[1], qx[2]}
			area -= a.computeAreaSimple(strip, 0, cnext[1], a.nodes[cnext[1]].CNext[0])
			qn.CNext[1] = cnext[1]
			a.nodes[qn.CNext[0]].CNext[1] = q
			cnext[1] = q
		}
		lastz = qx[2]
		q = qn.Next[ZList]
	}
	a.nodes[p].CNext = cnext
	return vol + area*(a.nodes[q].X[2]-lastz)
}

func (a *Arena) resetZ() {
	a.resetList(ZList)
	for p := a.nodes[S2].Next[WList]; p != S3; p = a.nodes[p].Next[WList] {
		node := &a.nodes[p]
		node.NDomr = 0
		node.Closest = [2]NodeID{S2, S1}
		node.CNext = node.Closest
	}
}

// HV4D sweeps the w list and measures each 3-D slice. The default
// recomputes every slice with HV3D, withContribution grows the slice
// volume by the one point contribution of each new point instead.
// Both give the same value.
func (a *Arena) HV4D(withContribution bool) float64 {
	if a.dims != 4 {
		panic( /* debug assertion */ "[hvplus] HV4D on a 3-D arena")
	}
	a.resetZ()
	var hv, vol float64
	for p := a.nodes[S2].Next[WList]; p != S3; p = a.nodes[p].Next[WList] {
		if withContribution {
			c := a.OneContribution3D(p)
			if a.nodes[p].NDomr == 0 {
				vol += c
				a.AddToZ(p)
				a.UpdateLinks(p, a.nodes[p].Next[ZList])
			}
		} else {
			a.SetupZAndClosest(p)
			if a.nodes[p].NDomr == 0 {
				a.AddToZ(p)
				a.UpdateLinks(p, a.nodes[p].Next[ZList])
			}
			vol = a.HV3D()
		}
		hv += vol * (a.nodes[a.nodes[p].Next[WList]].X[3] - a.nodes[p].X[3])
	}
	return hv
}

// Contribution3D is the volume x would add to the current z list, 0 when
// a point already there dominates it in (x, y) below its z.
func (a *Arena) Contribution3D(x []float64) float64 {
	id := a.Alloc(x[:3], nil)
	defer a.Free(id)
	return a.OneContribution3D(id)
}
