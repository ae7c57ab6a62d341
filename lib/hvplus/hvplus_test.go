package hvplus

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// gridVolume counts the unit cells dominated by the integer points below ref.
func gridVolume(points [][]float64, ref []float64) float64 {
	dims := len(ref)
	cell := make([]float64, dims)
	var count float64
	var walk func(d int)
	walk = func(d int) {
		if d == dims {
			for _, p := range points {
				dominated := true
				for i := 0; i < dims; i++ {
					if p[i] > cell[i] {
						dominated = false
						break
					}
				}
				if dominated {
					count++
					return
				}
			}
			return
		}
		for v := 0.0; v < ref[d]; v++ {
			cell[d] = v
			walk(d + 1)
		}
	}
	walk(0)
	return count
}

func randomIntPoints(rnd *randv2.Rand, n, dims, max int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		for j := range points[i] {
			points[i][j] = float64(rnd.IntN(max))
		}
	}
	return points
}

func hv3d(points [][]float64, ref []float64) float64 {
	a := NewArena(3, ref)
	a.Setup(points, nil)
	a.Preprocess()
	return a.HV3D()
}

func TestSentinels(t *testing.T) {
	a := NewArena(3, []float64{4, 5, 6})
	inf := math.Inf(1)
	require.Equal(t, [4]float64{-inf, 5, -inf, -inf}, a.Node(S1).X)
	require.Equal(t, [4]float64{4, -inf, -inf, -inf}, a.Node(S2).X)
	require.Equal(t, [4]float64{-inf, -inf, 6, -inf}, a.Node(S3).X)
	require.Equal(t, S3, a.First(ZList))
	require.Equal(t, 0, a.Len(ZList))
	require.Equal(t, S1, a.Node(S3).Next[ZList])

	b := NewArena(4, nil)
	require.Equal(t, [4]float64{-inf, -inf, inf, inf}, b.Node(S3).X)
	require.Panics(t, func() { NewArena(2, nil) })
}

func TestSetupOrderAndDomain(t *testing.T) {
	a := NewArena(3, []float64{4, 4, 4})
	ids := a.Setup([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}, {4, 0, 0}, {0, 0, 3}}, []any{"a", "b", "c", "d", "e"})
	require.Len(t, ids, 4)
	var got []any
	a.Each(ZList, func(id NodeID, node *Node) bool {
		got = append(got, node.Info)
		return true
	})
	require.Equal(t, []any{"b", "c", "e", "a"}, got)
	require.Equal(t, NilID, a.Find(ZList, []float64{4, 0, 0}))
	require.Equal(t, ids[3], a.Find(ZList, []float64{1, 2, 3}))
}

func TestHV3DScenario(t *testing.T) {
	require.InDelta(t, 13.0, hv3d([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}}, []float64{4, 4, 4}), 1e-12)
	require.InDelta(t, 64.0, hv3d([][]float64{{0, 0, 0}}, []float64{4, 4, 4}), 1e-12)
	require.Equal(t, 0.0, hv3d(nil, []float64{4, 4, 4}))
}

func TestHV3DMatchesGrid(t *testing.T) {
	rnd := randv2.New(randv2.NewPCG(3, 5))
	ref := []float64{6, 6, 6}
	for i := 0; i < 100; i++ {
		points := randomIntPoints(rnd, 1+rnd.IntN(12), 3, 6)
		require.InDelta(t, gridVolume(points, ref), hv3d(points, ref), 1e-9, "points %v", points)
	}
}

func TestInsertAndRemove3DKeepDelimiters(t *testing.T) {
	rnd := randv2.New(randv2.NewPCG(11, 13))
	ref := []float64{10, 10, 10}
	for round := 0; round < 30; round++ {
		a := NewArena(3, ref)
		var live [][]float64
		for _, p := range randomIntPoints(rnd, 25, 3, 10) {
			id, removed, ok := a.Insert3D(p, nil)
			if !ok {
				require.Equal(t, NilID, id)
				continue
			}
			for _, r := range removed {
				a.Free(r)
			}
			live = live[:0]
			a.Each(ZList, func(_ NodeID, node *Node) bool {
				live = append(live, append([]float64(nil), node.X[:3]...))
				return true
			})
			require.InDelta(t, gridVolume(live, ref), a.HV3D(), 1e-9)
		}

		for a.First(ZList) != S3 {
			victim := a.First(ZList)
			if rnd.IntN(2) == 0 {
				victim = a.Node(S3).Prev[ZList]
			}
			a.Remove3D(victim)
			a.Free(victim)
			live = live[:0]
			a.Each(ZList, func(_ NodeID, node *Node) bool {
				live = append(live, append([]float64(nil), node.X[:3]...))
				return true
			})
			require.InDelta(t, gridVolume(live, ref), a.HV3D(), 1e-9)
		}
	}
}

func TestInsert3DRejectsDominated(t *testing.T) {
	a := NewArena(3, []float64{4, 4, 4})
	_, _, ok := a.Insert3D([]float64{1, 1, 1}, nil)
	require.True(t, ok)
	id, removed, ok := a.Insert3D([]float64{1, 1, 1}, nil)
	require.False(t, ok)
	require.Equal(t, NilID, id)
	require.Empty(t, removed)
	_, _, ok = a.Insert3D([]float64{2, 3, 1}, nil)
	require.False(t, ok)
	_, removed, ok = a.Insert3D([]float64{0, 0, 0}, nil)
	require.True(t, ok)
	require.Len(t, removed, 1)
	require.Equal(t, 1, a.Len(ZList))
}

func TestContribution3D(t *testing.T) {
	a := NewArena(3, []float64{4, 4, 4})
	a.Setup([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}}, nil)
	a.Preprocess()
	require.InDelta(t, 14.0, a.Contribution3D([]float64{1, 1, 1}), 1e-12)
	require.InDelta(t, 1.0, a.Contribution3D([]float64{2, 2, 2}), 1e-12)
	require.Equal(t, 0.0, a.Contribution3D([]float64{3, 3, 3}))
	// The sweep must leave the structure usable.
	require.InDelta(t, 13.0, a.HV3D(), 1e-12)
}

func TestContribution3DMatchesDifference(t *testing.T) {
	rnd := randv2.New(randv2.NewPCG(17, 19))
	ref := []float64{7, 7, 7}
	for i := 0; i < 100; i++ {
		points := randomIntPoints(rnd, 1+rnd.IntN(10), 3, 7)
		probe := randomIntPoints(rnd, 1, 3, 7)[0]
		a := NewArena(3, ref)
		a.Setup(points, nil)
		a.Preprocess()
		a.DropDominated()
		got := a.Contribution3D(probe)
		want := gridVolume(append(points, probe), ref) - gridVolume(points, ref)
		require.InDelta(t, want, got, 1e-9, "points %v probe %v", points, probe)
	}
}

func hv4d(points [][]float64, ref []float64, withContribution bool) float64 {
	a := NewArena(4, ref)
	a.Setup(points, nil)
	return a.HV4D(withContribution)
}

func TestHV4DScenario(t *testing.T) {
	points := [][]float64{{0, 1, 2, 3}, {1, 2, 3, 0}, {2, 3, 0, 1}, {3, 0, 1, 2}}
	ref := []float64{4, 4, 4, 4}
	require.InDelta(t, 71.0, hv4d(points, ref, false), 1e-12)
	require.InDelta(t, 71.0, hv4d(points, ref, true), 1e-12)
}

func TestHV4DVariantsMatchGrid(t *testing.T) {
	rnd := randv2.New(randv2.NewPCG(23, 29))
	ref := []float64{5, 5, 5, 5}
	for i := 0; i < 60; i++ {
		points := randomIntPoints(rnd, 1+rnd.IntN(10), 4, 5)
		want := gridVolume(points, ref)
		require.InDelta(t, want, hv4d(points, ref, false), 1e-9, "points %v", points)
		require.InDelta(t, want, hv4d(points, ref, true), 1e-9, "points %v", points)
	}
}

func TestHV4DRepeatable(t *testing.T) {
	a := NewArena(4, []float64{4, 4, 4, 4})
	a.Setup([][]float64{{0, 1, 2, 3}, {1, 2, 3, 0}, {2, 3, 0, 1}, {3, 0, 1, 2}}, nil)
	first := a.HV4D(false)
	require.Equal(t, first, a.HV4D(true))
	require.Equal(t, first, a.HV4D(false))
}

func TestFreeReusesSlots(t *testing.T) {
	a := NewArena(3, nil)
	id := a.Alloc([]float64{1, 2, 3}, "x")
	a.Free(id)
	a.Free(S1)
	again := a.Alloc([]float64{3, 2, 1}, nil)
	require.Equal(t, id, again)
	require.Equal(t, [4]float64{3, 2, 1, 0}, a.Node(again).X)
	require.Nil(t, a.Node(again).Info)
}

func TestInsertSortedKeepsOrder(t *testing.T) {
	a := NewArena(4, []float64{9, 9, 9, 9})
	a.InsertSorted(WList, []float64{1, 1, 1, 3}, "c")
	a.InsertSorted(WList, []float64{2, 2, 2, 1}, "a")
	a.InsertSorted(WList, []float64{0, 0, 5, 2}, "b")
	a.InsertSorted(WList, []float64{2, 2, 2, 1}, "a2")
	var got []any
	a.Each(WList, func(_ NodeID, node *Node) bool {
		got = append(got, node.Info)
		return true
	})
	require.Equal(t, []any{"a", "a2", "b", "c"}, got)

	z := NewArena(3, nil)
	z.InsertSorted(ZList, []float64{1, 2, 3}, "y")
	z.InsertSorted(ZList, []float64{5, 5, 1}, "x")
	require.Equal(t, "x", z.Node(z.First(ZList)).Info)
}

func TestCloneIsIndependent(t *testing.T) {
	a := NewArena(3, []float64{4, 4, 4})
	a.Setup([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}}, nil)
	a.Preprocess()
	c := a.Clone()
	_, removed, ok := c.Insert3D([]float64{0, 0, 0}, nil)
	require.True(t, ok)
	require.Len(t, removed, 3)
	require.InDelta(t, 64.0, c.HV3D(), 1e-12)
	require.Equal(t, 3, a.Len(ZList))
	require.InDelta(t, 13.0, a.HV3D(), 1e-12)
}
