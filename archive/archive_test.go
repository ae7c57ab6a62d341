package archive

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/moarchive/xlog"
)

func scenario2D(t *testing.T) Archive {
	a, err := New([][]float64{{1, 3}, {2, 2}, {3, 1}}, WithReferencePoint([]float64{4, 4}))
	require.NoError(t, err)
	return a
}

func scenario3D(t *testing.T, ref []float64) Archive {
	a, err := New([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}}, WithReferencePoint(ref))
	require.NoError(t, err)
	return a
}

func scenario4D(t *testing.T, opts ...ArchiveOption) Archive {
	opts = append(opts, WithReferencePoint([]float64{4, 4, 4, 4}))
	a, err := New([][]float64{{0, 1, 2, 3}, {1, 2, 3, 0}, {2, 3, 0, 1}, {3, 0, 1, 2}}, opts...)
	require.NoError(t, err)
	return a
}

func TestArchive2D(t *testing.T) {
	a := scenario2D(t)
	require.Equal(t, 2, a.Dims())
	require.Equal(t, 3, a.Len())
	require.Equal(t, [][]float64{{1, 3}, {2, 2}, {3, 1}}, a.Points())

	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 6.0, hv, 1e-12)

	contribs, err := a.ContributingHypervolumes()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 1, 1}, contribs, 1e-12)

	hvi, err := a.HypervolumeImprovement([]float64{1.5, 1.5})
	require.NoError(t, err)
	require.InDelta(t, 1.25, hvi, 1e-12)
	hvi, err = a.HypervolumeImprovement([]float64{0, 0})
	require.NoError(t, err)
	require.InDelta(t, 10.0, hvi, 1e-12)
	hvi, err = a.HypervolumeImprovement([]float64{3, 3})
	require.NoError(t, err)
	require.InDelta(t, -1.0, hvi, 1e-12)

	require.Equal(t, [][]float64{{1, 4}, {2, 3}, {3, 2}, {4, 1}}, a.KinkPoints())
	d, err := a.DistanceToParetoFront([]float64{5, 5})
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(13), d, 1e-12)
	d, err = a.DistanceToParetoFront([]float64{0.5, 0.5})
	require.NoError(t, err)
	require.Equal(t, 0.0, d)
}

func TestArchive3D(t *testing.T) {
	a := scenario3D(t, []float64{4, 4, 4})
	require.Equal(t, 3, a.Dims())
	require.Equal(t, 3, a.Len())
	// Ascending in z.
	require.Equal(t, [][]float64{{2, 3, 1}, {3, 1, 2}, {1, 2, 3}}, a.Points())

	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 13.0, hv, 1e-12)

	contribs, err := a.ContributingHypervolumes()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{3, 3, 3}, contribs, 1e-12)
	// Measuring the contributions must not disturb the archive.
	hv, err = a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 13.0, hv, 1e-12)
	require.Equal(t, 3, a.Len())

	testcases := []struct {
		name  string
		point []float64
		hvi   float64
	}{
		{"dominates all", []float64{1, 1, 1}, 14},
		{"fills a notch", []float64{2, 2, 2}, 1},
		{"on the boundary", []float64{3, 3, 3}, 0},
		{"member", []float64{1, 2, 3}, 0},
		{"out of domain", []float64{4, 4, 4}, -math.Sqrt(3)},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			hvi, err := a.HypervolumeImprovement(tc.point)
			require.NoError(tt, err)
			require.InDelta(tt, tc.hvi, hvi, 1e-12)
		})
	}

	c, err := a.ContributingHypervolume([]float64{2, 2, 2})
	require.NoError(t, err)
	require.InDelta(t, 1.0, c, 1e-12)
}

func TestArchive3DKinkPoints(t *testing.T) {
	a := scenario3D(t, []float64{6, 6, 6})
	require.Equal(t, [][]float64{
		{1, 6, 6}, {2, 6, 3}, {3, 2, 6}, {3, 3, 3}, {6, 1, 6}, {6, 3, 2}, {6, 6, 1},
	}, a.KinkPoints())

	testcases := []struct {
		point []float64
		dist  float64
	}{
		{[]float64{4, 4, 4}, math.Sqrt(3)},
		{[]float64{7, 7, 7}, math.Sqrt(38)},
		{[]float64{3, 3, 4}, 1},
		{[]float64{0, 0, 0}, 0},
		{[]float64{3, 3, 3}, 0},
	}
	for _, tc := range testcases {
		d, err := a.DistanceToParetoFront(tc.point)
		require.NoError(t, err)
		require.InDelta(t, tc.dist, d, 1e-12, "point %v", tc.point)
	}

	// KinkPoints hands out copies.
	kinks := a.KinkPoints()
	kinks[0][0] = -100
	require.Equal(t, 1.0, a.KinkPoints()[0][0])
}

func TestArchive4D(t *testing.T) {
	for _, contrib := range []bool{false, true} {
		var opts []ArchiveOption
		if contrib {
			opts = append(opts, WithContribution4D())
		}
		a := scenario4D(t, opts...)
		require.Equal(t, 4, a.Len())

		hv, err := a.Hypervolume()
		require.NoError(t, err)
		require.InDelta(t, 71.0, hv, 1e-12)

		contribs, err := a.ContributingHypervolumes()
		require.NoError(t, err)
		require.InDeltaSlice(t, []float64{13, 13, 13, 13}, contribs, 1e-12)

		hvi, err := a.HypervolumeImprovement([]float64{1, 1, 1, 1})
		require.NoError(t, err)
		require.InDelta(t, 34.0, hvi, 1e-12)
		hvi, err = a.HypervolumeImprovement([]float64{4, 4, 4, 4})
		require.NoError(t, err)
		require.InDelta(t, -2.0, hvi, 1e-12)

		require.Len(t, a.KinkPoints(), 15)
		hv, err = a.Hypervolume()
		require.NoError(t, err)
		require.InDelta(t, 71.0, hv, 1e-12)
	}
}

func TestArchiveAddOutcomes(t *testing.T) {
	a, err := New(nil, WithReferencePoint([]float64{4, 4, 4}))
	require.NoError(t, err)
	require.Equal(t, 0, a.Len())

	testcases := []struct {
		point   []float64
		outcome AddOutcome
		size    int
	}{
		{[]float64{2, 2, 2}, Inserted, 1},
		{[]float64{2, 2, 2}, Dominated, 1},
		{[]float64{3, 2, 2}, Dominated, 1},
		{[]float64{1, 3, 3}, Inserted, 2},
		{[]float64{4, 0, 0}, OutOfDomain, 2},
		{[]float64{1, 1, 1}, Inserted, 1},
	}
	for _, tc := range testcases {
		outcome, err := a.Add(tc.point, nil)
		require.NoError(t, err)
		require.Equal(t, tc.outcome, outcome, "point %v", tc.point)
		require.Equal(t, tc.outcome == Inserted, outcome.Added())
		require.Equal(t, tc.size, a.Len())
	}
	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 27.0, hv, 1e-12)

	outcome, err := a.Add([]float64{1, 1}, nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.Equal(t, Invalid, outcome)
	require.False(t, outcome.Added())
	require.Equal(t, 1, a.Len())
}

func TestArchiveInfosAndRemove(t *testing.T) {
	a, err := New(
		[][]float64{{1, 3}, {2, 2}, {3, 1}, {3, 3}},
		WithReferencePoint([]float64{4, 4}),
		WithInfos([]any{"a", "b", "c", "d"}),
	)
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b", "c"}, a.Infos())

	info, err := a.Remove([]float64{2, 2})
	require.NoError(t, err)
	require.Equal(t, "b", info)
	require.Equal(t, [][]float64{{1, 3}, {3, 1}}, a.Points())

	_, err = a.Remove([]float64{2, 2})
	require.ErrorIs(t, err, ErrPointNotFound)

	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 5.0, hv, 1e-12)
}

func TestArchiveAddList(t *testing.T) {
	a := scenario3D(t, []float64{4, 4, 4})
	err := a.AddList([][]float64{{2, 2, 2}, {0, 0, 5}, {3, 3, 3}}, []any{"x", "y", "z"})
	require.NoError(t, err)
	require.Equal(t, 4, a.Len())
	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 14.0, hv, 1e-12)

	err = a.AddList([][]float64{{1, 1}, {1, 1, 1, 1}}, nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.Len(t, multierr.Errors(err), 2)
	err = a.AddList([][]float64{{1, 1, 1}}, []any{1, 2})
	require.ErrorIs(t, err, ErrInfosMismatch)
	require.Equal(t, 4, a.Len())
}

func TestArchiveHypervolumePlus(t *testing.T) {
	a, err := New(nil, WithReferencePoint([]float64{1, 1}))
	require.NoError(t, err)

	hvp, err := a.HypervolumePlus()
	require.NoError(t, err)
	require.True(t, math.IsInf(hvp, 1))

	steps := []struct {
		point   []float64
		outcome AddOutcome
		hvp     float64
	}{
		{[]float64{2, 2}, OutOfDomain, math.Sqrt2},
		{[]float64{1, 2}, OutOfDomain, 1},
		{[]float64{1, 0.5}, OutOfDomain, 0},
		{[]float64{0.5, 0.5}, Inserted, -0.25},
	}
	for _, step := range steps {
		outcome, err := a.Add(step.point, nil)
		require.NoError(t, err)
		require.Equal(t, step.outcome, outcome)
		hvp, err = a.HypervolumePlus()
		require.NoError(t, err)
		require.InDelta(t, step.hvp, hvp, 1e-12, "after %v", step.point)
	}
}

func TestArchiveDominators(t *testing.T) {
	a := scenario3D(t, []float64{4, 4, 4})

	dominators, err := a.Dominators([]float64{2, 3, 3})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2, 3, 1}, {1, 2, 3}}, dominators)

	count, err := a.DominatorsCount([]float64{3, 3, 3})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	ok, err := a.Dominates([]float64{1, 2, 3})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = a.Dominates([]float64{0, 0, 0})
	require.NoError(t, err)
	require.False(t, ok)

	_, err = a.Dominators([]float64{0, 0})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestArchiveDomain(t *testing.T) {
	a := scenario3D(t, []float64{4, 4, 4})
	testcases := []struct {
		point []float64
		ref   [][]float64
		in    bool
	}{
		{[]float64{1, 1, 1}, nil, true},
		{[]float64{4, 1, 1}, nil, false},
		{[]float64{5, 5, 5}, [][]float64{{6, 6, 6}}, true},
		{[]float64{1, 1, 1}, [][]float64{{1, 2, 2}}, false},
	}
	for _, tc := range testcases {
		in, err := a.InDomain(tc.point, tc.ref...)
		require.NoError(t, err)
		require.Equal(t, tc.in, in, "point %v", tc.point)
	}
	_, err := a.InDomain([]float64{1, 1, 1}, []float64{1, 1})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	noRef, err := New(nil, WithDims(3))
	require.NoError(t, err)
	in, err := noRef.InDomain([]float64{100, 100, 100})
	require.NoError(t, err)
	require.True(t, in)
}

func TestArchiveDistanceToHypervolumeArea(t *testing.T) {
	a := scenario3D(t, []float64{2, 2, 2})
	// No point is strictly inside the box.
	require.Equal(t, 0, a.Len())

	testcases := []struct {
		point []float64
		dist  float64
	}{
		{[]float64{2, 2, 3}, 1},
		{[]float64{0, 0, 12}, 10},
		{[]float64{1, 1, 1}, 0},
	}
	for _, tc := range testcases {
		d, err := a.DistanceToHypervolumeArea(tc.point)
		require.NoError(t, err)
		require.InDelta(t, tc.dist, d, 1e-12)
	}

	// An empty archive measures the front distance against the box.
	d, err := a.DistanceToParetoFront([]float64{3, 3, 2})
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(2), d, 1e-12)

	noRef, err := New([][]float64{{1, 1, 1}})
	require.NoError(t, err)
	d, err = noRef.DistanceToHypervolumeArea([]float64{10, 10, 10})
	require.NoError(t, err)
	require.Equal(t, 0.0, d)
}

func TestArchiveReferencePoint(t *testing.T) {
	a, err := New([][]float64{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}})
	require.NoError(t, err)
	require.Nil(t, a.ReferencePoint())

	_, err = a.Hypervolume()
	require.ErrorIs(t, err, ErrNoReferencePoint)
	_, err = a.HypervolumePlus()
	require.ErrorIs(t, err, ErrNoReferencePoint)
	_, err = a.HypervolumeImprovement([]float64{1, 1, 1})
	require.ErrorIs(t, err, ErrNoReferencePoint)

	ref := []float64{4, 4, 4}
	require.NoError(t, a.SetReferencePoint(ref))
	ref[0] = 100
	require.Equal(t, []float64{4, 4, 4}, a.ReferencePoint())
	hv, err := a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 13.0, hv, 1e-12)

	require.NoError(t, a.SetReferencePoint([]float64{3.5, 3.5, 3.5}))
	require.Equal(t, 3, a.Len())
	hv, err = a.Hypervolume()
	require.NoError(t, err)
	require.InDelta(t, 4.625, hv, 1e-12)

	require.NoError(t, a.SetReferencePoint([]float64{3, 3, 3}))
	require.Equal(t, 0, a.Len())
	hv, err = a.Hypervolume()
	require.NoError(t, err)
	require.Equal(t, 0.0, hv)

	require.ErrorIs(t, a.SetReferencePoint([]float64{3, 3}), ErrDimensionMismatch)
}

func TestArchiveCopy(t *testing.T) {
	for _, a := range []Archive{scenario2D(t), scenario3D(t, []float64{4, 4, 4}), scenario4D(t)} {
		hv, err := a.Hypervolume()
		require.NoError(t, err)
		kinks := a.KinkPoints()

		c := a.Copy()
		origin := make([]float64, a.Dims())
		outcome, err := c.Add(origin, nil)
		require.NoError(t, err)
		require.Equal(t, Inserted, outcome)
		require.Equal(t, 1, c.Len())

		after, err := a.Hypervolume()
		require.NoError(t, err)
		require.Equal(t, hv, after)
		require.Equal(t, kinks, a.KinkPoints())
		require.Greater(t, a.Len(), 1)

		cHV, err := c.Hypervolume()
		require.NoError(t, err)
		require.InDelta(t, math.Pow(4, float64(a.Dims())), cHV, 1e-9)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrUnsupportedDims)
	_, err = New([][]float64{{1, 2, 3, 4, 5}})
	require.ErrorIs(t, err, ErrUnsupportedDims)
	_, err = New(nil, WithDims(1))
	require.ErrorIs(t, err, ErrUnsupportedDims)
	_, err = New([][]float64{{1, 2}}, WithReferencePoint([]float64{1, 2, 3}))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = New([][]float64{{1, 2}}, WithReferencePoint(nil))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = New([][]float64{{1, 2}}, WithInfos(nil))
	require.ErrorIs(t, err, ErrInfosMismatch)
	_, err = New(nil, WithXLogger(nil), WithArchiveStats(""))
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)

	_, err = New([][]float64{{1, 2}, {1, 2, 3}, {1}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.Len(t, multierr.Errors(err), 2)
	assert.False(t, errors.Is(err, ErrInfosMismatch))
}

func TestArchiveWithLogger(t *testing.T) {
	logger := xlog.NewNopXLogger()
	a, err := New(nil, WithDims(2), WithXLogger(logger), WithReferencePoint([]float64{1, 1}))
	require.NoError(t, err)
	_, err = a.Add([]float64{0.5, 0.5}, nil)
	require.NoError(t, err)
	_, err = a.Remove([]float64{0.25, 0.25})
	require.ErrorIs(t, err, ErrPointNotFound)
}

func TestAddOutcomeString(t *testing.T) {
	require.Equal(t, "invalid", Invalid.String())
	require.Equal(t, AddOutcome(0), Invalid)
	require.Equal(t, "inserted", Inserted.String())
	require.Equal(t, "dominated", Dominated.String())
	require.Equal(t, "out_of_domain", OutOfDomain.String())
	require.Equal(t, "unknown", AddOutcome(100).String())
}
