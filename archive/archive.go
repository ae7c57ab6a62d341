// Package archive maintains Pareto archives of 2, 3 or 4 minimised
// objectives together with their hypervolume indicator.
//
// The 3-D and 4-D archives are backed by the HV3D+ and HV4D+ sweeps of
// lib/hvplus, the 2-D archive by a sorted staircase. Distances to the
// front are measured against the kink points (local upper bounds) of the
// archive.
package archive

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/moarchive/lib/infra"
	"github.com/benz9527/moarchive/xlog"
)

// Archive is a set of mutually non-dominated points. Dominance is weak:
// a point equal to an archive point is dominated by it.
//
// An Archive is not safe for concurrent use. Distinct archives share no
// state.
type Archive interface {
	Dims() int
	Len() int
	// ReferencePoint returns nil when the archive has none.
	ReferencePoint() []float64
	// SetReferencePoint rebuilds the archive, dropping the points that are
	// not strictly below ref.
	SetReferencePoint(ref []float64) error
	Add(point []float64, info any) (AddOutcome, error)
	// AddList adds a batch with a single rebuild. infos may be nil.
	AddList(points [][]float64, infos []any) error
	// Remove returns the info stored with point.
	Remove(point []float64) (any, error)
	// Points are sorted ascending by the last coordinate, by x in 2-D.
	Points() [][]float64
	// Infos are aligned with Points.
	Infos() []any
	Hypervolume() (float64, error)
	// HypervolumePlus is to be minimised: -Hypervolume while it is
	// positive, else the smallest distance to the reference box of any
	// point offered so far (+Inf before the first one).
	HypervolumePlus() (float64, error)
	Dominates(point []float64) (bool, error)
	Dominators(point []float64) ([][]float64, error)
	DominatorsCount(point []float64) (int, error)
	// InDomain reports whether point is strictly below the reference point,
	// ref[0] when given. It is always true without a reference point.
	InDomain(point []float64, ref ...[]float64) (bool, error)
	// ContributingHypervolume of an archive point is the hypervolume lost
	// by removing it, for any other point its HypervolumeImprovement.
	ContributingHypervolume(point []float64) (float64, error)
	ContributingHypervolumes() ([]float64, error)
	// HypervolumeImprovement is the volume point would add, or minus its
	// distance to the front when it would add nothing.
	HypervolumeImprovement(point []float64) (float64, error)
	DistanceToParetoFront(point []float64) (float64, error)
	DistanceToHypervolumeArea(point []float64) (float64, error)
	KinkPoints() [][]float64
	Copy() Archive
}

var _ Archive = (*archive)(nil)

type archive struct {
	dims       int
	ref        []float64
	eng        engine
	hv         float64
	hvDirty    bool
	kinks      [][]float64
	kinksValid bool
	hvPlusDist float64
	contrib4D  bool
	logger     xlog.XLogger
	stats      *archiveStats
}

// New builds an archive from points, keeping the non-dominated ones that
// are in domain. The number of objectives comes from WithDims, else from
// the first point, else from the reference point.
func New(points [][]float64, opts ...ArchiveOption) (Archive, error) {
	o := &archiveOptions{}
	if err := o.apply(opts...); err != nil {
		return nil, err
	}
	dims := o.dims
	if dims == 0 {
		if len(points) > 0 {
			dims = len(points[0])
		} else if o.ref != nil {
			dims = len(o.ref)
		}
	}
	if dims < 2 || dims > 4 {
		return nil, infra.WrapErrorStackWithMessage(ErrUnsupportedDims, fmt.Sprintf("%d objectives", dims))
	}
	if o.ref != nil && len(o.ref) != dims {
		return nil, dimsErr("reference point", len(o.ref), dims)
	}
	if o.withInfos && o.infos == nil && len(points) > 0 {
		return nil, infra.WrapErrorStackWithMessage(ErrInfosMismatch, "nil infos")
	}
	if err := checkPoints(points, o.infos, dims); err != nil {
		return nil, err
	}

	a := &archive{
		dims:       dims,
		ref:        o.ref,
		hvPlusDist: math.Inf(1),
		contrib4D:  o.contrib4D,
		logger:     o.logger,
	}
	if a.logger == nil {
		a.logger = xlog.NewNopXLogger()
	}
	if o.withStats {
		a.stats = newArchiveStats(o.statsName)
	}
	for _, p := range points {
		a.offer(p)
	}
	a.eng = newEngine(dims, a.ref, a.contrib4D, points, o.infos)
	a.invalidate()
	a.stats.RecordPointCount(int64(a.eng.size()))
	a.logger.Debug("archive created",
		zap.Int("dims", dims),
		zap.Int("offered", len(points)),
		zap.Int("points", a.eng.size()),
	)
	return a, nil
}

func (a *archive) invalidate() {
	a.hvDirty = true
	a.kinks, a.kinksValid = nil, false
}

// offer tracks the distance to the reference box for HypervolumePlus.
func (a *archive) offer(point []float64) {
	if a.ref == nil {
		return
	}
	a.hvPlusDist = math.Min(a.hvPlusDist, excessNorm(point, a.ref, make([]float64, a.dims)))
}

func (a *archive) sweepIndex() int {
	if a.dims == 2 {
		return 0
	}
	return a.dims - 1
}

func (a *archive) Dims() int {
	return a.dims
}

func (a *archive) Len() int {
	return a.eng.size()
}

func (a *archive) ReferencePoint() []float64 {
	if a.ref == nil {
		return nil
	}
	return append([]float64(nil), a.ref...)
}

func (a *archive) SetReferencePoint(ref []float64) error {
	if len(ref) != a.dims {
		return dimsErr("reference point", len(ref), a.dims)
	}
	current := entries(a.eng)
	points := lo.Map(current, func(e entry, _ int) []float64 { return e.x })
	infos := lo.Map(current, func(e entry, _ int) any { return e.info })
	before := len(current)

	a.ref = append([]float64(nil), ref...)
	a.eng = newEngine(a.dims, a.ref, a.contrib4D, points, infos)
	a.invalidate()
	a.hvPlusDist = math.Inf(1)
	for _, p := range points {
		a.offer(p)
	}
	a.stats.RecordPointCount(int64(a.eng.size() - before))
	a.logger.Debug("reference point changed",
		zap.Float64s("ref", a.ref),
		zap.Int("dropped", before-a.eng.size()),
	)
	return nil
}

func (a *archive) Add(point []float64, info any) (AddOutcome, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return Invalid, err
	}
	a.offer(point)
	outcome := a.add(point, info)
	a.stats.IncreaseAddCount(outcome)
	return outcome, nil
}

func (a *archive) add(point []float64, info any) AddOutcome {
	if a.ref != nil && !strictlyBelow(point, a.ref) {
		return OutOfDomain
	}
	removed, ok := a.eng.insert(point, info)
	if !ok {
		return Dominated
	}
	a.invalidate()
	a.stats.RecordPointCount(1 - int64(len(removed)))
	if len(removed) > 0 {
		a.logger.Debug("points evicted", zap.Float64s("by", point), zap.Int("count", len(removed)))
	}
	return Inserted
}

func (a *archive) AddList(points [][]float64, infos []any) error {
	if err := checkPoints(points, infos, a.dims); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	current := entries(a.eng)
	all := make([][]float64, 0, len(current)+len(points))
	allInfos := make([]any, 0, len(current)+len(points))
	for _, e := range current {
		all = append(all, e.x)
		allInfos = append(allInfos, e.info)
	}
	for i, p := range points {
		a.offer(p)
		var info any
		if infos != nil {
			info = infos[i]
		}
		all = append(all, p)
		allInfos = append(allInfos, info)
	}

	before := len(current)
	a.eng = newEngine(a.dims, a.ref, a.contrib4D, all, allInfos)
	a.invalidate()
	a.stats.RecordPointCount(int64(a.eng.size() - before))
	a.logger.Debug("archive rebuilt",
		zap.Int("offered", len(points)),
		zap.Int("points", a.eng.size()),
	)
	return nil
}

func (a *archive) Remove(point []float64) (any, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return nil, err
	}
	info, ok := a.eng.delete(point)
	if !ok {
		a.logger.Warn("remove of a point not in the archive", zap.Float64s("point", point))
		return nil, infra.WrapErrorStackWithMessage(ErrPointNotFound, fmt.Sprintf("%v", point))
	}
	a.invalidate()
	a.stats.IncreaseRemoveCount()
	a.stats.RecordPointCount(-1)
	return info, nil
}

func (a *archive) Points() [][]float64 {
	return lo.Map(entries(a.eng), func(e entry, _ int) []float64 { return e.x })
}

func (a *archive) Infos() []any {
	return lo.Map(entries(a.eng), func(e entry, _ int) any { return e.info })
}

func (a *archive) Hypervolume() (float64, error) {
	if a.ref == nil {
		return 0, infra.WrapErrorStack(ErrNoReferencePoint)
	}
	if a.hvDirty {
		start := time.Now()
		a.hv = a.eng.hypervolume()
		a.hvDirty = false
		elapsed := time.Since(start)
		a.stats.RecordComputeDuration(elapsed.Microseconds(), a.dims)
		a.logger.Debug("hypervolume computed",
			zap.Float64("hv", a.hv),
			zap.Int("points", a.eng.size()),
			zap.Duration("elapsed", elapsed),
		)
	}
	return a.hv, nil
}

func (a *archive) HypervolumePlus() (float64, error) {
	hv, err := a.Hypervolume()
	if err != nil {
		return 0, err
	}
	if hv > 0 {
		return -hv, nil
	}
	return a.hvPlusDist, nil
}

// dominators stops at the first point past point in the sweep coordinate,
// or after limit matches when limit > 0.
func (a *archive) dominators(point []float64, limit int) [][]float64 {
	sweep := a.sweepIndex()
	var res [][]float64
	a.eng.each(func(x []float64, _ any) bool {
		if x[sweep] > point[sweep] {
			return false
		}
		if weaklyDominates(x, point) {
			res = append(res, append([]float64(nil), x...))
			return limit <= 0 || len(res) < limit
		}
		return true
	})
	return res
}

func (a *archive) dominated(point []float64) bool {
	return len(a.dominators(point, 1)) > 0
}

func (a *archive) Dominates(point []float64) (bool, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return false, err
	}
	return a.dominated(point), nil
}

func (a *archive) Dominators(point []float64) ([][]float64, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return nil, err
	}
	return a.dominators(point, 0), nil
}

func (a *archive) DominatorsCount(point []float64) (int, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return 0, err
	}
	return len(a.dominators(point, 0)), nil
}

func (a *archive) InDomain(point []float64, ref ...[]float64) (bool, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return false, err
	}
	r := a.ref
	if len(ref) > 0 && ref[0] != nil {
		if len(ref[0]) != a.dims {
			return false, dimsErr("reference point", len(ref[0]), a.dims)
		}
		r = ref[0]
	}
	return r == nil || strictlyBelow(point, r), nil
}

func (a *archive) inDomain(point []float64) bool {
	return a.ref == nil || strictlyBelow(point, a.ref)
}

func (a *archive) ContributingHypervolume(point []float64) (float64, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return 0, err
	}
	info, ok := a.eng.find(point)
	if !ok {
		return a.HypervolumeImprovement(point)
	}
	hv, err := a.Hypervolume()
	if err != nil {
		return 0, err
	}
	// Taking the point out and putting it back leaves the same set, the
	// caches stay valid.
	a.eng.delete(point)
	without := a.eng.hypervolume()
	a.eng.insert(point, info)
	return hv - without, nil
}

func (a *archive) ContributingHypervolumes() ([]float64, error) {
	points := a.Points()
	res := make([]float64, 0, len(points))
	for _, p := range points {
		c, err := a.ContributingHypervolume(p)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (a *archive) HypervolumeImprovement(point []float64) (float64, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return 0, err
	}
	if a.ref == nil {
		return 0, infra.WrapErrorStack(ErrNoReferencePoint)
	}
	if _, ok := a.eng.find(point); ok {
		return 0, nil
	}
	if d := a.distanceToParetoFront(point); d > 0 {
		return -d, nil
	}
	if !a.inDomain(point) || a.dominated(point) {
		return 0, nil
	}
	return a.eng.improvement(point), nil
}

func (a *archive) DistanceToParetoFront(point []float64) (float64, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return 0, err
	}
	return a.distanceToParetoFront(point), nil
}

func (a *archive) distanceToParetoFront(point []float64) float64 {
	if a.inDomain(point) && !a.dominated(point) {
		return 0
	}
	if a.eng.size() == 0 {
		if a.ref == nil {
			return 0
		}
		return excessNorm(point, a.ref, make([]float64, a.dims))
	}
	return minExcessNorm(point, a.kinkPoints())
}

// DistanceToHypervolumeArea is 0 without a reference point.
func (a *archive) DistanceToHypervolumeArea(point []float64) (float64, error) {
	if err := checkPoint(point, a.dims); err != nil {
		return 0, err
	}
	if a.ref == nil {
		return 0, nil
	}
	return excessNorm(point, a.ref, make([]float64, a.dims)), nil
}

func (a *archive) KinkPoints() [][]float64 {
	kinks := a.kinkPoints()
	return lo.Map(kinks, func(k []float64, _ int) []float64 { return append([]float64(nil), k...) })
}

func (a *archive) kinkPoints() [][]float64 {
	if a.kinksValid {
		return a.kinks
	}
	a.kinks, a.kinksValid = nil, true
	if a.eng.size() == 0 {
		return nil
	}
	kinks := a.eng.kinkPoints()
	sort.Slice(kinks, func(i, j int) bool {
		for d := range kinks[i] {
			if kinks[i][d] != kinks[j][d] {
				return kinks[i][d] < kinks[j][d]
			}
		}
		return false
	})
	a.kinks = kinks
	a.logger.Debug("kink points enumerated", zap.Int("count", len(kinks)))
	return kinks
}

func (a *archive) Copy() Archive {
	c := *a
	c.ref = a.ReferencePoint()
	c.eng = a.eng.clone()
	return &c
}
