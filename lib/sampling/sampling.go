// Package sampling generates point sets for exercising Pareto archives:
// non-dominated fronts, stacked layers and uniform clouds.
package sampling

import (
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/benz9527/moarchive/lib/infra"
)

type Mode string

const (
	// Spherical points lie on the unit sphere in the positive orthant.
	Spherical Mode = "spherical"
	// Linear points lie on the flipped unit simplex, coordinates summing to
	// dims-1.
	Linear Mode = "linear"
)

var (
	ErrUnknownMode = errors.New("[sampling] unknown front mode")
	ErrInvalidDims = errors.New("[sampling] at least 2 objectives are required")
)

// ParseMode accepts the names of the modes.
func ParseMode(mode string) (Mode, error) {
	switch m := Mode(mode); m {
	case Spherical, Linear:
		return m, nil
	default:
	}
	return "", infra.WrapErrorStackWithMessage(ErrUnknownMode, mode)
}

// Column describes one coordinate of StackedPoints.
type Column struct {
	random bool
	value  float64
}

// RandomColumn draws the coordinate uniformly from [0, 1).
func RandomColumn() Column {
	return Column{random: true}
}

// ConstColumn fixes the coordinate to v.
func ConstColumn(v float64) Column {
	return Column{value: v}
}

// Sampler is not safe for concurrent use.
type Sampler struct {
	gauss distuv.Normal
	unit  distuv.Uniform
}

// NewSampler returns a deterministic sampler for seed.
func NewSampler(seed uint64) *Sampler {
	src := randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Sampler{
		gauss: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		unit:  distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// foldedGaussian maps a standard normal draw truncated to [-2, 2] onto
// [0, 1), positive draws to the lower half.
func (s *Sampler) foldedGaussian() float64 {
	const factor = 2.0
	for {
		g := s.gauss.Rand()
		if g < -factor || g > factor {
			continue
		}
		if g >= 0 {
			return g / (2 * factor)
		}
		return (2*factor + g) / (2 * factor)
	}
}

func (s *Sampler) sphericalPoint(dims int) []float64 {
	v := make([]float64, dims)
	for {
		small := true
		for i := range v {
			v[i] = s.foldedGaussian()
			small = small && v[i] < 0.5
		}
		if norm := floats.Norm(v, 2); norm <= 1 && norm > 0 && !small {
			floats.Scale(1/norm, v)
			return v
		}
	}
}

// linearPoint flips a uniform simplex point, so the coordinates sum to
// dims-1.
func (s *Sampler) linearPoint(dims int) []float64 {
	cuts := make([]float64, dims+1)
	cuts[dims] = 1
	for i := 1; i < dims; i++ {
		cuts[i] = s.unit.Rand()
	}
	sort.Float64s(cuts)
	v := make([]float64, dims)
	for i := range v {
		v[i] = 1 - (cuts[i+1] - cuts[i])
	}
	return v
}

// NonDominatedPoints samples n points of a front. The points are mutually
// non-dominated unless two draws coincide.
func (s *Sampler) NonDominatedPoints(n, dims int, mode Mode) ([][]float64, error) {
	if dims < 2 {
		return nil, infra.WrapErrorStackWithMessage(ErrInvalidDims, fmt.Sprintf("%d objectives", dims))
	}
	var next func(dims int) []float64
	switch mode {
	case Spherical:
		next = s.sphericalPoint
	case Linear:
		next = s.linearPoint
	default:
		return nil, infra.WrapErrorStackWithMessage(ErrUnknownMode, string(mode))
	}
	points := make([][]float64, 0, n)
	for len(points) < n {
		points = append(points, next(dims))
	}
	return points, nil
}

// StackedPoints samples n points whose coordinates follow columns.
func (s *Sampler) StackedPoints(n int, columns ...Column) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, len(columns))
		for d, c := range columns {
			if c.random {
				p[d] = s.unit.Rand()
			} else {
				p[d] = c.value
			}
		}
		points[i] = p
	}
	return points
}

// RandomPoints samples n points uniformly from the unit cube.
func (s *Sampler) RandomPoints(n, dims int) [][]float64 {
	columns := make([]Column, dims)
	for i := range columns {
		columns[i] = RandomColumn()
	}
	return s.StackedPoints(n, columns...)
}
