package archive

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// excessNorm is the Euclidean norm of max(0, x - bound).
func excessNorm(x, bound []float64, buf []float64) float64 {
	for i := range x {
		buf[i] = math.Max(0, x[i]-bound[i])
	}
	return floats.Norm(buf, 2)
}

func minExcessNorm(x []float64, bounds [][]float64) float64 {
	buf := make([]float64, len(x))
	d := math.Inf(1)
	for _, b := range bounds {
		d = math.Min(d, excessNorm(x, b, buf))
	}
	return d
}
