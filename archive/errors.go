package archive

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/moarchive/lib/infra"
)

var (
	ErrDimensionMismatch = errors.New("[archive] point dimension mismatch")
	ErrNoReferencePoint  = errors.New("[archive] no reference point")
	ErrPointNotFound     = errors.New("[archive] point not found")
	ErrUnsupportedDims   = errors.New("[archive] unsupported number of objectives")
	ErrInfosMismatch     = errors.New("[archive] infos do not match points")
)

func dimsErr(what string, got, want int) error {
	return infra.WrapErrorStackWithMessage(ErrDimensionMismatch,
		fmt.Sprintf("%s has %d coordinates, want %d", what, got, want))
}

func checkPoint(point []float64, dims int) error {
	if len(point) != dims {
		return dimsErr("point", len(point), dims)
	}
	return nil
}

// checkPoints reports every offending point at once.
func checkPoints(points [][]float64, infos []any, dims int) error {
	var merr error
	if infos != nil && len(infos) != len(points) {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(ErrInfosMismatch,
			fmt.Sprintf("%d infos for %d points", len(infos), len(points))))
	}
	for i, p := range points {
		if len(p) != dims {
			merr = multierr.Append(merr, dimsErr(fmt.Sprintf("point %d", i), len(p), dims))
		}
	}
	return merr
}
