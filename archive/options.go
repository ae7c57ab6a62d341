package archive

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/moarchive/lib/infra"
	"github.com/benz9527/moarchive/xlog"
)

type archiveOptions struct {
	ref       []float64
	infos     []any
	dims      int
	logger    xlog.XLogger
	statsName string
	contrib4D bool
	withStats bool
	withInfos bool
}

type ArchiveOption func(opts *archiveOptions) error

// WithReferencePoint bounds the hypervolume. Without it every hypervolume
// query fails with ErrNoReferencePoint until SetReferencePoint is called.
func WithReferencePoint(ref []float64) ArchiveOption {
	return func(opts *archiveOptions) error {
		if len(ref) == 0 {
			return infra.WrapErrorStackWithMessage(ErrDimensionMismatch, "empty reference point")
		}
		opts.ref = append([]float64(nil), ref...)
		return nil
	}
}

// WithInfos attaches one opaque payload per initial point.
func WithInfos(infos []any) ArchiveOption {
	return func(opts *archiveOptions) error {
		opts.infos = infos
		opts.withInfos = true
		return nil
	}
}

// WithDims fixes the number of objectives. It is required when the
// archive starts without points and without a reference point.
func WithDims(dims int) ArchiveOption {
	return func(opts *archiveOptions) error {
		if dims < 2 || dims > 4 {
			return infra.WrapErrorStackWithMessage(ErrUnsupportedDims, fmt.Sprintf("%d objectives", dims))
		}
		opts.dims = dims
		return nil
	}
}

func WithXLogger(logger xlog.XLogger) ArchiveOption {
	return func(opts *archiveOptions) error {
		if logger == nil {
			return infra.NewErrorStack("[archive] nil logger")
		}
		opts.logger = logger
		return nil
	}
}

// WithArchiveStats records otel metrics under the meter
// ArchiveStatsName/name.
func WithArchiveStats(name string) ArchiveOption {
	return func(opts *archiveOptions) error {
		if name == "" {
			return infra.NewErrorStack("[archive] empty stats name")
		}
		opts.statsName = name
		opts.withStats = true
		return nil
	}
}

// WithContribution4D measures 4-D slices by summing one point
// contributions instead of sweeping every slice again.
func WithContribution4D() ArchiveOption {
	return func(opts *archiveOptions) error {
		opts.contrib4D = true
		return nil
	}
}

func (opts *archiveOptions) apply(options ...ArchiveOption) error {
	var err error
	for _, o := range options {
		if o == nil {
			continue
		}
		err = multierr.Append(err, o(opts))
	}
	return err
}
