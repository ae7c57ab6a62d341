package archive

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ArchiveStatsName = "moarchive/archive"
)

type archiveStats struct {
	addCount        metric.Int64Counter
	removeCount     metric.Int64Counter
	pointCount      metric.Int64UpDownCounter
	computeDuration metric.Int64Histogram
}

func (stats *archiveStats) IncreaseAddCount(outcome AddOutcome) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("moarchive.add.outcome", outcome.String()),
	)
	stats.addCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *archiveStats) IncreaseRemoveCount() {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1)
}

func (stats *archiveStats) RecordPointCount(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.pointCount.Add(context.Background(), delta)
}

func (stats *archiveStats) RecordComputeDuration(durationUs int64, dims int) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.Int("moarchive.dims", dims),
	)
	stats.computeDuration.Record(context.Background(), durationUs, metric.WithAttributeSet(as))
}

func newArchiveStats(name string) *archiveStats {
	meterName := fmt.Sprintf("%s/%s", ArchiveStatsName, name)
	return &archiveStats{
		addCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"moarchive.add.count",
				metric.WithDescription("The number of points offered to the archive."),
			),
		),
		removeCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"moarchive.remove.count",
				metric.WithDescription("The number of points removed from the archive."),
			),
		),
		pointCount: lo.Must[metric.Int64UpDownCounter](otel.Meter(meterName).
			Int64UpDownCounter(
				"moarchive.points",
				metric.WithDescription("The number of non-dominated points in the archive."),
			),
		),
		computeDuration: lo.Must[metric.Int64Histogram](otel.Meter(meterName).
			Int64Histogram(
				"moarchive.hypervolume.compute.duration",
				metric.WithDescription("The duration of a hypervolume computation. In microseconds."),
				metric.WithUnit("us"),
			),
		),
	}
}
