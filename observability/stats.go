package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	AppStatsName = "moarchive/app"
)

var (
	once sync.Once
)

type appStats struct {
	goroutines metric.Int64ObservableUpDownCounter
	procs      metric.Int64ObservableUpDownCounter
	uptime     metric.Float64ObservableCounter
}

func appStatsMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(AppStatsName)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats registers the process gauges and the otel runtime metrics
// on the global meter provider. Only the first call has an effect, so it
// must run after InitMetrics.
func InitAppStats(name string) {
	once.Do(func() {
		meter := otel.Meter(
			appStatsMeterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		startedAt := time.Now()
		_ = &appStats{
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"moarchive.app.goroutines",
				metric.WithDescription("The number of live goroutines."),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			procs: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"moarchive.app.procs",
				metric.WithDescription("The GOMAXPROCS setting."),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
			uptime: lo.Must[metric.Float64ObservableCounter](meter.Float64ObservableCounter(
				"moarchive.app.uptime",
				metric.WithDescription("Seconds since the stats were initialised."),
				metric.WithUnit("s"),
				metric.WithFloat64Callback(func(ctx context.Context, ob metric.Float64Observer) error {
					ob.Observe(time.Since(startedAt).Seconds())
					return nil
				}),
			)),
		}
		_ = otelruntime.Start(otelruntime.WithMinimumReadMemStatsInterval(time.Second))
	})
}
