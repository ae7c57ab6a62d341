package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"

	"github.com/benz9527/moarchive/lib/infra"
)

type MetricsExporter string

const (
	NoMetrics         MetricsExporter = "none"
	StdoutMetrics     MetricsExporter = "stdout"
	PrometheusMetrics MetricsExporter = "prometheus"
)

var ErrUnknownExporter = errors.New("[observability] unknown metrics exporter")

func ParseMetricsExporter(name string) (MetricsExporter, error) {
	switch e := MetricsExporter(name); e {
	case "", NoMetrics:
		return NoMetrics, nil
	case StdoutMetrics, PrometheusMetrics:
		return e, nil
	default:
	}
	return NoMetrics, infra.WrapErrorStackWithMessage(ErrUnknownExporter, name)
}

type exporterOptions struct {
	writer   io.Writer
	interval time.Duration
	timeout  time.Duration
}

type ExporterOption func(opts *exporterOptions)

// WithExporterWriter sets where stdout metrics and prometheus dumps go.
// Defaults to os.Stderr.
func WithExporterWriter(w io.Writer) ExporterOption {
	return func(opts *exporterOptions) {
		if w != nil {
			opts.writer = w
		}
	}
}

func WithExporterInterval(interval, timeout time.Duration) ExporterOption {
	return func(opts *exporterOptions) {
		if interval > 0 {
			opts.interval = interval
		}
		if timeout > 0 {
			opts.timeout = timeout
		}
	}
}

// InitMetrics installs the global meter provider of kind. The returned
// callback flushes and shuts it down.
func InitMetrics(kind MetricsExporter, opts ...ExporterOption) (func(ctx context.Context) error, error) {
	o := &exporterOptions{
		writer:   os.Stderr,
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	switch kind {
	case NoMetrics:
		return func(context.Context) error { return nil }, nil
	case StdoutMetrics:
		return newConsoleMetricsExporter(o.interval, o.timeout, stdoutmetric.WithWriter(o.writer))
	case PrometheusMetrics:
		return newPrometheusMetricsExporter(o.writer)
	default:
	}
	return nil, infra.WrapErrorStackWithMessage(ErrUnknownExporter, string(kind))
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// A command runs once, nothing scrapes it. The registry is dumped in the
// text exposition format on shutdown instead.
func newPrometheusMetricsExporter(w io.Writer) (func(ctx context.Context) error, error) {
	reg := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	callback := func(ctx context.Context) error {
		var merr error
		families, err := reg.Gather()
		merr = multierr.Append(merr, err)
		for _, mf := range families {
			_, err = expfmt.MetricFamilyToText(w, mf)
			merr = multierr.Append(merr, err)
		}
		return multierr.Append(merr, mp.Shutdown(ctx))
	}
	otel.SetMeterProvider(mp)
	return callback, nil
}
