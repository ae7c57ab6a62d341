package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/moarchive/archive"
	"github.com/benz9527/moarchive/lib/id"
	"github.com/benz9527/moarchive/lib/infra"
	"github.com/benz9527/moarchive/observability"
	"github.com/benz9527/moarchive/xlog"
)

// output is the writer command results go to.
type output struct {
	io.Writer
}

// runContext carries the run ID logged with every entry of a command.
type runContext struct {
	context.Context
}

const runIDField = "runID"

func newXLogger(cfg *rootConfig) (xlog.XLogger, error) {
	enc, ok := xlog.ParseLogEncoder(cfg.encoder)
	if !ok {
		return nil, infra.NewErrorStack("[moarchive] unknown log encoder " + cfg.encoder)
	}
	var lvlEnc zapcore.LevelEncoder
	if err := lvlEnc.UnmarshalText([]byte(cfg.lvlEnc)); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[moarchive] log level encoder")
	}
	var tsEnc zapcore.TimeEncoder
	if err := tsEnc.UnmarshalText([]byte(cfg.tsEnc)); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[moarchive] log time encoder")
	}
	writer := xlog.WithXLoggerStdErrWriter()
	if cfg.logStdout {
		writer = xlog.WithXLoggerStdOutWriter()
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.logLevel)),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevelEncoder(lvlEnc),
		xlog.WithXLoggerTimeEncoder(tsEnc),
		writer,
		xlog.WithXLoggerContextFieldExtract(runIDField, "run"),
	), nil
}

func registerMetrics(lc fx.Lifecycle, cfg *rootConfig, logger xlog.XLogger) error {
	kind, err := observability.ParseMetricsExporter(cfg.metrics)
	if err != nil {
		return err
	}
	shutdown, err := observability.InitMetrics(kind, observability.WithExporterInterval(cfg.interval, 0))
	if err != nil {
		return err
	}
	if kind != observability.NoMetrics {
		observability.InitAppStats("cli")
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		if err := shutdown(ctx); err != nil {
			logger.ErrorStack(infra.WrapErrorStack(err), "metrics shutdown failed")
			return err
		}
		return nil
	}))
	return nil
}

// archiveOptions turns the global flags into archive options.
func archiveOptions(cfg *rootConfig, logger xlog.XLogger) []archive.ArchiveOption {
	opts := []archive.ArchiveOption{archive.WithXLogger(logger)}
	if len(cfg.ref) > 0 {
		opts = append(opts, archive.WithReferencePoint(cfg.ref))
	}
	if cfg.dims > 0 {
		opts = append(opts, archive.WithDims(cfg.dims))
	}
	if cfg.engine4D == "u" {
		opts = append(opts, archive.WithContribution4D())
	}
	if cfg.metrics != "" && cfg.metrics != string(observability.NoMetrics) {
		opts = append(opts, archive.WithArchiveStats("cli"))
	}
	return opts
}

// runApp runs invoke inside an fx application carrying the logger, the
// flags and the output writer, then stops it to flush the metrics.
func runApp(cmd *cobra.Command, cfg *rootConfig, invoke any) error {
	if cfg.engine4D != "r" && cfg.engine4D != "u" {
		return infra.NewErrorStack("[moarchive] --engine4d must be r or u")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	gen, err := id.NanoID(10)
	if err != nil {
		return err
	}
	rc := runContext{Context: xlog.ContextWithField(ctx, runIDField, gen())}
	app := fx.New(
		fx.Supply(cfg, output{Writer: cmd.OutOrStdout()}, rc),
		fx.Provide(newXLogger),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerMetrics),
		fx.Invoke(invoke),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func logDone(rc runContext, logger xlog.XLogger, what string, a archive.Archive) {
	logger.InfoContext(rc, what+" done",
		zap.Int("dims", a.Dims()),
		zap.Int("points", a.Len()),
		zap.Float64s("ref", a.ReferencePoint()),
	)
}
