package main

import (
	"time"

	"github.com/spf13/cobra"
)

type rootConfig struct {
	ref       []float64
	dims      int
	engine4D  string
	metrics   string
	interval  time.Duration
	logLevel  string
	encoder   string
	lvlEnc    string // zapcore level encoder name
	tsEnc     string // zapcore time encoder name
	logStdout bool
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{}
	root := &cobra.Command{
		Use:   "moarchive",
		Short: "Pareto archives and hypervolumes of 2 to 4 objectives",
		Long: `moarchive reads whitespace separated objective vectors, one per line,
and reports the hypervolume, contributions and front distances of the
non-dominated ones. All objectives are minimised.`,
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.Float64SliceVar(&cfg.ref, "ref", nil, "reference point, comma separated")
	flags.IntVar(&cfg.dims, "dims", 0, "number of objectives, taken from the points when 0")
	flags.StringVar(&cfg.engine4D, "engine4d", "r", "4-D slice engine: r (recompute) or u (one contribution)")
	flags.StringVar(&cfg.metrics, "metrics", "none", "metrics exporter: none, stdout or prometheus")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.DurationVar(&cfg.interval, "metrics-interval", 10*time.Second, "export interval of the stdout metrics")
	flags.StringVar(&cfg.encoder, "encoder", "text", "log encoder: json or text")
	flags.StringVar(&cfg.lvlEnc, "log-level-encoder", "capital", "log level format: capital, capitalColor, color or lowercase")
	flags.StringVar(&cfg.tsEnc, "log-time-encoder", "iso8601", "log time format: iso8601, rfc3339, rfc3339nano, millis, nanos or epoch")
	flags.BoolVar(&cfg.logStdout, "log-stdout", false, "log to stdout instead of stderr")

	root.AddCommand(
		newHVCmd(cfg),
		newDistanceCmd(cfg),
		newSampleCmd(cfg),
	)
	return root
}
