package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/moarchive/lib/sampling"
	"github.com/benz9527/moarchive/xlog"
)

func newSampleCmd(cfg *rootConfig) *cobra.Command {
	var (
		n    int
		mode string
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a sampled non-dominated front",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sampling.ParseMode(mode)
			if err != nil {
				return err
			}
			dims := cfg.dims
			if dims == 0 {
				dims = 3
			}
			return runApp(cmd, cfg, func(out output, rc runContext, logger xlog.XLogger) error {
				points, err := sampling.NewSampler(seed).NonDominatedPoints(n, dims, m)
				if err != nil {
					return err
				}
				for _, p := range points {
					fmt.Fprintln(out, formatPoint(p))
				}
				logger.InfoContext(rc, "sample done", zap.Int("points", n), zap.Int("dims", dims), zap.String("mode", mode))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "num", "n", 100, "number of points")
	cmd.Flags().StringVar(&mode, "mode", string(sampling.Spherical), "front shape: spherical or linear")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	return cmd
}
