package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benz9527/moarchive/archive"
	"github.com/benz9527/moarchive/xlog"
)

func newHVCmd(cfg *rootConfig) *cobra.Command {
	var (
		contributions bool
		kinks         bool
	)
	cmd := &cobra.Command{
		Use:   "hv <points file>",
		Short: "Hypervolume of the non-dominated points of a file, - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := readPointsFile(args[0])
			if err != nil {
				return err
			}
			return runApp(cmd, cfg, func(out output, rc runContext, logger xlog.XLogger) error {
				a, err := archive.New(points, archiveOptions(cfg, logger)...)
				if err != nil {
					return err
				}
				hv, err := a.Hypervolume()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "points: %d\n", a.Len())
				fmt.Fprintf(out, "hypervolume: %s\n", formatFloat(hv))
				if contributions {
					contribs, err := a.ContributingHypervolumes()
					if err != nil {
						return err
					}
					for i, p := range a.Points() {
						fmt.Fprintf(out, "contribution %s: %s\n", formatPoint(p), formatFloat(contribs[i]))
					}
				}
				if kinks {
					for _, k := range a.KinkPoints() {
						fmt.Fprintf(out, "kink: %s\n", formatPoint(k))
					}
				}
				logDone(rc, logger, "hv", a)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&contributions, "contributions", false, "print the contribution of every point")
	cmd.Flags().BoolVar(&kinks, "kinks", false, "print the kink points")
	return cmd
}
