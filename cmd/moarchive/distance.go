package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benz9527/moarchive/archive"
	"github.com/benz9527/moarchive/lib/infra"
	"github.com/benz9527/moarchive/xlog"
)

func newDistanceCmd(cfg *rootConfig) *cobra.Command {
	var queryPath string
	cmd := &cobra.Command{
		Use:   "distance <points file> --query <query file>",
		Short: "Front distance and hypervolume improvement of query points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if queryPath == "" {
				return infra.NewErrorStack("[moarchive] --query is required")
			}
			points, err := readPointsFile(args[0])
			if err != nil {
				return err
			}
			queries, err := readPointsFile(queryPath)
			if err != nil {
				return err
			}
			return runApp(cmd, cfg, func(out output, rc runContext, logger xlog.XLogger) error {
				a, err := archive.New(points, archiveOptions(cfg, logger)...)
				if err != nil {
					return err
				}
				hasRef := a.ReferencePoint() != nil
				for _, q := range queries {
					d, err := a.DistanceToParetoFront(q)
					if err != nil {
						return err
					}
					line := fmt.Sprintf("%s: front %s", formatPoint(q), formatFloat(d))
					if hasRef {
						hvi, err := a.HypervolumeImprovement(q)
						if err != nil {
							return err
						}
						area, err := a.DistanceToHypervolumeArea(q)
						if err != nil {
							return err
						}
						line += fmt.Sprintf(" improvement %s area %s", formatFloat(hvi), formatFloat(area))
					}
					fmt.Fprintln(out, line)
				}
				logDone(rc, logger, "distance", a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&queryPath, "query", "", "file of query points")
	return cmd
}
