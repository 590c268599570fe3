package main

import (
	"github.com/spf13/cobra"

	"github.com/loicalleyne/lilac/internal/schema"
)

func newStatsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print total count, approx distinct count, min/max, and average text length for a path",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ds.Stats(schema.NormalizeString(path))
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "dotted leaf path")
	cmd.MarkFlagRequired("path")
	return cmd
}
