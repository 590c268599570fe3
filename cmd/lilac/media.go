package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loicalleyne/lilac/internal/schema"
)

func newMediaCmd() *cobra.Command {
	var rowID, path string
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Write a row's media bytes at a path to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ds.Media(rowID, schema.NormalizeString(path))
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&rowID, "row-id", "", "row key")
	cmd.Flags().StringVar(&path, "path", "", "dotted media leaf path")
	cmd.MarkFlagRequired("row-id")
	cmd.MarkFlagRequired("path")
	return cmd
}
