package main

import (
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the dataset's namespace, name, schema, and row count",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ds.Manifest()
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
