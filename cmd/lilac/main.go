// Command lilac is a thin CLI over the dataset package's Query API
// (spec.md §6): manifest, select-rows, select-rows-schema, compute-signal,
// stats, groups, media — one subcommand per external entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loicalleyne/lilac/dataset"
)

var (
	flagDataDir   string
	flagNamespace string
	flagName      string

	ds *dataset.Dataset
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lilac",
		Short:         "Query and enrich a Lilac dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			var opts []dataset.Option
			if flagDataDir != "" {
				opts = append(opts, dataset.WithDataDir(flagDataDir))
			}
			var err error
			ds, err = dataset.Open(flagNamespace, flagName, opts...)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "dataset root (defaults to $"+dataset.DataDirEnv+")")
	cmd.PersistentFlags().StringVar(&flagNamespace, "namespace", "", "dataset namespace")
	cmd.PersistentFlags().StringVar(&flagName, "dataset", "", "dataset name")
	cmd.MarkPersistentFlagRequired("namespace")
	cmd.MarkPersistentFlagRequired("dataset")

	cmd.AddCommand(
		newManifestCmd(),
		newSelectRowsCmd(),
		newSelectRowsSchemaCmd(),
		newComputeSignalCmd(),
		newStatsCmd(),
		newGroupsCmd(),
		newMediaCmd(),
	)
	return cmd
}
