package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/loicalleyne/lilac/internal/schema"
)

func newComputeSignalCmd() *cobra.Command {
	var path, signalName, paramsRaw string
	cmd := &cobra.Command{
		Use:   "compute-signal",
		Short: "Run a signal over a column and persist its output shard",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{}
			if paramsRaw != "" {
				if err := json.Unmarshal([]byte(paramsRaw), &params); err != nil {
					return fmt.Errorf("parsing --params: %w", err)
				}
			}
			spec := signalSpec{Name: signalName, Params: params}
			sig, err := spec.build()
			if err != nil {
				return err
			}
			progress := func(done, total int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d", done, total)
			}
			if err := ds.ComputeSignal(cmd.Context(), sig, schema.NormalizeString(path), progress); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "dotted column path the signal reads")
	cmd.Flags().StringVar(&signalName, "signal", "", "registered signal name")
	cmd.Flags().StringVar(&paramsRaw, "params", "", "JSON signal constructor params")
	cmd.MarkFlagRequired("path")
	cmd.MarkFlagRequired("signal")
	return cmd
}
