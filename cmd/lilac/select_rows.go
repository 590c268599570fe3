package main

import (
	"github.com/spf13/cobra"
)

func newSelectRowsCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "select-rows",
		Short: "Run a select_rows query and print the resulting items",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(raw)
			if err != nil {
				return err
			}
			rows, err := ds.SelectRows(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
	cmd.Flags().StringVar(&raw, "request", "", "JSON select_rows request body")
	return cmd
}

func newSelectRowsSchemaCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "select-rows-schema",
		Short: "Print the schema select_rows would return for a request, without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(raw)
			if err != nil {
				return err
			}
			res, err := ds.SelectRowsSchema(req)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&raw, "request", "", "JSON select_rows request body")
	return cmd
}
