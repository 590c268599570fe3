package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/stats"
)

func newGroupsCmd() *cobra.Command {
	var path, sortByFlag, orderFlag, filtersRaw, binsRaw string
	var limit int
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Run select_groups(path) and print the resulting buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy := stats.SortByCount
			if sortByFlag == "value" {
				sortBy = stats.SortByValue
			}
			order := stats.Asc
			if orderFlag == "desc" || orderFlag == "DESC" {
				order = stats.Desc
			}

			var filters []planner.FilterRequest
			if filtersRaw != "" {
				var specs []filterSpec
				if err := json.Unmarshal([]byte(filtersRaw), &specs); err != nil {
					return fmt.Errorf("parsing --filters: %w", err)
				}
				for _, f := range specs {
					filters = append(filters, planner.FilterRequest{
						Ref:   schema.NormalizeString(f.Ref),
						Op:    planner.Op(f.Op),
						Value: f.Value,
					})
				}
			}

			var bins *stats.Bins
			if binsRaw != "" {
				bins = &stats.Bins{}
				if err := json.Unmarshal([]byte(binsRaw), bins); err != nil {
					return fmt.Errorf("parsing --bins: %w", err)
				}
			}

			groups, err := ds.SelectGroups(cmd.Context(), schema.NormalizeString(path), filters, sortBy, order, limit, bins)
			if err != nil {
				return err
			}
			return printJSON(groups)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "dotted column path to group by")
	cmd.Flags().StringVar(&sortByFlag, "sort-by", "count", "\"count\" or \"value\"")
	cmd.Flags().StringVar(&orderFlag, "order", "desc", "\"asc\" or \"desc\"")
	cmd.Flags().IntVar(&limit, "limit", 0, "max number of groups (0 = unlimited)")
	cmd.Flags().StringVar(&filtersRaw, "filters", "", "JSON array of {ref,op,value} filters")
	cmd.Flags().StringVar(&binsRaw, "bins", "", "JSON {boundaries,labels} for numeric bucketing")
	cmd.MarkFlagRequired("path")
	return cmd
}
