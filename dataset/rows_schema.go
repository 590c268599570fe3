package dataset

import (
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
)

// RowsSchemaResult is `{ schema, alias_udf_paths, sort_results }` (spec.md
// §6; `search_results_paths` is the Search-shortcut's own alias list and
// has no separate representation here since a Search desugars into a
// normal UDF column before reaching the planner).
type RowsSchemaResult struct {
	Schema        *schema.Schema
	AliasUDFPaths map[string]schema.Path
	SortResults   []string
}

// SelectRowsSchema implements select_rows_schema(...): the schema as it
// would appear after every requested UDF runs, without materializing rows
// (grounded on original_source/src/data/dataset_duckdb.py:select_rows_schema).
func (ds *Dataset) SelectRowsSchema(req planner.Request) (*RowsSchemaResult, error) {
	if err := ds.refresh(); err != nil {
		return nil, err
	}
	plan, err := planner.Plan(ds.view.Schema(), req)
	if err != nil {
		return nil, err
	}

	aliasUDFPaths := map[string]schema.Path{}
	fields := schema.NewFieldMap()
	for _, col := range plan.Columns {
		var field *schema.Field
		if col.IsUDF() {
			aliasUDFPaths[col.Alias] = col.UDFPath
			field = col.Signal.Fields()
		} else {
			field, err = ds.view.Schema().GetField(col.Path)
			if err != nil {
				return nil, err
			}
		}
		fields.Set(col.Alias, field)
	}

	sortResults := make([]string, 0, len(plan.PreSort)+len(plan.PostSort))
	for _, s := range plan.PreSort {
		sortResults = append(sortResults, s.Path.String())
	}
	for _, s := range plan.PostSort {
		sortResults = append(sortResults, s.ColumnAlias+"."+s.Path.String())
	}

	return &RowsSchemaResult{
		Schema:        schema.NewSchema(fields),
		AliasUDFPaths: aliasUDFPaths,
		SortResults:   sortResults,
	}, nil
}
