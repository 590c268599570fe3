package main

import (
	json "github.com/goccy/go-json"

	"github.com/loicalleyne/lilac/internal/lilacerr"
	"github.com/loicalleyne/lilac/internal/planner"
	"github.com/loicalleyne/lilac/internal/schema"
	"github.com/loicalleyne/lilac/internal/signal"
)

// signalSpec is the JSON-friendly shape of a ColumnRequest's UDF: a
// registered signal name plus its constructor params. Dependencies are
// themselves signalSpecs, resolved depth-first before the parent signal
// is constructed.
type signalSpec struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
	Deps   []signalSpec   `json:"deps"`
}

func (s signalSpec) build() (signal.Signal, error) {
	deps := make([]signal.Signal, len(s.Deps))
	for i, d := range s.Deps {
		sig, err := d.build()
		if err != nil {
			return nil, err
		}
		deps[i] = sig
	}
	return signal.New(s.Name, s.Params, deps...)
}

// columnSpec is the JSON-friendly shape of planner.ColumnRequest.
type columnSpec struct {
	Path   string      `json:"path"`
	Alias  string      `json:"alias"`
	Signal *signalSpec `json:"signal"`
}

// filterSpec is the JSON-friendly shape of planner.FilterRequest.
type filterSpec struct {
	Ref   string `json:"ref"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// sortSpec is the JSON-friendly shape of planner.SortRequest.
type sortSpec struct {
	Ref   string `json:"ref"`
	Order string `json:"order"`
}

// requestSpec is the JSON body accepted by --request on the query
// subcommands, mirroring planner.Request field for field.
type requestSpec struct {
	Columns        []columnSpec `json:"columns"`
	Filters        []filterSpec `json:"filters"`
	SortBy         []sortSpec   `json:"sort_by"`
	Limit          int          `json:"limit"`
	Offset         int          `json:"offset"`
	ResolveSpans   bool         `json:"resolve_spans"`
	CombineColumns bool         `json:"combine_columns"`
}

func parseRequest(raw string) (planner.Request, error) {
	var spec requestSpec
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return planner.Request{}, lilacerr.InvalidQuery("parsing --request: %v", err)
		}
	}

	req := planner.Request{
		Limit:          spec.Limit,
		Offset:         spec.Offset,
		ResolveSpans:   spec.ResolveSpans,
		CombineColumns: spec.CombineColumns,
	}
	for _, c := range spec.Columns {
		col := planner.ColumnRequest{Path: schema.NormalizeString(c.Path), Alias: c.Alias}
		if c.Signal != nil {
			sig, err := c.Signal.build()
			if err != nil {
				return planner.Request{}, err
			}
			col.Signal = sig
		}
		req.Columns = append(req.Columns, col)
	}
	for _, f := range spec.Filters {
		req.Filters = append(req.Filters, planner.FilterRequest{
			Ref:   schema.NormalizeString(f.Ref),
			Op:    planner.Op(f.Op),
			Value: f.Value,
		})
	}
	for _, s := range spec.SortBy {
		order := planner.Asc
		if s.Order == "DESC" || s.Order == "desc" {
			order = planner.Desc
		}
		req.SortBy = append(req.SortBy, planner.SortRequest{Ref: schema.NormalizeString(s.Ref), Order: order})
	}
	return req, nil
}
