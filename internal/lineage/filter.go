package lineage

import (
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"laketrace/internal/domain"
)

const (
	filterMaxSteps     = uint64(100_000)
	filterMaxExprBytes = 4 * 1024
)

// RowFilter is a compiled Starlark predicate evaluated once per row. Row
// columns are exposed as variables under their output names; nullable
// columns surface as None.
type RowFilter struct {
	expr syntax.Expr
}

// CompileRowFilter parses a filter expression. Compile errors are validation
// errors so surfaces can report them as bad input.
func CompileRowFilter(src string) (*RowFilter, error) {
	if strings.TrimSpace(src) == "" {
		return nil, domain.ErrValidation("filter expression is empty")
	}
	if len(src) > filterMaxExprBytes {
		return nil, domain.ErrValidation("filter expression exceeds %d bytes", filterMaxExprBytes)
	}
	expr, err := syntax.ParseExpr(&syntax.FileOptions{}, "filter", src, 0)
	if err != nil {
		return nil, domain.ErrValidation("parse filter: %v", err)
	}
	return &RowFilter{expr: expr}, nil
}

// Match reports whether the row satisfies the predicate. Evaluation runs on
// a fresh step-capped thread per row.
func (f *RowFilter) Match(row domain.Row) (bool, error) {
	thread := &starlark.Thread{Name: "row-filter"}
	thread.SetMaxExecutionSteps(filterMaxSteps)
	v, err := starlark.EvalExprOptions(&syntax.FileOptions{}, thread, f.expr, rowEnv(row))
	if err != nil {
		return false, domain.ErrValidation("evaluate filter: %v", err)
	}
	return bool(v.Truth()), nil
}

// Apply returns the rows matching the filter, preserving order.
func (f *RowFilter) Apply(rows []domain.Row) ([]domain.Row, error) {
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		ok, err := f.Match(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func rowEnv(row domain.Row) starlark.StringDict {
	return starlark.StringDict{
		"entity_catalog":                    starlark.String(row.EntityCatalog),
		"entity_schema":                     starlark.String(row.EntitySchema),
		"entity_name":                       starlark.String(row.EntityName),
		"lineage_direction":                 starlark.String(row.LineageDirection),
		"catalog_name":                      starlark.String(row.CatalogName),
		"schema_name":                       starlark.String(row.SchemaName),
		"table_name":                        starlark.String(row.TableName),
		"type":                              starlark.String(row.Type),
		"latest_pipeline_id":                optionalString(row.LatestPipelineID),
		"latest_update_id":                  optionalString(row.LatestUpdateID),
		"latest_pipeline_lineage_timestamp": optionalTime(row.LatestPipelineLineageTimestamp),
		"pipeline_link":                     optionalString(row.PipelineLink),
		"notebook_links":                    starlark.String(row.NotebookLinks),
	}
}

func optionalString(s *string) starlark.Value {
	if s == nil {
		return starlark.None
	}
	return starlark.String(*s)
}

func optionalTime(t *time.Time) starlark.Value {
	if t == nil {
		return starlark.None
	}
	return starlark.String(t.Format(lineageTimestampLayout))
}
