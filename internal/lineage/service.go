package lineage

import (
	"context"
	"strings"

	"laketrace/internal/databricks"
	"laketrace/internal/domain"
)

// Fetcher is the outbound port: fetch the raw lineage document for a fully
// qualified table name.
type Fetcher interface {
	TableLineage(ctx context.Context, fqn string) (*databricks.LineageDocument, error)
}

// ParseTableName splits catalog.schema.table into its three parts.
func ParseTableName(fqn string) (catalog, schema, table string, err error) {
	parts := strings.Split(fqn, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", domain.ErrValidation("table name %q must have the form catalog.schema.table", fqn)
	}
	return parts[0], parts[1], parts[2], nil
}

// Service turns a queried table into its flattened lineage view.
type Service struct {
	fetcher   Fetcher
	workspace *databricks.Workspace
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, workspace *databricks.Workspace) *Service {
	return &Service{fetcher: fetcher, workspace: workspace}
}

// TableLineage fetches one hop of lineage for catalog.schema.table and
// projects it into rows. Every call builds fresh aggregation state, so the
// service is safe to share across concurrent callers.
func (s *Service) TableLineage(ctx context.Context, catalog, schema, table string) (*domain.Result, error) {
	if catalog == "" || schema == "" || table == "" {
		return nil, domain.ErrValidation("catalog, schema and table are all required")
	}

	fqn := catalog + "." + schema + "." + table
	doc, err := s.fetcher.TableLineage(ctx, fqn)
	if err != nil {
		return nil, err
	}

	queried := domain.EntityKey{
		Name:    table,
		Catalog: catalog,
		Schema:  schema,
		Type:    domain.EntityTypeTable,
	}
	entities := Aggregate(doc, queried, s.workspace)
	rows := Project(entities, queried, s.workspace)

	return &domain.Result{Catalog: catalog, Schema: schema, Table: table, Rows: rows}, nil
}
