package lineage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"laketrace/internal/databricks"
)

var errTest = fmt.Errorf("test error")

// mockFetcher implements Fetcher with configurable behavior.
type mockFetcher struct {
	TableLineageFn func(ctx context.Context, fqn string) (*databricks.LineageDocument, error)
}

func (m *mockFetcher) TableLineage(ctx context.Context, fqn string) (*databricks.LineageDocument, error) {
	if m.TableLineageFn != nil {
		return m.TableLineageFn(ctx, fqn)
	}
	return &databricks.LineageDocument{}, nil
}

// fixedDoc returns a fetcher that serves the same document for any table.
func fixedDoc(doc *databricks.LineageDocument) *mockFetcher {
	return &mockFetcher{
		TableLineageFn: func(context.Context, string) (*databricks.LineageDocument, error) {
			return doc, nil
		},
	}
}

func testWorkspace(t *testing.T) *databricks.Workspace {
	t.Helper()
	ws, err := databricks.NewWorkspace("example.cloud.databricks.com", "12345")
	require.NoError(t, err)
	return ws
}

func tableLink(name, catalog, schema, tableType string) databricks.LineageLink {
	return databricks.LineageLink{
		TableInfo: &databricks.TableInfo{
			Name:        name,
			CatalogName: catalog,
			SchemaName:  schema,
			TableType:   tableType,
		},
	}
}
