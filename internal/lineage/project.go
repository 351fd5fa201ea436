package lineage

import (
	"encoding/json"
	"sort"

	"laketrace/internal/databricks"
	"laketrace/internal/domain"
)

// Project flattens aggregated entities into output rows. The queried table's
// row comes first; the rest follow in key order so output is deterministic.
func Project(entities map[domain.EntityKey]*domain.Entity, queried domain.EntityKey, ws *databricks.Workspace) []domain.Row {
	keys := make([]domain.EntityKey, 0, len(entities))
	for k := range entities {
		if k != queried {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	ordered := append([]domain.EntityKey{queried}, keys...)

	rows := make([]domain.Row, 0, len(ordered))
	for _, k := range ordered {
		rows = append(rows, projectRow(entities[k], queried, ws))
	}
	return rows
}

func projectRow(e *domain.Entity, queried domain.EntityKey, ws *databricks.Workspace) domain.Row {
	row := domain.Row{
		EntityCatalog:    queried.Catalog,
		EntitySchema:     queried.Schema,
		EntityName:       queried.Name,
		LineageDirection: e.DirectionLabel(),
		CatalogName:      e.Key.Catalog,
		SchemaName:       e.Key.Schema,
		TableName:        e.Key.Name,
		Type:             e.Key.Type,
		NotebookLinks:    notebookLinksJSON(e),
	}

	if e.LatestPipelineID != "" {
		id := e.LatestPipelineID
		row.LatestPipelineID = &id
	}
	if e.LatestUpdateID != "" {
		id := e.LatestUpdateID
		row.LatestUpdateID = &id
	}
	if e.LatestTimestamp != nil {
		ts := *e.LatestTimestamp
		row.LatestPipelineLineageTimestamp = &ts
	}
	if e.LatestPipelineID != "" && e.LatestUpdateID != "" {
		link := ws.PipelineUpdateURL(e.LatestPipelineID, e.LatestUpdateID)
		row.PipelineLink = &link
	}
	return row
}

// notebookLinksJSON renders the link set as a JSON array of sorted URLs, or
// the literal string "null" when the set is empty. The column is a string on
// purpose: downstream consumers treat it as an opaque cell.
func notebookLinksJSON(e *domain.Entity) string {
	if len(e.NotebookLinks) == 0 {
		return "null"
	}
	links := make([]string, 0, len(e.NotebookLinks))
	for url := range e.NotebookLinks {
		links = append(links, url)
	}
	sort.Strings(links)
	data, _ := json.Marshal(links)
	return string(data)
}
