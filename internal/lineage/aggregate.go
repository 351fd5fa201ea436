package lineage

import (
	"laketrace/internal/databricks"
	"laketrace/internal/domain"
)

// Aggregate folds a lineage document into the per-entity view. The queried
// table is pre-seeded as the main entity; it keeps an empty direction set and
// collects the notebook links of records that name no table. Records
// referencing an already-seen key merge into the existing entity.
func Aggregate(doc *databricks.LineageDocument, queried domain.EntityKey, ws *databricks.Workspace) map[domain.EntityKey]*domain.Entity {
	entities := map[domain.EntityKey]*domain.Entity{}
	main := domain.NewEntity(queried)
	entities[queried] = main

	collect(entities, main, doc.Upstreams, domain.DirectionUpstream, ws)
	collect(entities, main, doc.Downstreams, domain.DirectionDownstream, ws)
	return entities
}

func collect(entities map[domain.EntityKey]*domain.Entity, main *domain.Entity, links []databricks.LineageLink, dir domain.Direction, ws *databricks.Workspace) {
	for _, link := range links {
		info := link.TableInfo
		if info == nil {
			// Ad-hoc notebook executions with no table binding are
			// attributed to the queried table.
			for _, nb := range link.NotebookInfos {
				if url, ok := notebookURL(ws, nb); ok {
					main.AddNotebookLink(url)
				}
			}
			continue
		}

		key := domain.EntityKey{
			Name:    info.Name,
			Catalog: info.CatalogName,
			Schema:  info.SchemaName,
			Type:    info.TableType,
		}
		ent := entities[key]
		if ent == nil {
			ent = domain.NewEntity(key)
			entities[key] = ent
		}
		ent.AddDirection(dir)

		switch dir {
		case domain.DirectionUpstream:
			for _, p := range link.PipelineInfos {
				ts, ok := ParseLineageTimestamp(p.LineageTimestamp)
				if !ok {
					continue
				}
				ent.ObservePipelineRun(p.PipelineID, p.UpdateID, ts)
			}
		case domain.DirectionDownstream:
			for _, nb := range link.NotebookInfos {
				if url, ok := notebookURL(ws, nb); ok {
					ent.AddNotebookLink(url)
				}
			}
		}
	}
}

func notebookURL(ws *databricks.Workspace, nb databricks.NotebookInfo) (string, bool) {
	if !nb.NotebookID.Valid() || !nb.WorkspaceID.Valid() {
		return "", false
	}
	return ws.NotebookURL(nb.NotebookID.String(), nb.WorkspaceID.String()), true
}
