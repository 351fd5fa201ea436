package domain

import "time"

// Direction identifies which lineage list an entity was observed in.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"
	DirectionDownstream Direction = "downstream"
)

// DirectionNA is the rendered direction for entities seen in both lists or
// in neither, including the queried table itself.
const DirectionNA = "NA"

// EntityTypeTable is the entity type assigned to the queried table.
const EntityTypeTable = "TABLE"

// EntityKey identifies an aggregated lineage entity. Records referencing the
// same key merge into one entity.
type EntityKey struct {
	Name    string
	Catalog string
	Schema  string
	Type    string
}

// Less orders keys by catalog, schema, name, then type.
func (k EntityKey) Less(other EntityKey) bool {
	if k.Catalog != other.Catalog {
		return k.Catalog < other.Catalog
	}
	if k.Schema != other.Schema {
		return k.Schema < other.Schema
	}
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Type < other.Type
}

// Entity accumulates everything observed about one table while walking a
// lineage document: the directions it was seen in, the newest producing
// pipeline run, and the notebooks that touched it.
type Entity struct {
	Key EntityKey

	// Latest producing pipeline run. The three fields form a unit: they are
	// only ever replaced together, and LatestTimestamp is nil until a
	// descriptor with a parseable timestamp has been observed.
	LatestPipelineID string
	LatestUpdateID   string
	LatestTimestamp  *time.Time

	Directions    map[Direction]struct{}
	NotebookLinks map[string]struct{}
}

// NewEntity creates an empty entity for the given key.
func NewEntity(key EntityKey) *Entity {
	return &Entity{
		Key:           key,
		Directions:    map[Direction]struct{}{},
		NotebookLinks: map[string]struct{}{},
	}
}

// AddDirection marks the entity as seen in the given lineage list.
func (e *Entity) AddDirection(d Direction) {
	e.Directions[d] = struct{}{}
}

// AddNotebookLink adds a notebook editor URL to the entity's set.
func (e *Entity) AddNotebookLink(url string) {
	e.NotebookLinks[url] = struct{}{}
}

// ObservePipelineRun records a producing pipeline run, keeping the run with
// the strictly newest timestamp. Ties keep the incumbent.
func (e *Entity) ObservePipelineRun(pipelineID, updateID string, ts time.Time) {
	if e.LatestTimestamp != nil && !ts.After(*e.LatestTimestamp) {
		return
	}
	e.LatestPipelineID = pipelineID
	e.LatestUpdateID = updateID
	t := ts
	e.LatestTimestamp = &t
}

// DirectionLabel renders the direction set for output: "upstream" or
// "downstream" when the set holds exactly that one direction, otherwise NA.
func (e *Entity) DirectionLabel() string {
	if len(e.Directions) != 1 {
		return DirectionNA
	}
	if _, ok := e.Directions[DirectionUpstream]; ok {
		return string(DirectionUpstream)
	}
	return string(DirectionDownstream)
}

// Row is one flattened lineage record. The entity_* columns repeat the
// queried table's identity on every row; catalog_name, schema_name,
// table_name and type describe the aggregated entity itself.
type Row struct {
	EntityCatalog                  string     `json:"entity_catalog"`
	EntitySchema                   string     `json:"entity_schema"`
	EntityName                     string     `json:"entity_name"`
	LineageDirection               string     `json:"lineage_direction"`
	CatalogName                    string     `json:"catalog_name"`
	SchemaName                     string     `json:"schema_name"`
	TableName                      string     `json:"table_name"`
	Type                           string     `json:"type"`
	LatestPipelineID               *string    `json:"latest_pipeline_id"`
	LatestUpdateID                 *string    `json:"latest_update_id"`
	LatestPipelineLineageTimestamp *time.Time `json:"latest_pipeline_lineage_timestamp"`
	PipelineLink                   *string    `json:"pipeline_link"`
	NotebookLinks                  string     `json:"notebook_links"`
}

// RowColumns returns the output column names in canonical order.
func RowColumns() []string {
	return []string{
		"entity_catalog",
		"entity_schema",
		"entity_name",
		"lineage_direction",
		"catalog_name",
		"schema_name",
		"table_name",
		"type",
		"latest_pipeline_id",
		"latest_update_id",
		"latest_pipeline_lineage_timestamp",
		"pipeline_link",
		"notebook_links",
	}
}

// Values returns the row's column values in canonical order. Unset pointer
// columns yield nil.
func (r Row) Values() []interface{} {
	vals := []interface{}{
		r.EntityCatalog,
		r.EntitySchema,
		r.EntityName,
		r.LineageDirection,
		r.CatalogName,
		r.SchemaName,
		r.TableName,
		r.Type,
	}
	vals = append(vals, deref(r.LatestPipelineID), deref(r.LatestUpdateID))
	if r.LatestPipelineLineageTimestamp != nil {
		vals = append(vals, *r.LatestPipelineLineageTimestamp)
	} else {
		vals = append(vals, nil)
	}
	vals = append(vals, deref(r.PipelineLink), r.NotebookLinks)
	return vals
}

func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// Result is the assembled lineage table for one queried table.
type Result struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
	Table   string `json:"table"`
	Rows    []Row  `json:"rows"`
}

// FQN returns the fully qualified name of the queried table.
func (r *Result) FQN() string {
	return r.Catalog + "." + r.Schema + "." + r.Table
}
