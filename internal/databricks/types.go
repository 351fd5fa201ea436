package databricks

import (
	"encoding/json"
	"fmt"
)

// LineageDocument is the lineage-tracking response body: one hop of upstream
// and downstream lineage records for the queried table.
type LineageDocument struct {
	Upstreams   []LineageLink `json:"upstreams"`
	Downstreams []LineageLink `json:"downstreams"`
}

// LineageLink is one record in either direction list. Records without a
// TableInfo represent ad-hoc notebook executions with no table binding.
type LineageLink struct {
	TableInfo     *TableInfo     `json:"tableInfo,omitempty"`
	PipelineInfos []PipelineInfo `json:"pipelineInfos,omitempty"`
	NotebookInfos []NotebookInfo `json:"notebookInfos,omitempty"`
}

// TableInfo names the table a lineage record refers to.
type TableInfo struct {
	Name        string `json:"name"`
	CatalogName string `json:"catalog_name"`
	SchemaName  string `json:"schema_name"`
	TableType   string `json:"table_type"`
}

// PipelineInfo describes one producing pipeline run observed upstream.
type PipelineInfo struct {
	PipelineID       string `json:"pipeline_id"`
	UpdateID         string `json:"update_id"`
	LineageTimestamp string `json:"lineage_timestamp"`
}

// NotebookInfo references a notebook execution.
type NotebookInfo struct {
	NotebookID  ID `json:"notebook_id"`
	WorkspaceID ID `json:"workspace_id"`
}

// ID is a workspace object identifier. Workspaces emit these as JSON numbers
// or strings depending on API version; both decode to the literal digits so
// large IDs never pass through float64.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Valid reports whether the ID identifies an object. Zero and empty IDs are
// placeholders the API emits for detached references.
func (id ID) Valid() bool { return id != "" && id != "0" }
