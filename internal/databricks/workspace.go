// Package databricks talks to a workspace's lineage-tracking REST API and
// derives the workspace URLs shown in lineage output.
package databricks

import (
	"fmt"
	"strings"

	"laketrace/internal/domain"
)

// Workspace is a normalized handle on one Databricks workspace: the instance
// base URL plus the workspace ID used when deriving pipeline links.
type Workspace struct {
	baseURL     string
	workspaceID string
}

// NewWorkspace normalizes the instance host and returns a workspace handle.
// Bare hosts get an https scheme; trailing slashes are stripped.
func NewWorkspace(instance, workspaceID string) (*Workspace, error) {
	base := strings.TrimSpace(instance)
	if base == "" {
		return nil, domain.ErrValidation("workspace instance is required")
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	base = strings.TrimRight(base, "/")
	return &Workspace{baseURL: base, workspaceID: workspaceID}, nil
}

// BaseURL returns the normalized instance URL without a trailing slash.
func (w *Workspace) BaseURL() string { return w.baseURL }

// WorkspaceID returns the configured workspace ID.
func (w *Workspace) WorkspaceID() string { return w.workspaceID }

// NotebookURL returns the notebook editor URL. The workspace ID comes from
// the notebook descriptor, not from the handle, since downstream notebooks
// may live in a different workspace.
func (w *Workspace) NotebookURL(notebookID, workspaceID string) string {
	return fmt.Sprintf("%s/editor/notebooks/%s?o=%s", w.baseURL, notebookID, workspaceID)
}

// PipelineUpdateURL returns the pipeline update page URL, parameterized by
// the handle's workspace ID.
func (w *Workspace) PipelineUpdateURL(pipelineID, updateID string) string {
	return fmt.Sprintf("%s/pipelines/%s/updates/%s?o=%s", w.baseURL, pipelineID, updateID, w.workspaceID)
}
