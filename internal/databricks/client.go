package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"laketrace/internal/domain"
)

const lineageTrackingPath = "/api/2.0/lineage-tracking/table-lineage"

// Client issues lineage-tracking requests against one workspace.
type Client struct {
	Workspace *Workspace
	Tokens    TokenProvider

	// HTTPClient may be replaced in tests. Defaults to a 30 second timeout.
	HTTPClient *http.Client
}

// NewClient creates an API client for the workspace using the given token
// provider.
func NewClient(workspace *Workspace, tokens TokenProvider) *Client {
	return &Client{
		Workspace:  workspace,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type lineageRequest struct {
	TableName            string `json:"table_name"`
	IncludeEntityLineage bool   `json:"include_entity_lineage"`
}

// TableLineage fetches the one-hop lineage document for a fully qualified
// table name. The endpoint takes a GET with a JSON body. Token retrieval
// failures surface as AuthError, non-2xx responses as APIError; neither is
// retried.
func (c *Client) TableLineage(ctx context.Context, fqn string) (*LineageDocument, error) {
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, domain.ErrAuth(err, "retrieve API token")
	}

	payload, err := json.Marshal(lineageRequest{TableName: fqn, IncludeEntityLineage: true})
	if err != nil {
		return nil, fmt.Errorf("encode lineage request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Workspace.BaseURL()+lineageTrackingPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build lineage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lineage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.ErrAPI(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc LineageDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode lineage response: %w", err)
	}
	return &doc, nil
}
