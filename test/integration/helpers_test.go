//go:build integration

// Package integration exercises the relay end to end: real router, real
// lineage service, real workspace client, against a fake Databricks
// workspace. Run with -tags integration.
package integration

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"laketrace/internal/api"
	"laketrace/internal/databricks"
	"laketrace/internal/lineage"
	"laketrace/internal/middleware"
	"laketrace/internal/ui"
)

const (
	relayConfigToken = "dapi-relay-config-token"
	relayWorkspaceID = "12345"
)

// fakeWorkspace imitates the lineage-tracking endpoint of a Databricks
// workspace. Documents are registered per fully qualified table name.
type fakeWorkspace struct {
	srv *httptest.Server

	mu        sync.Mutex
	docs      map[string]string
	failCode  int
	failBody  string
	lastAuth  string
	lastTable string
}

func newFakeWorkspace(t *testing.T) *fakeWorkspace {
	t.Helper()
	f := &fakeWorkspace{docs: map[string]string{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2.0/lineage-tracking/table-lineage" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			TableName string `json:"table_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastTable = req.TableName
		failCode, failBody := f.failCode, f.failBody
		doc, ok := f.docs[req.TableName]
		f.mu.Unlock()

		if failCode != 0 {
			http.Error(w, failBody, failCode)
			return
		}
		if !ok {
			doc = `{}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeWorkspace) setDoc(fqn, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[fqn] = doc
}

func (f *fakeWorkspace) failWith(code int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCode, f.failBody = code, body
}

func (f *fakeWorkspace) clearFailure() {
	f.failWith(0, "")
}

func (f *fakeWorkspace) last() (auth, table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth, f.lastTable
}

// relayTestEnv bundles the relay under test with its fake workspace.
type relayTestEnv struct {
	Relay     *httptest.Server
	Workspace *fakeWorkspace
}

// setupRelay wires the full production stack against a fake workspace:
// router, handlers, lineage service, and workspace client with token
// passthrough.
func setupRelay(t *testing.T) *relayTestEnv {
	t.Helper()

	fake := newFakeWorkspace(t)

	workspace, err := databricks.NewWorkspace(fake.srv.URL, relayWorkspaceID)
	require.NoError(t, err)

	tokens := databricks.PassthroughToken(databricks.StaticToken(relayConfigToken))
	svc := lineage.NewService(databricks.NewClient(workspace, tokens), workspace)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	router := api.NewRouter(api.NewHandler(svc, logger), ui.NewHandler(svc), api.RouterConfig{
		Logger:             logger,
		Metrics:            middleware.NewMetrics(),
		CORSAllowedOrigins: []string{"*"},
		RateLimit:          middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	})

	relay := httptest.NewServer(router)
	t.Cleanup(relay.Close)

	return &relayTestEnv{Relay: relay, Workspace: fake}
}

// doRequest issues a request with an optional bearer token and returns the
// response. The body is the caller's to close.
func doRequest(t *testing.T, method, url, token string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
