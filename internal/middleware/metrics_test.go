package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CollectAndExpose(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Collect)
	r.Get("/api/v1/lineage/{catalog}/{schema}/{table}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{
		"/api/v1/lineage/main/sales/orders",
		"/api/v1/lineage/main/sales/customers",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	// Both requests share one series labelled by the route pattern.
	assert.Contains(t, string(body),
		`lineage_relay_requests_total{method="GET",path="/api/v1/lineage/{catalog}/{schema}/{table}",status="200"} 2`)
	assert.Contains(t, string(body), "lineage_relay_request_duration_seconds")
}

func TestMetrics_RecordsStatus(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Collect)
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `status="502"`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not panic with duplicate registration.
	a := NewMetrics()
	b := NewMetrics()
	assert.NotNil(t, a)
	assert.NotNil(t, b)
}
