package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certwise/coiguard/internal/analysis"
	"github.com/certwise/coiguard/internal/catalog"
	"github.com/certwise/coiguard/internal/engine"
	"github.com/certwise/coiguard/internal/ledger"
	"github.com/certwise/coiguard/internal/model"
	"github.com/certwise/coiguard/internal/storage"
)

func newTestServer(t *testing.T, records []model.RequirementRecord) *Server {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.New(catalog.New(records), catalog.DefaultTradeTable(),
		engine.WithClock(func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }))

	return New(Config{Addr: ":0", AnalysisTimeout: analysis.DefaultTimeout},
		eng, ledger.New(store), store, nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	payload := map[string]any{
		"coverage": map[string]any{
			"coi_id":          "coi-1",
			"trades":          []string{"roofing"},
			"exclusions_text": "no roofing work permitted",
		},
		"project": map[string]any{
			"project_id": "proj-1",
			"program_id": "wrap-a",
		},
	}

	w := doJSON(t, srv, http.MethodPost, "/api/validate", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.ComplianceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.False(t, result.Compliant)
	require.Len(t, result.ExcludedTrades, 1)
	assert.Equal(t, "roofing", result.ExcludedTrades[0].Trade)
	assert.Equal(t, model.StatusCriticalIssues, result.OverallStatus)
	assert.NotEmpty(t, result.Summary)
}

func TestValidateEndpointBadPayload(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOverrideWorkflow(t *testing.T) {
	srv := newTestServer(t, nil)

	validate := func() model.ComplianceResult {
		payload := map[string]any{
			"coverage": map[string]any{
				"coi_id": "coi-ov",
				"trades": []string{"electrical"},
				"exclusions": map[string]any{
					"hammer_clause": true,
				},
			},
			"project": map[string]any{
				"project_id": "proj-1",
				"program_id": "wrap-a",
			},
		}
		w := doJSON(t, srv, http.MethodPost, "/api/validate", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result model.ComplianceResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		return result
	}

	// The hammer clause is the one finding.
	result := validate()
	require.Len(t, result.Issues, 1)
	key := result.Issues[0].Key()
	assert.False(t, result.Compliant)

	// Override without a reason is rejected.
	w := doJSON(t, srv, http.MethodPost, "/api/cois/coi-ov/overrides", map[string]any{
		"deficiency_key": key,
		"actor":          "admin@example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Override with a reason sticks.
	w = doJSON(t, srv, http.MethodPost, "/api/cois/coi-ov/overrides", map[string]any{
		"deficiency_key": key,
		"actor":          "admin@example.com",
		"reason":         "carrier confirmed clause removal effective 2026-08-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Re-validation now reports the COI compliant.
	result = validate()
	assert.Empty(t, result.Issues)
	assert.True(t, result.Compliant)

	// Revoke restores the finding.
	w = doJSON(t, srv, http.MethodPost, "/api/cois/coi-ov/overrides/revoke", map[string]any{
		"deficiency_key": key,
		"actor":          "admin@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	result = validate()
	require.Len(t, result.Issues, 1)
	assert.False(t, result.Compliant)

	// History keeps all three events.
	w = doJSON(t, srv, http.MethodGet, "/api/cois/coi-ov/overrides", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Events []model.OverrideRecord `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Events, 2, "the rejected override must not appear in history")
}

func TestPersistAndFetchResult(t *testing.T) {
	srv := newTestServer(t, nil)

	payload := map[string]any{
		"coverage": map[string]any{
			"coi_id": "coi-persist",
			"trades": []string{"plumbing"},
		},
		"project": map[string]any{
			"project_id": "proj-1",
			"program_id": "wrap-a",
		},
		"persist": true,
	}

	w := doJSON(t, srv, http.MethodPost, "/api/validate", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodGet, "/api/cois/coi-persist/result", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored model.ComplianceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "coi-persist", stored.COIID)
	assert.True(t, stored.Compliant)
}

func TestFetchResultNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	w := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/cois/%s/result", "coi-missing"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
