package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/reports"
)

const testSchema = `
CREATE TABLE reports (
    id           TEXT PRIMARY KEY,
    scenario_id  TEXT,
    title        TEXT NOT NULL,
    generated_at INTEGER NOT NULL,
    document     TEXT NOT NULL
);
`

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()

	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	service := reports.NewService(
		reports.NewRepository(db, logger),
		reports.NewAssembler(),
		comparison.NewEngine(),
		events.NewBus(logger),
		filepath.Join(t.TempDir(), "reports"),
		logger,
	)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(service, logger).RegisterRoutes(r)
	})
	return router
}

func generateTestReport(t *testing.T, router chi.Router) string {
	t.Helper()

	requestBody := map[string]interface{}{
		"analog": map[string]interface{}{
			"circuit_width": 5,
		},
		"digital": map[string]interface{}{
			"logical_qubits":      10,
			"target_runtime_us":   1000.0,
			"physical_error_rate": 0.001,
		},
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/reports/generate", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestHandleGenerate(t *testing.T) {
	router := setupTestRouter(t)

	id := generateTestReport(t, router)
	assert.NotEmpty(t, id)
}

func TestHandleGenerateInvalidConfig(t *testing.T) {
	router := setupTestRouter(t)

	requestBody := map[string]interface{}{
		"analog": map[string]interface{}{
			"circuit_width": 5,
		},
		"digital": map[string]interface{}{
			"logical_qubits":      10,
			"target_runtime_us":   1000.0,
			"physical_error_rate": 0.05,
		},
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/reports/generate", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be below threshold")
}

func TestHandleGet(t *testing.T) {
	router := setupTestRouter(t)
	id := generateTestReport(t, router)

	req := httptest.NewRequest("GET", "/api/reports/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, id, data["id"])

	document := data["document"].(map[string]interface{})
	assert.Contains(t, document, "analog_simulation")
	assert.Contains(t, document, "digital_fault_tolerant")
	assert.Contains(t, document, "comparison")
}

func TestHandleGetNotFound(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/reports/does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetText(t *testing.T) {
	router := setupTestRouter(t)
	id := generateTestReport(t, router)

	req := httptest.NewRequest("GET", "/api/reports/"+id+"/text", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "ANALOG SIMULATION")
	assert.Contains(t, w.Body.String(), "COMPARISON")
}

func TestHandleList(t *testing.T) {
	router := setupTestRouter(t)
	generateTestReport(t, router)
	generateTestReport(t, router)

	req := httptest.NewRequest("GET", "/api/reports/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestHandleListInvalidLimit(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/reports/?limit=banana", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDelete(t *testing.T) {
	router := setupTestRouter(t)
	id := generateTestReport(t, router)

	req := httptest.NewRequest("DELETE", "/api/reports/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("DELETE", "/api/reports/"+id, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleExport(t *testing.T) {
	router := setupTestRouter(t)
	id := generateTestReport(t, router)

	req := httptest.NewRequest("POST", "/api/reports/"+id+"/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data["json_path"], ".json")
	assert.Contains(t, data["text_path"], ".txt")
}
