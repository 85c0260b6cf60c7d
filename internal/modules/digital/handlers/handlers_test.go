package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEstimate(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	requestBody := map[string]interface{}{
		"logical_qubits":      10,
		"target_runtime_us":   1000.0,
		"physical_error_rate": 0.001,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/digital/estimate", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleEstimate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.Contains(t, response, "data")
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(21), data["code_distance"])
	assert.Equal(t, float64(882), data["qubits_per_logical"])
	assert.Equal(t, float64(189630), data["total_physical_qubits"])
	assert.Contains(t, data, "success_probability")
	assert.Contains(t, data, "wall_clock_time_us")
}

func TestHandleEstimateAboveThreshold(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	requestBody := map[string]interface{}{
		"logical_qubits":      10,
		"target_runtime_us":   1000.0,
		"physical_error_rate": 0.02,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/digital/estimate", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleEstimate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be below threshold")
}

func TestHandleCodeDistance(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	requestBody := map[string]interface{}{
		"physical_error_rate":       0.001,
		"target_logical_error_rate": 1e-10,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/digital/code-distance", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleCodeDistance(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(21), data["code_distance"])
	assert.Equal(t, float64(882), data["qubits_per_logical"])
}

func TestHandleCodeDistanceDefaultsTarget(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	// Omitting the target should fall back to the default 1e-10.
	requestBody := map[string]interface{}{
		"physical_error_rate": 0.001,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/digital/code-distance", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleCodeDistance(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(21), data["code_distance"])
}

func TestHandleGetDefaults(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	req := httptest.NewRequest("GET", "/api/digital/defaults", nil)
	w := httptest.NewRecorder()

	handler.HandleGetDefaults(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, 0.01, data["error_threshold"])
	assert.Equal(t, float64(100), data["default_t_gate_count"])
	assert.Equal(t, 2.0, data["default_magic_state_overhead_factor"])
}

func TestInvalidJSONRequest(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(logger)

	req := httptest.NewRequest("POST", "/api/digital/estimate", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	handler.HandleEstimate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
