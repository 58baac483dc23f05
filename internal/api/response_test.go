package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusOK, Envelope{"reply": "hello there"})

	assert.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
	assert.Equal(t, "hello there", result["reply"])
}

func TestSuccess_NilPayload(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusOK, nil)

	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "invalid input")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, false, result["ok"])
	assert.Equal(t, "invalid input", result["error"])
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", domain.ErrEmptyTicketContent, http.StatusBadRequest},
		{"not found error", domain.ErrRecordNotFound, http.StatusNotFound},
		{"embedding error", domain.NewEmbeddingError(errors.New("quota")), http.StatusBadGateway},
		{"generation error", domain.NewGenerationError(errors.New("overloaded")), http.StatusBadGateway},
		{"upstream fetch error", domain.NewUpstreamFetchError("search failed", errors.New("503")), http.StatusBadGateway},
		{"store error", domain.NewStoreError(errors.New("conn refused")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError_HidesUpstreamCause(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domain.NewEmbeddingError(errors.New("api key sk-secret rejected")))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "embedding provider failed", result["error"])
	assert.NotContains(t, w.Body.String(), "sk-secret")
}

func TestHandleError_PlainErrorIsGeneric(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "internal server error", result["error"])
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
