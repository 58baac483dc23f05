package api

import (
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/replypilot/internal/domain"
)

// Envelope is the wire shape of every response body. Success payloads carry
// their fields alongside "ok": true; failures carry "ok": false and "error".
type Envelope map[string]interface{}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response, merging payload into the envelope.
func Success(w http.ResponseWriter, status int, payload Envelope) {
	body := Envelope{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{"ok": false, "error": message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes. Upstream
// provider failures (embedding, generation, ticket fetch) are bad gateways;
// store failures are internal.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeEmbedding, domain.ErrCodeGeneration, domain.ErrCodeUpstreamFetch:
		return http.StatusBadGateway
	case domain.ErrCodeStore, domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type.
// Only DomainError messages reach clients; raw error strings may carry
// upstream details (connection strings, API keys) and stay server-side.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	message := "internal server error"
	if domainErr, ok := err.(*domain.DomainError); ok {
		message = domainErr.Message
	}
	Error(w, status, message)
}
