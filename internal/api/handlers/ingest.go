package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/replypilot/internal/api"
	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/service"
)

type IngestService interface {
	Ingest(ctx context.Context, input service.IngestInput) ([]string, error)
}

type IngestHandler struct {
	svc IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

type IngestRequest struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Ingest accepts a document and indexes it into the knowledge base.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "Missing content")
		return
	}
	if req.Type == "" {
		req.Type = string(domain.SourceTypeFile)
	}
	if req.Name == "" {
		req.Name = "Unknown"
	}

	ids, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Content: req.Content,
		Source:  domain.SourceType(req.Type),
		Name:    req.Name,
		Tags:    req.Tags,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, api.Envelope{
		"message": "Ingested successfully",
		"ids":     ids,
	})
}
