package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cloo-solutions/replypilot/internal/api"
	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/service"
	"github.com/go-chi/chi/v5"
)

type ListingService interface {
	List(ctx context.Context, cursor string, limit int) (*service.RecordPageResult, error)
	Get(ctx context.Context, id string) (*domain.KnowledgeRecord, error)
}

type KnowledgeHandler struct {
	svc ListingService
}

func NewKnowledgeHandler(svc ListingService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type KnowledgeRecordResponse struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Source     string   `json:"source"`
	SourceName string   `json:"source_name"`
	TicketID   string   `json:"ticket_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"created_at"`
	IngestedAt string   `json:"ingested_at"`
}

func recordToResponse(rec *domain.KnowledgeRecord) *KnowledgeRecordResponse {
	return &KnowledgeRecordResponse{
		ID:         rec.ID,
		Content:    rec.Content,
		Source:     string(rec.Source),
		SourceName: rec.SourceName,
		TicketID:   rec.TicketID,
		Tags:       rec.Tags,
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		IngestedAt: rec.IngestedAt.UTC().Format(time.RFC3339),
	}
}

// List returns one page of indexed records, newest first. Supports
// ?cursor= and ?limit= query params.
func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.svc.List(r.Context(), cursor, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*KnowledgeRecordResponse, 0, len(page.Items))
	for _, rec := range page.Items {
		items = append(items, recordToResponse(rec))
	}

	api.Success(w, http.StatusOK, api.Envelope{
		"items":    items,
		"cursor":   page.NextCursor,
		"has_more": page.HasMore,
	})
}

// Get returns one record by ID.
func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, api.Envelope{"record": recordToResponse(rec)})
}
