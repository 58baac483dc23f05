package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/replypilot/internal/api"
	"github.com/cloo-solutions/replypilot/internal/service"
)

type ReplyService interface {
	Draft(ctx context.Context, input service.DraftInput) (*service.DraftResult, error)
}

type ReplyHandler struct {
	svc ReplyService
}

func NewReplyHandler(svc ReplyService) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

type ReplyRequest struct {
	TicketContent     string `json:"ticketContent"`
	CustomInstruction string `json:"customInstruction,omitempty"`
	FileContext       string `json:"fileContext,omitempty"`
}

// Draft generates a suggested support reply for a ticket.
func (h *ReplyHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TicketContent == "" {
		api.Error(w, http.StatusBadRequest, "Missing ticket content")
		return
	}

	result, err := h.svc.Draft(r.Context(), service.DraftInput{
		TicketContent:     req.TicketContent,
		FileContext:       req.FileContext,
		CustomInstruction: req.CustomInstruction,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, api.Envelope{"reply": result.Reply})
}
