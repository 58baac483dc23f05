package service

import (
	"context"
	"strings"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/telemetry"
)

// Retriever finds knowledge-base matches for a query text.
type Retriever interface {
	Retrieve(ctx context.Context, queryText string) ([]*domain.RetrievalResult, error)
}

// ChatClient generates a completion from a system/user prompt pair.
type ChatClient interface {
	GenerateReply(ctx context.Context, system, user string) (string, error)
}

// DraftInput carries the ticket and optional agent-supplied context for a
// reply draft.
type DraftInput struct {
	TicketContent     string
	FileContext       string
	CustomInstruction string
}

// DraftResult is a generated reply plus the references that grounded it.
type DraftResult struct {
	Reply      string
	References []*domain.RetrievalResult
}

// ReplyService orchestrates retrieve, assemble and generate for a single
// ticket.
type ReplyService struct {
	retriever Retriever
	assembler *PromptAssembler
	chat      ChatClient
}

func NewReplyService(retriever Retriever, chat ChatClient) *ReplyService {
	return &ReplyService{
		retriever: retriever,
		assembler: NewPromptAssembler(),
		chat:      chat,
	}
}

// Draft produces a suggested reply for the given ticket content.
// Retrieval runs on the raw ticket text; a degraded (empty) retrieval still
// yields a draft, but an embedding or generation failure fails the call.
func (s *ReplyService) Draft(ctx context.Context, input DraftInput) (*DraftResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReplyService.Draft", telemetry.SpanAttributes{
		Operation: "draft_reply",
	})
	defer span.End()

	if strings.TrimSpace(input.TicketContent) == "" {
		return nil, domain.ErrEmptyTicketContent
	}

	references, err := s.retriever.Retrieve(ctx, input.TicketContent)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	req := s.assembler.Assemble(input.TicketContent, references, input.FileContext, input.CustomInstruction)

	reply, err := s.chat.GenerateReply(ctx, req.System, req.User)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewGenerationError(err)
	}

	return &DraftResult{
		Reply:      reply,
		References: references,
	}, nil
}
