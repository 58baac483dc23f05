package service

import (
	"context"
	"log"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/telemetry"
)

const (
	// DefaultMatchThreshold is the minimum cosine similarity for a match
	DefaultMatchThreshold float32 = 0.5
	// DefaultMatchCount is the maximum number of references retrieved per query
	DefaultMatchCount = 3
)

// RecordSearcher defines the vector-store read interface
type RecordSearcher interface {
	Search(ctx context.Context, embedding []float32, threshold float32, count int) ([]*domain.RetrievalResult, error)
}

// RetrievalService embeds a query and finds the closest past resolutions.
type RetrievalService struct {
	embedder  EmbeddingClient
	searcher  RecordSearcher
	threshold float32
	count     int
}

func NewRetrievalService(embedder EmbeddingClient, searcher RecordSearcher) *RetrievalService {
	return &RetrievalService{
		embedder:  embedder,
		searcher:  searcher,
		threshold: DefaultMatchThreshold,
		count:     DefaultMatchCount,
	}
}

// WithDefaults overrides the deployment-level threshold and count. Zero
// values keep the existing setting.
func (s *RetrievalService) WithDefaults(threshold float32, count int) *RetrievalService {
	if threshold > 0 {
		s.threshold = threshold
	}
	if count > 0 {
		s.count = count
	}
	return s
}

// Retrieve embeds queryText and returns up to count matches at or above the
// similarity threshold, best first.
//
// An embedding failure propagates: without a query vector there is nothing
// to search. A store failure does not: generation must proceed ungrounded
// rather than fail the whole request, so the error is logged and an empty
// result returned.
func (s *RetrievalService) Retrieve(ctx context.Context, queryText string) ([]*domain.RetrievalResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	embedding, err := s.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewEmbeddingError(err)
	}

	results, err := s.searcher.Search(ctx, embedding, s.threshold, s.count)
	if err != nil {
		log.Printf("knowledge search failed (continuing without context): %v", err)
		telemetry.CaptureError(ctx, err)
		return []*domain.RetrievalResult{}, nil
	}

	return results, nil
}
