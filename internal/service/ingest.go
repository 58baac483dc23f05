package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/telemetry"
	"github.com/google/uuid"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// RecordWriter defines the repository interface for inserting knowledge
// records. InsertBatch must be atomic: a failure leaves no records behind.
type RecordWriter interface {
	InsertBatch(ctx context.Context, recs []*domain.KnowledgeRecord) error
}

// SourceArchive stores raw source blobs before chunking. Optional; archive
// failures never fail an ingestion.
type SourceArchive interface {
	ArchiveSource(ctx context.Context, key, content string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// IngestInput carries one piece of source material into the knowledge base.
type IngestInput struct {
	Content   string
	Source    domain.SourceType
	Name      string
	TicketID  string
	Tags      []string
	CreatedAt time.Time // origin timestamp; zero means "now"
}

// IngestService validates input, embeds content, and writes knowledge records.
// Both the manual upload path and the sync job go through here.
type IngestService struct {
	embedder EmbeddingClient
	repo     RecordWriter
	archive  SourceArchive
	uuidGen  UUIDGenerator
	chunkCfg ChunkConfig
	clock    func() time.Time
}

func NewIngestService(embedder EmbeddingClient, repo RecordWriter) *IngestService {
	return &IngestService{
		embedder: embedder,
		repo:     repo,
		uuidGen:  &DefaultUUIDGenerator{},
		chunkCfg: DefaultChunkConfig(),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithArchive enables raw-source archival.
func (s *IngestService) WithArchive(archive SourceArchive) *IngestService {
	s.archive = archive
	return s
}

// WithChunkConfig overrides the chunking defaults.
func (s *IngestService) WithChunkConfig(cfg ChunkConfig) *IngestService {
	s.chunkCfg = cfg
	return s
}

// WithUUIDGenerator overrides UUID generation (for testing).
func (s *IngestService) WithUUIDGenerator(gen UUIDGenerator) *IngestService {
	s.uuidGen = gen
	return s
}

// Ingest embeds content and stores one record per chunk, returning the new
// record IDs. Identical content ingested twice creates two sets of records;
// deduplication is deliberately not attempted here.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		Source:    string(input.Source),
		TicketID:  input.TicketID,
		Operation: "ingest",
	})
	defer span.End()

	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrEmptyContent
	}
	if !domain.IsValidSourceType(input.Source) {
		return nil, domain.ErrInvalidSourceType
	}

	now := s.clock()
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	chunks := chunkText(input.Content, s.chunkCfg)

	ids := make([]string, 0, len(chunks))
	records := make([]*domain.KnowledgeRecord, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			span.SetError(err)
			return nil, domain.NewEmbeddingError(err)
		}

		rec := &domain.KnowledgeRecord{
			ID:         s.uuidGen.NewString(),
			Content:    chunk,
			Source:     input.Source,
			SourceName: input.Name,
			TicketID:   input.TicketID,
			Tags:       input.Tags,
			CreatedAt:  createdAt,
			IngestedAt: now,
			Embedding:  embedding,
		}
		if err := domain.ValidateKnowledgeRecord(rec); err != nil {
			return nil, err
		}
		ids = append(ids, rec.ID)
		records = append(records, rec)
	}

	// All embeddings succeeded; archive the raw source before writing.
	if s.archive != nil && len(ids) > 0 {
		if err := s.archive.ArchiveSource(ctx, ids[0], input.Content); err != nil {
			log.Printf("source archive failed for %s (continuing): %v", ids[0], err)
		}
	}

	if err := s.repo.InsertBatch(ctx, records); err != nil {
		span.SetError(err)
		return nil, domain.NewStoreError(err)
	}

	return ids, nil
}
