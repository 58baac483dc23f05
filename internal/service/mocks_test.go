package service

import (
	"context"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/pagination"
	"github.com/stretchr/testify/mock"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockRecordWriter is a mock implementation of RecordWriter
type MockRecordWriter struct {
	mock.Mock
}

func (m *MockRecordWriter) InsertBatch(ctx context.Context, recs []*domain.KnowledgeRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

// MockSourceArchive is a mock implementation of SourceArchive
type MockSourceArchive struct {
	mock.Mock
}

func (m *MockSourceArchive) ArchiveSource(ctx context.Context, key, content string) error {
	args := m.Called(ctx, key, content)
	return args.Error(0)
}

// MockUUIDGenerator returns a fixed sequence of IDs
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

// MockRecordSearcher is a mock implementation of RecordSearcher
type MockRecordSearcher struct {
	mock.Mock
}

func (m *MockRecordSearcher) Search(ctx context.Context, embedding []float32, threshold float32, count int) ([]*domain.RetrievalResult, error) {
	args := m.Called(ctx, embedding, threshold, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RetrievalResult), args.Error(1)
}

// MockRetriever is a mock implementation of Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, queryText string) ([]*domain.RetrievalResult, error) {
	args := m.Called(ctx, queryText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RetrievalResult), args.Error(1)
}

// MockChatClient is a mock implementation of ChatClient
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) GenerateReply(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// MockSubscriberSource is a mock implementation of SubscriberSource
type MockSubscriberSource struct {
	mock.Mock
}

func (m *MockSubscriberSource) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTicketAPI is a mock implementation of TicketAPI
type MockTicketAPI struct {
	mock.Mock
}

func (m *MockTicketAPI) SearchTickets(ctx context.Context, query, cursor string) (*domain.TicketPage, error) {
	args := m.Called(ctx, query, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketPage), args.Error(1)
}

func (m *MockTicketAPI) ListComments(ctx context.Context, ticketID int64) ([]*domain.TicketComment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TicketComment), args.Error(1)
}

func (m *MockTicketAPI) GetUser(ctx context.Context, userID int64) (*domain.TicketUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketUser), args.Error(1)
}

// MockRecordChecker is a mock implementation of RecordChecker
type MockRecordChecker struct {
	mock.Mock
}

func (m *MockRecordChecker) ExistsByTicketID(ctx context.Context, ticketID string) (bool, error) {
	args := m.Called(ctx, ticketID)
	return args.Bool(0), args.Error(1)
}

// MockIngestor is a mock implementation of Ingestor
type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) Ingest(ctx context.Context, input IngestInput) ([]string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecordLister is a mock implementation of RecordLister
type MockRecordLister struct {
	mock.Mock
}

func (m *MockRecordLister) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*RecordPageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RecordPageResult), args.Error(1)
}

func (m *MockRecordLister) GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeRecord), args.Error(1)
}
