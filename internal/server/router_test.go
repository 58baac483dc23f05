package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/replypilot/internal/api/handlers"
	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, input service.IngestInput) ([]string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReplyService struct {
	mock.Mock
}

func (m *MockReplyService) Draft(ctx context.Context, input service.DraftInput) (*service.DraftResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftResult), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) List(ctx context.Context, cursor string, limit int) (*service.RecordPageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordPageResult), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeRecord), args.Error(1)
}

type routerFixture struct {
	ingest  *MockIngestService
	reply   *MockReplyService
	listing *MockListingService
	handler http.Handler
}

func newRouterFixture(apiKey string) *routerFixture {
	f := &routerFixture{
		ingest:  new(MockIngestService),
		reply:   new(MockReplyService),
		listing: new(MockListingService),
	}
	f.handler = NewRouter(RouterConfig{
		APIKey:           apiKey,
		IngestHandler:    handlers.NewIngestHandler(f.ingest),
		ReplyHandler:     handlers.NewReplyHandler(f.reply),
		KnowledgeHandler: handlers.NewKnowledgeHandler(f.listing),
	})
	return f
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture("secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, true, result["ok"])
	assert.Equal(t, "ok", result["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_HealthSkipsAuth(t *testing.T) {
	f := newRouterFixture("secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	f := newRouterFixture("secret")

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/ingest"},
		{http.MethodPost, "/reply"},
		{http.MethodGet, "/knowledge"},
		{http.MethodGet, "/knowledge/rec-1"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, bytes.NewReader([]byte("{}")))
			w := httptest.NewRecorder()
			f.handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_ReplyRoute(t *testing.T) {
	f := newRouterFixture("secret")

	f.reply.On("Draft", mock.Anything, mock.Anything).
		Return(&service.DraftResult{Reply: "Hello!"}, nil)

	body, _ := json.Marshal(map[string]string{"ticketContent": "help me"})
	req := httptest.NewRequest(http.MethodPost, "/reply", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello!")
}

func TestRouter_IngestRoute(t *testing.T) {
	f := newRouterFixture("secret")

	f.ingest.On("Ingest", mock.Anything, mock.Anything).Return([]string{"rec-1"}, nil)

	body, _ := json.Marshal(map[string]string{"content": "doc text", "type": "file", "name": "a.txt"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_KnowledgeRoutes(t *testing.T) {
	f := newRouterFixture("")

	f.listing.On("List", mock.Anything, "", 0).Return(&service.RecordPageResult{}, nil)
	f.listing.On("Get", mock.Anything, "missing").Return(nil, domain.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/knowledge", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/knowledge/missing", nil)
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	f := newRouterFixture("")

	big := bytes.Repeat([]byte("x"), 6*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(big))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
