//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloo-solutions/replypilot/internal/api/handlers"
	"github.com/cloo-solutions/replypilot/internal/repository"
	"github.com/cloo-solutions/replypilot/internal/server"
	"github.com/cloo-solutions/replypilot/internal/service"
	"github.com/cloo-solutions/replypilot/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testAPIKey    = "e2e-test-key"
	embeddingDims = 1536
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	Chat         *stubChatClient
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a container-backed
// database and an in-process server. The embedding and chat clients are
// deterministic stubs so tests run without external AI services.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	chat := &stubChatClient{reply: "Thanks for reaching out. Please try restarting the device."}
	serverURL, serverCloser := startServer(t, pool, chat, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Chat:         chat,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// APIResponse represents a decoded response envelope plus the raw body
// for field-level assertions.
type APIResponse struct {
	Status int
	OK     bool
	Error  string
	Body   map[string]interface{}
}

// Get performs a GET request with the test API key.
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, testAPIKey)
}

// Post performs a POST request with the test API key.
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body, testAPIKey)
}

// DoUnauthenticated performs a request without an Authorization header.
func (e *E2ETestEnv) DoUnauthenticated(method, path string) (*APIResponse, error) {
	return e.doRequest(method, path, nil, "")
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, apiKey string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	result := &APIResponse{Status: resp.StatusCode, Body: map[string]interface{}{}}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result.Body); err != nil {
			return nil, fmt.Errorf("HTTP %d: invalid JSON body: %s", resp.StatusCode, respBody)
		}
	}
	if ok, isBool := result.Body["ok"].(bool); isBool {
		result.OK = ok
	}
	if msg, isString := result.Body["error"].(string); isString {
		result.Error = msg
	}

	return result, nil
}

// startServer wires repositories and services against the test database and
// serves them on the given port.
func startServer(t *testing.T, pool *pgxpool.Pool, chat *stubChatClient, port int) (string, func()) {
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	embedder := &stubEmbeddingClient{}

	ingestSvc := service.NewIngestService(embedder, knowledgeRepo)
	retrievalSvc := service.NewRetrievalService(embedder, knowledgeRepo)
	replySvc := service.NewReplyService(retrievalSvc, chat)
	listingSvc := service.NewListingService(knowledgeRepo)

	router := server.NewRouter(server.RouterConfig{
		APIKey:           testAPIKey,
		IngestHandler:    handlers.NewIngestHandler(ingestSvc),
		ReplyHandler:     handlers.NewReplyHandler(replySvc),
		KnowledgeHandler: handlers.NewKnowledgeHandler(listingSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// stubEmbeddingClient hashes words into a fixed-dimension bag-of-words vector,
// normalized to unit length. Texts sharing vocabulary come out similar, so
// retrieval behaves like the real thing without calling an embedding API.
type stubEmbeddingClient struct{}

func (c *stubEmbeddingClient) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, embeddingDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(word, ".,!?\"'")))
		v[h.Sum32()%embeddingDims]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		v[0] = 1
		return v, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v, nil
}

// stubChatClient returns a canned reply and records the prompts it saw.
type stubChatClient struct {
	mu         sync.Mutex
	reply      string
	LastSystem string
	LastUser   string
}

func (c *stubChatClient) GenerateReply(_ context.Context, system, user string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastSystem = system
	c.LastUser = user
	return c.reply, nil
}

// LastPrompts returns the most recent system and user prompts.
func (c *stubChatClient) LastPrompts() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LastSystem, c.LastUser
}
