// Package zendesk is a narrow HTTP adapter for the ticketing platform.
// It carries no business logic; the sync service drives it through the
// service.TicketAPI interface.
package zendesk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cloo-solutions/replypilot/internal/domain"
)

const defaultTimeout = 30 * time.Second

// ClientConfig holds connection settings for the Zendesk REST API.
type ClientConfig struct {
	Subdomain string
	Email     string
	APIToken  string
}

// Client talks to the Zendesk v2 REST API using token basic auth.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// APIError represents a non-2xx response from the ticketing API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zendesk API error (%d): %s", e.StatusCode, e.Body)
}

func NewClient(cfg ClientConfig) *Client {
	credentials := fmt.Sprintf("%s/token:%s", cfg.Email, cfg.APIToken)
	return &Client{
		baseURL:    fmt.Sprintf("https://%s.zendesk.com/api/v2", cfg.Subdomain),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithBaseURL creates a client against an explicit base URL (tests).
func NewClientWithBaseURL(baseURL string, cfg ClientConfig) *Client {
	c := NewClient(cfg)
	c.baseURL = baseURL
	return c
}

type searchResponse struct {
	Results  []ticketJSON `json:"results"`
	NextPage *string      `json:"next_page"`
}

type ticketJSON struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags"`
}

type commentsResponse struct {
	Comments []commentJSON `json:"comments"`
}

type commentJSON struct {
	AuthorID int64  `json:"author_id"`
	Public   bool   `json:"public"`
	Body     string `json:"body"`
}

type userResponse struct {
	User userJSON `json:"user"`
}

type userJSON struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// SearchTickets fetches one page of tickets matching the query. An empty
// cursor requests the first page; otherwise cursor is the next_page URL
// returned by a previous call.
func (c *Client) SearchTickets(ctx context.Context, query, cursor string) (*domain.TicketPage, error) {
	requestURL := cursor
	if requestURL == "" {
		requestURL = fmt.Sprintf("%s/search.json?query=%s", c.baseURL, url.QueryEscape(query))
	}

	var resp searchResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	page := &domain.TicketPage{Tickets: make([]*domain.Ticket, 0, len(resp.Results))}
	for _, t := range resp.Results {
		page.Tickets = append(page.Tickets, &domain.Ticket{
			ID:          t.ID,
			Subject:     t.Subject,
			Description: t.Description,
			RequesterID: t.RequesterID,
			CreatedAt:   t.CreatedAt,
			Tags:        t.Tags,
		})
	}
	if resp.NextPage != nil {
		page.NextCursor = *resp.NextPage
	}

	return page, nil
}

// ListComments fetches a ticket's conversation in posting order.
func (c *Client) ListComments(ctx context.Context, ticketID int64) ([]*domain.TicketComment, error) {
	requestURL := fmt.Sprintf("%s/tickets/%d/comments.json", c.baseURL, ticketID)

	var resp commentsResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	comments := make([]*domain.TicketComment, 0, len(resp.Comments))
	for _, cm := range resp.Comments {
		comments = append(comments, &domain.TicketComment{
			AuthorID: cm.AuthorID,
			Public:   cm.Public,
			Body:     cm.Body,
		})
	}

	return comments, nil
}

// GetUser resolves a requester identity by ID.
func (c *Client) GetUser(ctx context.Context, userID int64) (*domain.TicketUser, error) {
	requestURL := fmt.Sprintf("%s/users/%d.json", c.baseURL, userID)

	var resp userResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	return &domain.TicketUser{ID: resp.User.ID, Email: resp.User.Email}, nil
}

func (c *Client) get(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
