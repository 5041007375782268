package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
)

const maxErrorBody = 1 << 10

// Config holds the REST endpoint and application-password credentials.
type Config struct {
	Endpoint            string
	Username            string
	ApplicationPassword string
	Timeout             time.Duration
}

// StatusError is returned when WordPress answers anything other than 201 Created.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress returned %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status WordPress answered with.
func (e *StatusError) StatusCode() int { return e.Code }

// ResponseBody returns the (truncated) response body.
func (e *StatusError) ResponseBody() string { return e.Body }

var _ ports.RejectedError = (*StatusError)(nil)

// Client creates posts through the WordPress REST API.
type Client struct {
	cfg    Config
	client *http.Client
}

var _ ports.ContentBackend = (*Client)(nil)

// NewClient wires cfg with transport; http.DefaultTransport is used when transport is nil.
func NewClient(cfg Config, transport http.RoundTripper) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}
}

type createPostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Categories []int  `json:"categories"`
}

type createPostResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// CreatePost submits draft and returns the created post.
func (c *Client) CreatePost(ctx context.Context, draft domain.PostDraft) (domain.Post, error) {
	payload, err := json.Marshal(createPostRequest{
		Title:      draft.Title,
		Content:    draft.Content,
		Status:     draft.Status,
		Categories: draft.Categories,
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Post{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.ApplicationPassword)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Post{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Post{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var created createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return domain.Post{}, fmt.Errorf("decode created post: %w", err)
	}
	return domain.Post{ID: created.ID, Link: created.Link}, nil
}
