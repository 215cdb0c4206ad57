// Package chatsvc talks to the health service's free-form chat assistant and
// checks whether the service's endpoints are reachable. Chat history lives
// on the service; nothing here is persisted locally.
package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// Service paths.
const (
	PathSend    = "/chat/send"
	PathHistory = "/chat/history"
	PathClear   = "/chat/clear"
	PathLogin   = "/auth/login"
)

// Reply is the assistant's answer to one message.
type Reply struct {
	Message  string `json:"message"`
	FollowUp string `json:"follow_up,omitempty"`
}

// Entry is one message of the stored conversation. Sender is "user" or "bot".
type Entry struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// IsBot reports whether the assistant wrote the entry.
func (e Entry) IsBot() bool { return e.Sender == "bot" }

type historyResponse struct {
	History []Entry `json:"history"`
}

// Client is a chat service client. Errors use the predictor taxonomy so
// predictor.Describe renders them.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken forwards token as the access_token cookie.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts one user message and returns the assistant's reply.
func (c *Client) Send(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("chat: empty message")
	}
	var out Reply
	if err := c.do(ctx, http.MethodPost, PathSend, map[string]string{"message": message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the stored conversation, oldest first.
func (c *Client) History(ctx context.Context) ([]Entry, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, PathHistory, nil, &out); err != nil {
		return nil, err
	}
	if out.History == nil {
		return []Entry{}, nil
	}
	return out.History, nil
}

// Clear deletes the stored conversation.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathClear, nil, nil)
}

// do sends body (JSON, may be nil) and decodes a 2xx reply into out (may be nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: predictor.TokenCookie, Value: c.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &predictor.NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &predictor.NetworkError{Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &predictor.ServerError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &predictor.MalformedResponseError{Endpoint: path, Content: raw, Err: err}
	}
	return nil
}
