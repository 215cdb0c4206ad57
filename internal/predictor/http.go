package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// maxErrorBody caps how much of a failed response is kept on ServerError.
const maxErrorBody = 512

// TokenCookie is the cookie the service reads the access token from.
const TokenCookie = "access_token"

// HTTPClient is the Client for the real service.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithToken forwards token as the access_token cookie on every request.
func WithToken(token string) HTTPOption {
	return func(c *HTTPClient) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewHTTPClient creates a client rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Predict(ctx context.Context, q Query) (*Candidates, error) {
	// The service expects lists, never null.
	if q.Symptoms == nil {
		q.Symptoms = []string{}
	}
	if q.RejectedSymptoms == nil {
		q.RejectedSymptoms = []string{}
	}

	var out Candidates
	if err := c.post(ctx, PathPredict, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Remedies(ctx context.Context, q RemedyQuery) (*Bundle, error) {
	var out Bundle
	if err := c.post(ctx, PathGetData, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends body as JSON to path and decodes a validated 2xx reply into out.
func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: c.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Endpoint: path, StatusCode: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}

	if err := validate(path, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Endpoint: path, Content: raw, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so the body stays valid UTF-8.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
