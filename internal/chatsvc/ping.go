package chatsvc

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// Endpoints is every path the client depends on, in display order.
var Endpoints = []string{
	predictor.PathPredict,
	predictor.PathGetData,
	PathLogin,
	PathSend,
	PathHistory,
	PathClear,
}

// EndpointStatus is the reachability of one endpoint.
type EndpointStatus struct {
	Path    string
	Status  int // 0 when no response arrived
	Latency time.Duration
	Err     error
}

// Reachable reports whether the route answered. Any response other than a
// 404 or a 5xx counts: a 405 or 401 still proves the route exists.
func (p EndpointStatus) Reachable() bool {
	return p.Err == nil && p.Status != http.StatusNotFound && p.Status < 500
}

// Ping checks every endpoint concurrently with a bodiless GET. Results come
// back in Endpoints order. The error is ctx's, if it ended.
func (c *Client) Ping(ctx context.Context) ([]EndpointStatus, error) {
	statuses := make([]EndpointStatus, len(Endpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range Endpoints {
		g.Go(func() error {
			statuses[i] = c.check(gctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return statuses, ctx.Err()
}

func (c *Client) check(ctx context.Context, path string) EndpointStatus {
	p := EndpointStatus{Path: path}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		p.Err = err
		return p
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: predictor.TokenCookie, Value: c.token})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	p.Latency = time.Since(start)
	if err != nil {
		p.Err = &predictor.NetworkError{Endpoint: path, Err: err}
		return p
	}
	resp.Body.Close()
	p.Status = resp.StatusCode
	return p
}
