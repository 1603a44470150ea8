package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps a single catalog response.
const maxBodyBytes = 8 << 20

// Response is the raw outcome of one endpoint fetch.
type Response struct {
	Body []byte
	Err  error
}

// Fetcher retrieves raw payloads for every catalog endpoint.
type Fetcher interface {
	FetchAll(ctx context.Context) map[string]Response
}

// Client fetches the public catalog endpoints over HTTP.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a catalog client for baseURL with a per-request timeout.
// The transport is instrumented with OpenTelemetry.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

var _ Fetcher = (*Client)(nil)

// FetchAll requests every endpoint concurrently and waits for all of them.
// A failing endpoint never cancels the others.
func (c *Client) FetchAll(ctx context.Context) map[string]Response {
	var (
		mu  sync.Mutex
		out = make(map[string]Response, len(Endpoints))
		g   errgroup.Group
	)
	for _, ep := range Endpoints {
		g.Go(func() error {
			body, err := c.fetch(ctx, ep)
			mu.Lock()
			out[ep] = Response{Body: body, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return body, nil
}
