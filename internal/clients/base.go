// Package clients holds the thin HTTP gateways to the storefront's upstream
// microservices: cart, auth, catalog, coupons, payment and billing. Each
// gateway normalizes wire shapes at this boundary and returns canonical
// domain types.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GOSUGING/levelup-storefront-go/internal/middleware"
)

var upstreamFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_upstream_failures_total",
		Help: "Upstream requests that errored or returned a non-2xx status",
	},
	[]string{"service"},
)

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// StatusError is returned for non-2xx upstream responses. The response body
// is not assumed to be parseable and is discarded.
type StatusError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s %s returned status %d", e.Service, e.Method, e.Path, e.StatusCode)
}

// doJSON issues a JSON request and decodes a 2xx response into out. Pass nil
// body for bodyless requests and nil out to discard the response.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		reader = bytes.NewReader(raw)
	}

	rel := &url.URL{Path: path}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.Name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Ensure correlation id propagated downstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		upstreamFailures.WithLabelValues(c.Name).Inc()
		return fmt.Errorf("%s: %s %s: %w", c.Name, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		upstreamFailures.WithLabelValues(c.Name).Inc()
		return &StatusError{Service: c.Name, Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.Name, err)
	}
	return nil
}
