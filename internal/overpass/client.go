// Package overpass queries an OpenStreetMap Overpass endpoint and
// translates its element lists into GeoJSON.
package overpass

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/usavibesmap/geoapi/internal/upstream"
)

const userAgent = "USAVibesMap/1.0 (self-hosted)"

// DefaultTimeout bounds a single Overpass round trip. Overpass queries can
// be slow on large bboxes, so this is deliberately generous.
const DefaultTimeout = 60 * time.Second

// Response is the decoded Overpass JSON payload.
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is a single OSM element from an Overpass result. Nodes carry
// lat/lon directly; ways and relations carry a center when the query asks
// for one ("out center").
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the computed centroid of a way or relation.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for Overpass calls.
// Public Overpass instances expect polite clients.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Client issues queries against a single Overpass endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an Overpass client for the given endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query POSTs an Overpass QL query and decodes the JSON result.
// Non-2xx responses and transport failures come back as *upstream.Error.
func (c *Client) Query(ctx context.Context, query string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "overpass: rate limit")
		}
	}

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.Wrap("overpass", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstream.StatusError("overpass", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstream.Wrap("overpass", err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "overpass: parse response")
	}

	zap.L().Debug("overpass: query complete",
		zap.Int("elements", len(out.Elements)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &out, nil
}
