// Package usgs queries the USGS FDSN earthquake event service. The service
// already speaks GeoJSON, so responses pass through untranslated.
package usgs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/usavibesmap/geoapi/internal/geo"
	"github.com/usavibesmap/geoapi/internal/upstream"
)

const userAgent = "USAVibesMap/1.0 (self-hosted)"

// DefaultEndpoint is the public USGS FDSN event query URL.
const DefaultEndpoint = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// DefaultTimeout bounds a single USGS round trip.
const DefaultTimeout = 30 * time.Second

// Defaults for the quake query parameters.
const (
	DefaultHours  = 24
	DefaultMinMag = 2.5
	resultLimit   = 2000
)

// QuakeQuery describes an earthquake lookup. BBox is passed to the
// upstream at the caller's exact precision; only cache keys use the
// rounded form.
type QuakeQuery struct {
	Hours  int
	MinMag float64
	BBox   geo.BBox
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client issues event queries against a USGS FDSN endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a USGS client for the given endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quakes fetches earthquakes in the lookback window as raw GeoJSON.
func (c *Client) Quakes(ctx context.Context, q QuakeQuery) (json.RawMessage, error) {
	start := c.now().UTC().Add(-time.Duration(q.Hours) * time.Hour)

	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {start.Format(time.RFC3339)},
		"minmagnitude": {strconv.FormatFloat(q.MinMag, 'f', -1, 64)},
		"minlatitude":  {strconv.FormatFloat(q.BBox.South, 'f', -1, 64)},
		"minlongitude": {strconv.FormatFloat(q.BBox.West, 'f', -1, 64)},
		"maxlatitude":  {strconv.FormatFloat(q.BBox.North, 'f', -1, 64)},
		"maxlongitude": {strconv.FormatFloat(q.BBox.East, 'f', -1, 64)},
		"orderby":      {"time"},
		"limit":        {strconv.Itoa(resultLimit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "usgs: build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.Wrap("usgs", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstream.StatusError("usgs", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstream.Wrap("usgs", err)
	}

	zap.L().Debug("usgs: quake query complete",
		zap.Int("hours", q.Hours),
		zap.Float64("minmag", q.MinMag),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}
