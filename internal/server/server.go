// Package server wires the HTTP surface: routing, CORS, request logging
// and the per-endpoint cache-aside handlers.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/usavibesmap/geoapi/internal/cache"
	"github.com/usavibesmap/geoapi/internal/overpass"
	"github.com/usavibesmap/geoapi/internal/usgs"
)

// OverpassClient is the outbound dependency for the brand endpoint.
type OverpassClient interface {
	Query(ctx context.Context, query string) (*overpass.Response, error)
}

// QuakeClient is the outbound dependency for the earthquake endpoint.
type QuakeClient interface {
	Quakes(ctx context.Context, q usgs.QuakeQuery) (json.RawMessage, error)
}

// Server composes the upstream clients with the shared response cache.
type Server struct {
	overpass         OverpassClient
	quakes           QuakeClient
	store            *cache.Store
	overpassEndpoint string
}

// New creates a Server. The cache store is constructed once at process
// start and injected here; handlers share it across requests.
func New(ov OverpassClient, qc QuakeClient, store *cache.Store, overpassEndpoint string) *Server {
	return &Server{
		overpass:         ov,
		quakes:           qc,
		store:            store,
		overpassEndpoint: overpassEndpoint,
	}
}

// Router builds the chi router with CORS open to any origin, per the map
// front-end contract: all origins, methods and headers, no credentials.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/osm/brand", s.handleBrand)
	r.Get("/api/usgs/quakes", s.handleQuakes)
	r.Get("/api/cache/stats", s.handleCacheStats)

	return r
}
