package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/usavibesmap/geoapi/internal/cache"
	"github.com/usavibesmap/geoapi/internal/geo"
	"github.com/usavibesmap/geoapi/internal/overpass"
	"github.com/usavibesmap/geoapi/internal/upstream"
	"github.com/usavibesmap/geoapi/internal/usgs"
)

// handleHealth reports liveness plus the effective upstream/cache settings.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"overpass":  s.overpassEndpoint,
		"cache_ttl": int(s.store.TTL().Seconds()),
	})
}

// handleBrand serves GET /api/osm/brand?brand=...&bbox=south,west,north,east.
func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		brand = overpass.DefaultBrand
	}

	pattern, err := overpass.BrandPattern(brand)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown brand")
		return
	}

	bbox, ok := requireBBox(w, r)
	if !ok {
		return
	}

	// Round for cache stability; the Overpass query itself also uses the
	// rounded box so equivalent viewports hit the same upstream result.
	rounded := bbox.Round(geo.DefaultPrecision)
	key := cache.Key("brand", map[string]string{
		"brand": brand,
		"bbox":  rounded.Format(geo.DefaultPrecision),
	})

	if cached := s.store.Get(key); cached != nil {
		writeCached(w, cached, true)
		return
	}

	resp, err := s.overpass.Query(r.Context(), overpass.BrandQuery(rounded, pattern))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	body, err := json.Marshal(overpass.ToFeatureCollection(resp))
	if err != nil {
		zap.L().Error("brand: encode feature collection", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "encoding failed")
		return
	}

	s.store.Put(key, body)
	writeCached(w, body, false)
}

// handleQuakes serves GET /api/usgs/quakes?hours=...&minmag=...&bbox=...
func (s *Server) handleQuakes(w http.ResponseWriter, r *http.Request) {
	q := usgs.QuakeQuery{Hours: usgs.DefaultHours, MinMag: usgs.DefaultMinMag}

	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid hours")
			return
		}
		q.Hours = hours
	}
	if raw := r.URL.Query().Get("minmag"); raw != "" {
		minmag, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minmag")
			return
		}
		q.MinMag = minmag
	}

	bbox, ok := requireBBox(w, r)
	if !ok {
		return
	}
	// The upstream query keeps the caller's exact precision; only the
	// cache key is rounded.
	q.BBox = bbox

	key := cache.Key("quakes", map[string]string{
		"hours":  strconv.Itoa(q.Hours),
		"minmag": strconv.FormatFloat(q.MinMag, 'f', -1, 64),
		"bbox":   bbox.Round(geo.DefaultPrecision).Format(geo.DefaultPrecision),
	})

	if cached := s.store.Get(key); cached != nil {
		writeCached(w, cached, true)
		return
	}

	body, err := s.quakes.Quakes(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	s.store.Put(key, body)
	writeCached(w, body, false)
}

// handleCacheStats exposes cache performance counters.
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// requireBBox parses the mandatory bbox parameter, writing a 400 response
// and returning ok=false when it is absent or malformed.
func requireBBox(w http.ResponseWriter, r *http.Request) (geo.BBox, bool) {
	raw := r.URL.Query().Get("bbox")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bbox is required")
		return geo.BBox{}, false
	}
	bbox, err := geo.ParseBBox(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bbox")
		return geo.BBox{}, false
	}
	return bbox, true
}

// writeUpstreamError maps upstream failures to 502, timeouts to 504.
func writeUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	msg := "upstream fetch failed"
	if ue, ok := upstream.As(err); ok && ue.Timeout {
		status = http.StatusGatewayTimeout
		msg = "upstream timeout"
	}
	zap.L().Error("upstream call failed", zap.Error(err))
	writeError(w, status, msg)
}

func writeCached(w http.ResponseWriter, body []byte, hit bool) {
	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
