// Package geo holds the bounding-box type shared by the upstream clients
// and the cache-key layer.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultPrecision is the decimal precision used to canonicalize a bbox
// for cache-key purposes. Two decimal places (~1.1 km at the equator) is
// coarse enough that panned map views share cache entries.
const DefaultPrecision = 2

// BBox represents a geographic bounding box in degrees.
// Field order follows the Overpass convention: south,west,north,east.
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// ParseBBox parses a "south,west,north,east" query parameter.
// Ordering invariants (south <= north, west <= east) are caller-provided
// and not enforced here.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, eris.Errorf("geo: bbox must have 4 comma-separated values, got %d", len(parts))
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, eris.Wrapf(err, "geo: parse bbox field %d", i)
		}
		vals[i] = v
	}

	return BBox{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}

// Round returns the bbox with each field rounded to the given number of
// decimal places. Rounding is consistent across calls and idempotent, so
// near-identical viewports canonicalize to the same value.
func (b BBox) Round(places int) BBox {
	return BBox{
		South: roundTo(b.South, places),
		West:  roundTo(b.West, places),
		North: roundTo(b.North, places),
		East:  roundTo(b.East, places),
	}
}

// Format renders the bbox as "south,west,north,east" with a fixed number
// of decimal places. Used for cache keys, where the textual form must be
// identical for logically-equivalent boxes.
func (b BBox) Format(places int) string {
	return fmt.Sprintf("%.*f,%.*f,%.*f,%.*f",
		places, b.South, places, b.West, places, b.North, places, b.East)
}

func (b BBox) String() string {
	return b.Format(DefaultPrecision)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
