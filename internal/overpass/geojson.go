package overpass

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ToFeatureCollection converts an Overpass response into a GeoJSON
// FeatureCollection of point features, preserving element order.
//
// Nodes resolve to their own lat/lon; ways and relations resolve to their
// computed center. Elements with no resolvable coordinates are dropped —
// an expected data-quality filter, not an error. Display names follow the
// tag precedence name > brand > operator, falling back to "Unknown".
func ToFeatureCollection(resp *Response) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(resp.Elements))

	for _, el := range resp.Elements {
		lat, lon, ok := el.point()
		if !ok {
			continue
		}

		tags := el.Tags
		if tags == nil {
			tags = map[string]string{}
		}

		id := fmt.Sprintf("%s/%d", el.Type, el.ID)
		features = append(features, &geojson.Feature{
			ID:       id,
			Geometry: geom.NewPointFlat(geom.XY, []float64{lon, lat}),
			Properties: map[string]interface{}{
				"id":   id,
				"name": displayName(tags),
				"tags": tags,
			},
		})
	}

	return &geojson.FeatureCollection{Features: features}
}

// point resolves the element's coordinates, reporting false when neither
// a direct position nor a center is present.
func (el Element) point() (lat, lon float64, ok bool) {
	if el.Type == "node" {
		if el.Lat == nil || el.Lon == nil {
			return 0, 0, false
		}
		return *el.Lat, *el.Lon, true
	}
	if el.Center == nil {
		return 0, 0, false
	}
	return el.Center.Lat, el.Center.Lon, true
}

// displayName resolves the feature name by tag precedence.
func displayName(tags map[string]string) string {
	for _, key := range []string{"name", "brand", "operator"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return "Unknown"
}
