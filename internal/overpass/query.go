package overpass

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/usavibesmap/geoapi/internal/geo"
)

// brandPatterns maps the public brand slugs to the case-insensitive regex
// matched against OSM brand/name/operator tags.
var brandPatterns = map[string]string{
	"mcdonalds":     "McDonald",
	"starbucks":     "Starbucks",
	"dollargeneral": "Dollar General",
}

// DefaultBrand is used when the request omits the brand parameter.
const DefaultBrand = "mcdonalds"

// BrandPattern resolves a brand slug to its tag-matching regex. Unknown
// slugs are a caller error, surfaced before any upstream call is made.
func BrandPattern(brand string) (string, error) {
	pat, ok := brandPatterns[brand]
	if !ok {
		return "", eris.Errorf("overpass: unknown brand %q (want one of %v)", brand, Brands())
	}
	return pat, nil
}

// Brands lists the recognized brand slugs in stable order.
func Brands() []string {
	names := make([]string, 0, len(brandPatterns))
	for name := range brandPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BrandQuery builds the Overpass QL query for a brand within a bbox.
// It matches the pattern case-insensitively against the brand, name and
// operator tags across nodes, ways and relations, and requests center
// coordinates so ways/relations resolve to a point.
func BrandQuery(bbox geo.BBox, pattern string) string {
	coords := fmt.Sprintf("%g,%g,%g,%g", bbox.South, bbox.West, bbox.North, bbox.East)
	body := fmt.Sprintf(
		"nwr(%[1]s)[\"brand\"~\"%[2]s\",i];\n"+
			"nwr(%[1]s)[\"name\"~\"%[2]s\",i];\n"+
			"nwr(%[1]s)[\"operator\"~\"%[2]s\",i];",
		coords, pattern)

	return fmt.Sprintf("[out:json][timeout:45];\n(\n%s\n);\nout center;", body)
}
