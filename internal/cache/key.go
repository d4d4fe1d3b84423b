package cache

import (
	"sort"
	"strings"
)

// Key builds a deterministic cache key from an endpoint prefix and request
// parameters. Parameters are serialized sorted by name, so two
// logically-equivalent requests always map to the same key regardless of
// query-string ordering.
func Key(prefix string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}
