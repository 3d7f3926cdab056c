package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
)

// segmentFingerprint derives the cache key for a (segment, filter-set) pair:
// a SHA-256 over the chunk's exact coordinates concatenated with a canonical
// serialization of the filters. Filters with reordered-but-identical contents
// canonicalize to the same key, so equivalent requests hit the same entry.
func segmentFingerprint(chunk []geo.Point, filters coverage.FilterState) string {
	var b strings.Builder

	for _, p := range chunk {
		b.WriteString(strconv.FormatFloat(p.Latitude, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Longitude, 'f', -1, 64))
		b.WriteByte(';')
	}

	b.WriteByte('|')
	b.WriteString(canonicalList(filters.Countries))
	b.WriteByte('|')
	b.WriteString(canonicalList(filters.DeviceTypes))
	b.WriteByte('|')
	b.WriteString(canonicalList(filters.Operators))
	b.WriteByte('|')
	b.WriteString(canonicalList(filters.Statuses))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// canonicalList sorts a copy of the values so list order never changes the
// fingerprint.
func canonicalList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
