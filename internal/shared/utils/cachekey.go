package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// CanonicalFilters serializes query filters into a stable string:
// keys sorted, empty values dropped. Two filter maps describing the
// same query always canonicalize identically, so cache keys and saved
// searches can be compared byte-for-byte.
func CanonicalFilters(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, filters[k]))
	}
	return strings.Join(parts, "&")
}

// CacheKey hashes canonicalized filters under a prefix.
func CacheKey(prefix string, filters map[string]string) string {
	sum := sha1.Sum([]byte(CanonicalFilters(filters)))
	return prefix + hex.EncodeToString(sum[:])
}
