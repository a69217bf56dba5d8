package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalFilters(t *testing.T) {
	a := map[string]string{"status": "active", "location": "riyadh", "min_price": "1000"}
	b := map[string]string{"min_price": "1000", "location": "riyadh", "status": "active"}

	require.Equal(t, CanonicalFilters(a), CanonicalFilters(b), "canonical form must be order-insensitive")
	require.Equal(t, "location=riyadh&min_price=1000&status=active", CanonicalFilters(a))
}

func TestCanonicalFiltersDropsEmpty(t *testing.T) {
	withEmpty := map[string]string{"status": "active", "location": ""}
	without := map[string]string{"status": "active"}

	require.Equal(t, CanonicalFilters(without), CanonicalFilters(withEmpty))
}

func TestCacheKeyStable(t *testing.T) {
	filters := map[string]string{"status": "active"}

	k1 := CacheKey("listings:list:", filters)
	k2 := CacheKey("listings:list:", filters)

	require.Equal(t, k1, k2)
	require.Contains(t, k1, "listings:list:")

	other := CacheKey("listings:list:", map[string]string{"status": "sold"})
	require.NotEqual(t, k1, other)
}
