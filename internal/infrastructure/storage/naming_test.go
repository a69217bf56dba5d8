package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueNameFormat(t *testing.T) {
	name := UniqueName("My Vacation Photo.JPG")

	re := regexp.MustCompile(`^my-vacation-photo_\d{14}_\d{6}_[0-9a-f]{8}\.jpg$`)
	require.Regexp(t, re, name)
}

func TestUniqueNameFallbackSlug(t *testing.T) {
	name := UniqueName("صورة.png")

	re := regexp.MustCompile(`^file_\d{14}_\d{6}_[0-9a-f]{8}\.png$`)
	require.Regexp(t, re, name)
}

func TestUniqueNameCollisionResistance(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := UniqueName("photo.jpg")
		require.False(t, seen[name], "duplicate name generated: %s", name)
		seen[name] = true
	}
}

func TestVariantPath(t *testing.T) {
	p := VariantPath("properties/42/images", "sea-view", "thumbnail", "jpeg")
	require.Regexp(t, regexp.MustCompile(`^properties/42/images/sea-view_thumbnail_\d{14}\.jpeg$`), p)

	p = VariantPath("properties/42/images", "", "full", "jpeg")
	require.Regexp(t, regexp.MustCompile(`^properties/42/images/image_full_\d{14}\.jpeg$`), p)
}
