package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"realty-backend/internal/shared/utils"
)

// UniqueName builds a collision-resistant object name from the original
// filename: <slug>_<YYYYMMDDHHMMSS>_<microseconds>_<8-char-random>.<ext>.
// Collision probability is treated as negligible, not guaranteed.
func UniqueName(originalName string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(originalName)), ".")
	base := strings.TrimSuffix(originalName, path.Ext(originalName))

	slug := utils.GenerateSlug(base)
	if slug == "" {
		slug = "file"
	}

	now := time.Now()
	return fmt.Sprintf("%s_%s_%06d_%s.%s",
		slug,
		now.Format("20060102150405"),
		now.Nanosecond()/1000,
		randomHex(4),
		ext,
	)
}

// VariantPath places a tier variant under its directory:
// <dir>/<slug>_<tier>_<timestamp>.<ext>. An empty slug falls back to
// "image" so the path never starts with an underscore.
func VariantPath(dir, slug, tier, ext string) string {
	if slug == "" {
		slug = "image"
	}
	return fmt.Sprintf("%s/%s_%s_%s.%s",
		dir, slug, tier, time.Now().Format("20060102150405"), ext)
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
