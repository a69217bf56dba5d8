package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"realty-backend/internal/domains/taxonomy/model"
)

func testLocations() []*model.Location {
	return []*model.Location{
		{NameEn: "Amman", NameAr: "عمّان", Slug: "amman"},
		{NameEn: "Abdoun", NameAr: "عبدون", Slug: "abdoun"},
		{NameEn: "Aqaba", NameAr: "العقبة", Slug: "aqaba"},
		{NameEn: "Irbid", NameAr: "إربد", Slug: "irbid"},
		{NameEn: "Madaba", NameAr: "مادبا", Slug: "madaba"},
	}
}

func TestMatchExactEnglish(t *testing.T) {
	matches := matchLocations(testLocations(), "Amman", 10)

	require.NotEmpty(t, matches)
	require.Equal(t, "Amman", matches[0].Location.NameEn)
	require.Equal(t, 1.0, matches[0].Score)
}

func TestMatchCaseInsensitive(t *testing.T) {
	matches := matchLocations(testLocations(), "aqaba", 10)

	require.NotEmpty(t, matches)
	require.Equal(t, "Aqaba", matches[0].Location.NameEn)
	require.Equal(t, 1.0, matches[0].Score)
}

func TestMatchArabicWithDiacritics(t *testing.T) {
	// Stored name carries shadda; query comes bare.
	matches := matchLocations(testLocations(), "عمان", 10)

	require.NotEmpty(t, matches)
	require.Equal(t, "Amman", matches[0].Location.NameEn)
	require.Equal(t, 1.0, matches[0].Score)
}

func TestMatchArabicHamzaVariants(t *testing.T) {
	// Stored "إربد" with hamza below; query with bare alef.
	matches := matchLocations(testLocations(), "اربد", 10)

	require.NotEmpty(t, matches)
	require.Equal(t, "Irbid", matches[0].Location.NameEn)
	require.Equal(t, 1.0, matches[0].Score)
}

func TestMatchPrefixBeatsSubstring(t *testing.T) {
	locations := []*model.Location{
		{NameEn: "Dabouq", Slug: "dabouq"},
		{NameEn: "Madaba", Slug: "madaba"},
	}

	matches := matchLocations(locations, "dab", 10)
	require.Len(t, matches, 2)
	require.Equal(t, "Dabouq", matches[0].Location.NameEn, "prefix hit ranks first")
	require.Equal(t, 0.8, matches[0].Score)
	require.Equal(t, 0.6, matches[1].Score)
}

func TestMatchRespectsLimit(t *testing.T) {
	matches := matchLocations(testLocations(), "a", 2)
	require.Len(t, matches, 2)
}

func TestMatchEmptyQuery(t *testing.T) {
	require.Empty(t, matchLocations(testLocations(), "   ", 10))
}

func TestMatchNoHit(t *testing.T) {
	require.Empty(t, matchLocations(testLocations(), "zarqa", 10))
}

func TestNormalizeArabic(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"عَمَّان", "عمان"},
		{"أحمد", "احمد"},
		{"إربد", "اربد"},
		{"آمنة", "امنه"},
		{"مكتبــــة", "مكتبه"},
		{"مصطفى", "مصطفي"},
		{"hello", "hello"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, normalizeArabic(tc.in), "input %q", tc.in)
	}
}
