package service

import (
	"sort"
	"strings"

	"realty-backend/internal/domains/taxonomy/model"
)

// matchLocations scores every location against the query in both
// languages and returns hits ordered best-first. Exact beats prefix
// beats substring.
func matchLocations(locations []*model.Location, query string, limit int) []*model.Match {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}

	var matches []*model.Match
	for _, loc := range locations {
		score := bestScore(q,
			normalizeQuery(loc.NameEn),
			normalizeQuery(loc.NameAr),
			normalizeQuery(loc.Slug),
		)
		if score > 0 {
			matches = append(matches, &model.Match{Location: loc, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Location.NameEn < matches[j].Location.NameEn
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func bestScore(q string, candidates ...string) float64 {
	best := 0.0
	for _, c := range candidates {
		if c == "" {
			continue
		}
		var score float64
		switch {
		case c == q:
			score = 1.0
		case strings.HasPrefix(c, q):
			score = 0.8
		case strings.Contains(c, q):
			score = 0.6
		}
		if score > best {
			best = score
		}
	}
	return best
}

// normalizeQuery lowercases Latin text and folds Arabic variants so
// that spelling differences in hamza seats and diacritics do not break
// lookups.
func normalizeQuery(s string) string {
	return normalizeArabic(strings.ToLower(strings.TrimSpace(s)))
}

// normalizeArabic strips tashkeel and tatweel and unifies the letters
// that are written interchangeably: hamza-seated alefs to bare alef,
// teh marbuta to heh, alef maqsura to yeh.
func normalizeArabic(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r >= 0x064B && r <= 0x0652: // tashkeel
			continue
		case r == 0x0670: // superscript alef
			continue
		case r == 0x0640: // tatweel
			continue
		case r == 'أ' || r == 'إ' || r == 'آ':
			b.WriteRune('ا')
		case r == 'ؤ':
			b.WriteRune('و')
		case r == 'ئ':
			b.WriteRune('ي')
		case r == 'ة':
			b.WriteRune('ه')
		case r == 'ى':
			b.WriteRune('ي')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
