package catalog

import "strings"

var seriesTags = map[string]struct{}{
	"series":    {},
	"tv":        {},
	"tv-series": {},
}

var seriesTitleHints = []string{"season", "episode", "series"}

// Matches reports whether the product belongs to the given section.
//
// Series membership: tagged series/tv/tv-series, or a title containing a
// series hint. Movie membership is the permissive default: excluded when
// tagged series/tv, included when tagged movie, excluded when the title
// mentions a season and no movie tag overrides it. The two sets may overlap
// (a product tagged both "movie" and "tv-series" lands in both).
func Matches(p Product, kind Kind) bool {
	tags := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		tags[strings.ToLower(t)] = struct{}{}
	}
	title := strings.ToLower(p.Title)

	switch kind {
	case KindMovie:
		if _, ok := tags["series"]; ok {
			return false
		}
		if _, ok := tags["tv"]; ok {
			return false
		}
		if _, ok := tags["movie"]; ok {
			return true
		}
		if strings.Contains(title, "season") {
			return false
		}
		return true

	case KindSeries:
		for t := range seriesTags {
			if _, ok := tags[t]; ok {
				return true
			}
		}
		for _, hint := range seriesTitleHints {
			if strings.Contains(title, hint) {
				return true
			}
		}
		return false
	}
	return true
}

func filterByKind(products []Product, kind Kind) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, kind) {
			out = append(out, p)
		}
	}
	return out
}
