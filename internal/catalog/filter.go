package catalog

import (
	"sort"
	"strings"
)

// Genres returns the sorted unique genre names of a product list, used to
// populate the category dropdowns.
func Genres(products []Product) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(products))
	for _, p := range products {
		genre := strings.TrimSpace(p.Genre)
		if genre == "" {
			continue
		}
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		out = append(out, genre)
	}
	sort.Strings(out)
	return out
}

// Filter narrows a product list by genre (exact, case-insensitive) and a
// free-text query matched against title, genre and year.
func Filter(products []Product, genre, query string) []Product {
	genre = strings.ToLower(strings.TrimSpace(genre))
	query = strings.ToLower(strings.TrimSpace(query))
	if genre == "" && query == "" {
		return products
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if genre != "" && strings.ToLower(p.Genre) != genre {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(p.Title + " " + p.Genre + " " + p.Year)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
