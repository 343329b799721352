package catalog

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		name       string
		product    Product
		wantMovie  bool
		wantSeries bool
	}{
		{
			name:       "series tag excludes from movies regardless of title",
			product:    Product{Title: "Heat", Tags: []string{"series", "drama"}},
			wantMovie:  false,
			wantSeries: true,
		},
		{
			name:       "tv tag excludes from movies",
			product:    Product{Title: "Heat", Tags: []string{"tv"}},
			wantMovie:  false,
			wantSeries: true,
		},
		{
			name:       "movie tag overrides season title",
			product:    Product{Title: "Four Seasons", Tags: []string{"movie"}},
			wantMovie:  true,
			wantSeries: true,
		},
		{
			name:       "season title without movie tag excluded from movies",
			product:    Product{Title: "Dark Season 1", Tags: []string{"drama"}},
			wantMovie:  false,
			wantSeries: true,
		},
		{
			name:       "episode title counts as series",
			product:    Product{Title: "The Lost Episode", Tags: nil},
			wantMovie:  true,
			wantSeries: true,
		},
		{
			name:       "untagged plain title defaults to movie only",
			product:    Product{Title: "Heat", Tags: []string{"action"}},
			wantMovie:  true,
			wantSeries: false,
		},
		{
			name:       "tv-series tag includes in series",
			product:    Product{Title: "Heat", Tags: []string{"tv-series"}},
			wantMovie:  true,
			wantSeries: true,
		},
		{
			name:       "case insensitive tags",
			product:    Product{Title: "Heat", Tags: []string{"Series"}},
			wantMovie:  false,
			wantSeries: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.product, KindMovie); got != tc.wantMovie {
				t.Errorf("movie membership = %v, want %v", got, tc.wantMovie)
			}
			if got := Matches(tc.product, KindSeries); got != tc.wantSeries {
				t.Errorf("series membership = %v, want %v", got, tc.wantSeries)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Movie "); err != nil || k != KindMovie {
		t.Fatalf("expected movie, got %v %v", k, err)
	}
	if k, err := ParseKind("series"); err != nil || k != KindSeries {
		t.Fatalf("expected series, got %v %v", k, err)
	}
	if _, err := ParseKind("documentary"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
