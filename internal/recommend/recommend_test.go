// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend/index"
)

const fixture = "../catalog/testdata/movies.csv"

// mockEnricher answers from maps keyed by title and records the modes used.
type mockEnricher struct {
	posters  map[string]string
	trailers map[string]string
	// allPosters gives every title a poster when posters is nil.
	allPosters bool

	mu    sync.Mutex
	modes []enrich.Mode
}

func (m *mockEnricher) Enrich(_ context.Context, rec *catalog.MovieRecord, mode enrich.Mode) enrich.Result {
	m.mu.Lock()
	m.modes = append(m.modes, mode)
	m.mu.Unlock()

	var res enrich.Result
	if m.posters != nil {
		res.Poster = m.posters[rec.Title]
	} else if m.allPosters {
		res.Poster = "poster:" + rec.Title
	}
	if mode == enrich.ModePosterAndTrailer || res.Poster == "" {
		res.TrailerID = m.trailers[rec.Title]
	}
	return res
}

func (m *mockEnricher) EnrichAll(ctx context.Context, recs []*catalog.MovieRecord, mode enrich.Mode) []enrich.Result {
	out := make([]enrich.Result, len(recs))
	for i, rec := range recs {
		out[i] = m.Enrich(ctx, rec, mode)
	}
	return out
}

func newRecommender(t *testing.T, cat *catalog.Catalog, e Enricher, cfg Config) *Recommender {
	t.Helper()
	ix, _, err := index.Open(context.Background(), cat.Corpus(), index.OpenOptions{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("index.Open() error = %v", err)
	}
	r, err := New(cat, ix, e, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func fixtureRecommender(t *testing.T, e Enricher, cfg Config) *Recommender {
	t.Helper()
	cat, err := catalog.LoadFile(fixture)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return newRecommender(t, cat, e, cfg)
}

func titles(recs []EnrichedRecommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func rowTitles(r *Recommender, rows []int) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = r.catalog.At(row).Title
	}
	return out
}

func movie(title, country string, score float64) catalog.MovieRecord {
	return catalog.MovieRecord{
		Title:        title,
		Country:      country,
		PlotKeywords: "keyword " + strings.ToLower(title) + "plot",
		Score:        score,
		HasScore:     true,
	}
}

func TestAutoRecommendations_SortsByScore(t *testing.T) {
	cat := catalog.New([]catalog.MovieRecord{
		movie("A", "US", 8.0),
		movie("B", "US", 9.0),
		movie("C", "UK", 7.0),
	})
	r := newRecommender(t, cat, &mockEnricher{allPosters: true}, DefaultConfig())

	got, err := r.AutoRecommendations(context.Background(), "US", 2)
	if err != nil {
		t.Fatalf("AutoRecommendations() error = %v", err)
	}
	if want := []string{"B", "A"}; !slices.Equal(titles(got), want) {
		t.Errorf("AutoRecommendations() = %v, want %v", titles(got), want)
	}
	if got[0].Poster != "poster:B" || got[0].Score != 9.0 {
		t.Errorf("first entry = %+v", got[0])
	}
}

func TestAutoRecommendations_UnenrichedPolicy(t *testing.T) {
	cat := catalog.New([]catalog.MovieRecord{
		movie("A", "US", 8.0),
		movie("B", "US", 9.0),
		movie("C", "US", 7.0),
	})
	e := &mockEnricher{
		posters:  map[string]string{"A": "pa", "C": "pc"},
		trailers: map[string]string{"A": "ta", "B": "tb"},
	}

	t.Run("dropped by default", func(t *testing.T) {
		r := newRecommender(t, cat, e, DefaultConfig())
		got, _ := r.AutoRecommendations(context.Background(), "", 0)
		if want := []string{"A", "C"}; !slices.Equal(titles(got), want) {
			t.Fatalf("titles = %v, want %v", titles(got), want)
		}
		if got[0].TrailerID != "ta" {
			t.Errorf("trailer should be attached alongside poster, got %+v", got[0])
		}
	})

	t.Run("kept when configured", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IncludeUnenriched = true
		r := newRecommender(t, cat, e, cfg)
		got, _ := r.AutoRecommendations(context.Background(), "", 0)
		if want := []string{"B", "A", "C"}; !slices.Equal(titles(got), want) {
			t.Fatalf("titles = %v, want %v", titles(got), want)
		}
		if got[0].Poster != "" || got[0].TrailerID != "tb" {
			t.Errorf("unenriched entry = %+v", got[0])
		}
	})
}

func TestListFlows_StableTies(t *testing.T) {
	cat := catalog.New([]catalog.MovieRecord{
		movie("First", "US", 7.0),
		movie("Second", "US", 7.0),
		movie("Top", "US", 9.0),
		movie("Third", "US", 7.0),
		{Title: "Unscored", Country: "US", PlotKeywords: "unscored"},
	})
	r := newRecommender(t, cat, &mockEnricher{allPosters: true}, DefaultConfig())

	got, _ := r.FilteredRecommendations(context.Background(), FilterCountry, "us", 0)
	want := []string{"Top", "First", "Second", "Third", "Unscored"}
	if !slices.Equal(titles(got), want) {
		t.Errorf("titles = %v, want %v", titles(got), want)
	}
	if got[4].HasScore() {
		t.Error("Unscored entry reports a score")
	}
}

func TestRankByTitle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		title    string
		location string
		k        int
		first    bool // location filter applied before the window
		want     []string
	}{
		{
			name:  "query title pinned first",
			title: "The Matrix",
			k:     3,
			want:  []string{"The Matrix", "Avatar", "The Matrix Reloaded"},
		},
		{
			name:     "location narrows the window",
			title:    "The Matrix",
			location: "usa",
			k:        3,
			want:     []string{"The Matrix", "Avatar", "The Matrix Reloaded"},
		},
		{
			name:     "window holds no rows from location",
			title:    "The Matrix",
			location: "UK",
			k:        3,
			want:     []string{},
		},
		{
			name:     "location filtered before window",
			title:    "The Matrix",
			location: "UK",
			k:        3,
			first:    true,
			want:     []string{"Kick-Ass", "Spectre"},
		},
		{
			name:  "unknown title returns k-1 rows",
			title: "zeppelin",
			k:     3,
			want:  []string{"Avatar", "Pirates of the Caribbean: At World's End"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LocationFilterFirst = tt.first
			r := fixtureRecommender(t, nil, cfg)

			rows, err := r.RankByTitle(ctx, tt.title, tt.location, tt.k)
			if err != nil {
				t.Fatalf("RankByTitle() error = %v", err)
			}
			if got := rowTitles(r, rows); !slices.Equal(got, tt.want) {
				t.Errorf("RankByTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRankByTitle_AtMostK(t *testing.T) {
	r := fixtureRecommender(t, nil, DefaultConfig())
	for _, k := range []int{1, 2, 5, 11, 50} {
		rows, err := r.RankByTitle(context.Background(), "Inception", "", k)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) > k {
			t.Errorf("k=%d: got %d rows", k, len(rows))
		}
		if r.catalog.At(rows[0]).Title != "Inception" {
			t.Errorf("k=%d: first = %q, want Inception", k, r.catalog.At(rows[0]).Title)
		}
	}
}

func TestRecommendationsWithTrailer(t *testing.T) {
	e := &mockEnricher{
		posters:  map[string]string{"The Matrix": "pm"},
		trailers: map[string]string{"The Matrix": "tm", "Avatar": "tav"},
	}
	r := fixtureRecommender(t, e, DefaultConfig())

	got, err := r.RecommendationsWithTrailer(context.Background(), "The Matrix", "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"The Matrix", "Avatar", "The Matrix Reloaded"}; !slices.Equal(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}
	if got[0].Poster != "pm" || got[0].TrailerID != "" {
		t.Errorf("poster found, trailer should be skipped: %+v", got[0])
	}
	if got[1].Poster != "" || got[1].TrailerID != "tav" {
		t.Errorf("no poster, trailer expected: %+v", got[1])
	}
	if got[2].Poster != "" || got[2].TrailerID != "" {
		t.Errorf("unenriched entries are kept: %+v", got[2])
	}
	for _, m := range e.modes {
		if m != enrich.ModePosterElseTrailer {
			t.Errorf("mode = %v, want %v", m, enrich.ModePosterElseTrailer)
		}
	}
}

func TestFilteredRecommendations(t *testing.T) {
	r := fixtureRecommender(t, &mockEnricher{allPosters: true}, DefaultConfig())
	ctx := context.Background()

	tests := []struct {
		name       string
		filterType string
		value      string
		want       []string
	}{
		{"genre substring", FilterGenre, "sci-fi", []string{"Inception", "The Matrix", "Avatar", "The Matrix Reloaded", "John Carter"}},
		{"genre ignores case", FilterGenre, "ROMANCE", []string{"Amélie"}},
		{"country exact", FilterCountry, "uk", []string{"Kick-Ass", "Spectre"}},
		{"country is not a substring match", FilterCountry, "US", []string{}},
		{"unknown filter", "director", "Sam Mendes", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FilteredRecommendations(ctx, tt.filterType, tt.value, 0)
			if err != nil {
				t.Fatalf("FilteredRecommendations() error = %v", err)
			}
			if !slices.Equal(titles(got), tt.want) {
				t.Errorf("FilteredRecommendations() = %q, want %q", titles(got), tt.want)
			}
		})
	}

	got, _ := r.FilteredRecommendations(ctx, FilterGenre, "Action", 0)
	for _, e := range got {
		_, rec, _ := r.catalog.Lookup(e.Title)
		if !strings.Contains(strings.ToLower(rec.Genres), "action") {
			t.Errorf("%q has genres %q", e.Title, rec.Genres)
		}
	}
	if limited, _ := r.FilteredRecommendations(ctx, FilterGenre, "Action", 2); len(limited) != 2 {
		t.Errorf("k=2 returned %d entries", len(limited))
	}
}

func TestFilteredRecommendationsByYear(t *testing.T) {
	r := fixtureRecommender(t, &mockEnricher{allPosters: true}, DefaultConfig())
	ctx := context.Background()

	got, err := r.FilteredRecommendationsByYear(ctx, "2010", 0)
	if err != nil {
		t.Fatalf("FilteredRecommendationsByYear() error = %v", err)
	}
	if want := []string{"Inception", "Kick-Ass", "Winter's Bone"}; !slices.Equal(titles(got), want) {
		t.Errorf("titles = %q, want %q", titles(got), want)
	}

	before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(OpYear, "invalid"))
	for _, year := range []string{"abc", "2010.5", ""} {
		_, err := r.FilteredRecommendationsByYear(ctx, year, 0)
		var invalid *InvalidArgumentError
		if !errors.As(err, &invalid) {
			t.Errorf("year %q: error = %v, want *InvalidArgumentError", year, err)
		}
	}
	after := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(OpYear, "invalid"))
	if after-before != 3 {
		t.Errorf("invalid counter moved by %v, want 3", after-before)
	}
}

func TestFullDetails(t *testing.T) {
	e := &mockEnricher{
		posters:  map[string]string{"Avatar": "pa"},
		trailers: map[string]string{"Avatar": "ta"},
	}
	r := fixtureRecommender(t, e, DefaultConfig())
	ctx := context.Background()

	d, err := r.FullDetails(ctx, "Avatar")
	if err != nil {
		t.Fatalf("FullDetails() error = %v", err)
	}
	want := DetailRecord{
		Title:     "Avatar",
		TopCast:   "Top Cast: CCH Pounder, Joel David Moore, Wes Studi",
		Director:  "Director: James Cameron",
		Country:   "Country: USA",
		Genre:     "Genre: Action|Adventure|Fantasy|Sci-Fi",
		Runtime:   "Runtime: 2 hr 58 min",
		Score:     "IMDB Score: 7.9",
		Poster:    "pa",
		TrailerID: "ta",
	}
	if *d != want {
		t.Errorf("FullDetails() =\n%+v\nwant\n%+v", *d, want)
	}

	tests := []struct {
		title string
		field string
	}{
		{"Winter's Bone", "actor_3_name"},
		{"Nonexistent", ""},
		{"avatar", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			_, err := r.FullDetails(ctx, tt.title)
			var de *DetailAssemblyError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DetailAssemblyError", err)
			}
			if de.Field != tt.field {
				t.Errorf("Field = %q, want %q", de.Field, tt.field)
			}
			if !IsNotFound(err) {
				t.Error("IsNotFound() = false")
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatRuntime(178), "Runtime: 2 hr 58 min"},
		{FormatRuntime(60), "Runtime: 1 hr 0 min"},
		{FormatRuntime(45), "Runtime: 0 hr 45 min"},
		{FormatScore(7.9), "7.9"},
		{FormatScore(8), "8.0"},
		{FormatScore(10), "10.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestAutocomplete(t *testing.T) {
	r := fixtureRecommender(t, nil, DefaultConfig())
	if got, want := r.Autocomplete("matrix"), []string{"The Matrix", "The Matrix Reloaded"}; !slices.Equal(got, want) {
		t.Errorf("Autocomplete(matrix) = %q, want %q", got, want)
	}
	if got := r.Autocomplete("  "); len(got) != 0 {
		t.Errorf("blank term matched %q", got)
	}
}

func TestNew_Errors(t *testing.T) {
	cat, err := catalog.LoadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(cat, nil, nil, DefaultConfig(), zerolog.Nop()); !errors.Is(err, ErrIndexNotReady) {
		t.Errorf("nil index error = %v, want ErrIndexNotReady", err)
	}

	small, _, err := index.Open(context.Background(), []string{"alien planet"}, index.OpenOptions{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(cat, small, nil, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("misaligned index accepted")
	}

	bad := DefaultConfig()
	bad.MaxK = 1
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted max_k below default_k")
	}
}

func TestConfig_ResolveK(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		k, def, want int
	}{
		{0, 12, 12},
		{-3, 24, 24},
		{5, 12, 5},
		{500, 12, DefaultMaxK},
	}
	for _, tt := range tests {
		if got := cfg.resolveK(tt.k, tt.def); got != tt.want {
			t.Errorf("resolveK(%d, %d) = %d, want %d", tt.k, tt.def, got, tt.want)
		}
	}
}
