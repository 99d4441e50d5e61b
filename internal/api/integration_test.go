// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/index"
)

func fixtureServer(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.LoadFile("../catalog/testdata/movies.csv")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	ix, _, err := index.Open(context.Background(), cat.Corpus(), index.OpenOptions{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("index.Open() error = %v", err)
	}
	cfg := recommend.DefaultConfig()
	cfg.IncludeUnenriched = true // no enrichment services in tests
	rec, err := recommend.New(cat, ix, nil, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("recommend.New() error = %v", err)
	}
	srv, h := newTestServer(t, rec, HandlerOptions{CatalogSize: cat.Len()}, nil)
	h.SetReady(true)
	return srv
}

func TestFixture_Endpoints(t *testing.T) {
	srv := fixtureServer(t)

	tests := []struct {
		name       string
		target     string
		wantCode   int
		wantTitles []string
	}{
		{"similar titles", "/api/v1/recommendations?title=The+Matrix&k=3", http.StatusOK,
			[]string{"The Matrix", "Avatar", "The Matrix Reloaded"}},
		{"year", "/api/v1/recommendations/year?year=2010", http.StatusOK,
			[]string{"Inception", "Kick-Ass", "Winter's Bone"}},
		{"year not an integer", "/api/v1/recommendations/year?year=20x0", http.StatusBadRequest, nil},
		{"country filter", "/api/v1/recommendations/filtered?filterType=country&filterValue=uk", http.StatusOK,
			[]string{"Kick-Ass", "Spectre"}},
		{"unknown filter type", "/api/v1/recommendations/filtered?filterType=mood&filterValue=happy", http.StatusOK,
			[]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := get(t, srv, tt.target)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantTitles == nil {
				return
			}
			var recs []recommend.EnrichedRecommendation
			if err := json.Unmarshal(env.Data, &recs); err != nil {
				t.Fatal(err)
			}
			got := make([]string, len(recs))
			for i, r := range recs {
				got[i] = r.Title
			}
			if len(got) != len(tt.wantTitles) {
				t.Fatalf("titles = %q, want %q", got, tt.wantTitles)
			}
			for i := range got {
				if got[i] != tt.wantTitles[i] {
					t.Fatalf("titles = %q, want %q", got, tt.wantTitles)
				}
			}
		})
	}
}

func TestFixture_Details(t *testing.T) {
	srv := fixtureServer(t)

	rec, env := get(t, srv, "/api/v1/movies/details?title=Avatar")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var d recommend.DetailRecord
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatal(err)
	}
	if d.Director != "Director: James Cameron" || d.Runtime != "Runtime: 2 hr 58 min" {
		t.Errorf("details = %+v", d)
	}

	for _, title := range []string{"Nonexistent", "Winter%27s+Bone"} {
		rec, env := get(t, srv, "/api/v1/movies/details?title="+title)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", title, rec.Code)
			continue
		}
		if env.Error.Message != "Movie details not found." {
			t.Errorf("%s: message = %q", title, env.Error.Message)
		}
	}
}
