// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "testdata/movies.csv"

func loadFixture(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile(fixture)
	if err != nil {
		t.Fatalf("LoadFile(%s) error = %v", fixture, err)
	}
	return c
}

func TestLoadFile_Cleaning(t *testing.T) {
	c := loadFixture(t)

	stats := c.Stats()
	if stats.Rows != 13 {
		t.Errorf("Rows = %d, want 13", stats.Rows)
	}
	if stats.DroppedMissingKeywords != 1 {
		t.Errorf("DroppedMissingKeywords = %d, want 1", stats.DroppedMissingKeywords)
	}
	if stats.DroppedDuplicates != 1 {
		t.Errorf("DroppedDuplicates = %d, want 1", stats.DroppedDuplicates)
	}
	if c.Len() != 11 || stats.Retained != 11 {
		t.Fatalf("Len() = %d, Retained = %d, want 11", c.Len(), stats.Retained)
	}

	seen := make(map[string]bool)
	for i := 0; i < c.Len(); i++ {
		rec := c.At(i)
		if rec.PlotKeywords == "" {
			t.Errorf("record %q has no plot keywords", rec.Title)
		}
		key := strings.Join(rec.cells(), "|")
		if seen[key] {
			t.Errorf("record %q retained twice", rec.Title)
		}
		seen[key] = true
	}
}

func TestLoadFile_Projection(t *testing.T) {
	c := loadFixture(t)

	_, rec, ok := c.Lookup("Avatar")
	if !ok {
		t.Fatal("Lookup(Avatar) not found; trailing NBSP should be trimmed")
	}
	if rec.Director != "James Cameron" {
		t.Errorf("Director = %q", rec.Director)
	}
	if rec.Actors != [3]string{"CCH Pounder", "Joel David Moore", "Wes Studi"} {
		t.Errorf("Actors = %v", rec.Actors)
	}
	if !rec.HasYear || rec.Year != 2009 {
		t.Errorf("Year = %d (has=%v), want 2009", rec.Year, rec.HasYear)
	}
	if !rec.HasScore || rec.Score != 7.9 {
		t.Errorf("Score = %v, want 7.9", rec.Score)
	}
	if !rec.HasDuration || rec.Duration != 178 {
		t.Errorf("Duration = %d, want 178", rec.Duration)
	}
	if rec.IMDbLink != "http://www.imdb.com/title/tt0499549/?ref_=fn_tt_tt_1" {
		t.Errorf("IMDbLink = %q", rec.IMDbLink)
	}

	_, wb, ok := c.Lookup("Winter's Bone")
	if !ok {
		t.Fatal("Lookup(Winter's Bone) not found")
	}
	if wb.Year != 2010 {
		t.Errorf("Year parsed from 2010.0 = %d, want 2010", wb.Year)
	}
	if wb.Actors[2] != "" {
		t.Errorf("missing actor_3 should be empty, got %q", wb.Actors[2])
	}
}

func TestLoadFile_CombinedFeatures(t *testing.T) {
	c := loadFixture(t)

	_, rec, _ := c.Lookup("Amélie")
	want := "Color Jean-Pierre Jeunet 225 122 Mathieu Kassovitz Comedy|Romance Audrey Tautou Amélie Rufus " +
		"garden gnome|paris|photo booth|shy woman|waitress http://www.imdb.com/title/tt0211915/?ref_=fn_tt_tt_1 " +
		"French France 2001 8.4"
	if rec.CombinedFeatures != want {
		t.Errorf("CombinedFeatures =\n%q\nwant\n%q", rec.CombinedFeatures, want)
	}

	_, wb, _ := c.Lookup("Winter's Bone")
	if strings.Contains(wb.CombinedFeatures, "  ") {
		t.Errorf("missing cell left a gap: %q", wb.CombinedFeatures)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "empty source"},
		{"missing columns", "movie_title,genres\nAvatar,Action\n", "missing required columns"},
		{"header only", strings.Join(RequiredColumns, ",") + "\n", "no usable records"},
		{
			"all rows lack keywords",
			strings.Join(RequiredColumns, ",") + "\nAvatar,,,,,,,,,,,\n",
			"no usable records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			var dle *DataLoadError
			if !errors.As(err, &dle) {
				t.Fatalf("Load() error = %v, want *DataLoadError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want containing %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := LoadFile(path)
	var dle *DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("LoadFile() error = %v, want *DataLoadError", err)
	}
	if dle.Source != path {
		t.Errorf("Source = %q, want %q", dle.Source, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestLookup_FirstMatch(t *testing.T) {
	c := New([]MovieRecord{
		{Title: "Solaris", Year: 1972, HasYear: true, PlotKeywords: "space", Country: "Soviet Union"},
		{Title: "Solaris", Year: 2002, HasYear: true, PlotKeywords: "space", Country: "USA"},
	})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	i, rec, ok := c.Lookup("Solaris")
	if !ok || i != 0 || rec.Year != 1972 {
		t.Errorf("Lookup(Solaris) = (%d, %v, %v), want first row", i, rec, ok)
	}
	if _, _, ok := c.Lookup("solaris"); ok {
		t.Error("Lookup must be exact")
	}
}

func TestNew_Cleaning(t *testing.T) {
	c := New([]MovieRecord{
		{Title: "A", PlotKeywords: "k"},
		{Title: "B"},
		{Title: "A", PlotKeywords: "k"},
	})
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got := c.At(0).CombinedFeatures; got != "A k" {
		t.Errorf("CombinedFeatures = %q, want %q", got, "A k")
	}
}

func TestAutocomplete(t *testing.T) {
	c := loadFixture(t)

	tests := []struct {
		term string
		want []string
	}{
		{"matrix", []string{"The Matrix", "The Matrix Reloaded"}},
		{"MATRIX", []string{"The Matrix", "The Matrix Reloaded"}},
		{"the", []string{"Pirates of the Caribbean: At World's End", "The Dark Knight Rises", "The Matrix", "The Matrix Reloaded"}},
		{"zzz", []string{}},
		{"", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := c.Autocomplete(tt.term)
			if got == nil {
				t.Fatal("Autocomplete returned nil, want empty slice")
			}
			if strings.Join(got, ";") != strings.Join(tt.want, ";") {
				t.Errorf("Autocomplete(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestRecordFilters(t *testing.T) {
	rec := MovieRecord{Genres: "Action|Sci-Fi", Country: "USA"}

	if !rec.HasGenre("sci-fi") || !rec.HasGenre("ACTION") || rec.HasGenre("Drama") {
		t.Error("HasGenre should be a case-insensitive substring match")
	}
	if !rec.InCountry("usa") || rec.InCountry("US") {
		t.Error("InCountry should be a case-insensitive exact match")
	}
	empty := MovieRecord{}
	if empty.InCountry("") || empty.HasGenre("") {
		t.Error("records without the field never match")
	}
}

func TestBuildFeatures(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want string
	}{
		{"all present", []string{"a", "b", "c"}, "a b c"},
		{"skips missing", []string{"a", "", "  ", "d"}, "a d"},
		{"trims", []string{" a ", "b "}, "a b"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildFeatures(tt.row); got != tt.want {
				t.Errorf("BuildFeatures(%q) = %q, want %q", tt.row, got, tt.want)
			}
		})
	}
}
