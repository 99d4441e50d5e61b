// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package catalog loads the movie metadata CSV into an immutable, in-memory
// catalog.
//
// Load drops rows without plot keywords and rows that repeat an earlier row
// across every retained column, keeps the fixed column projection described
// by RequiredColumns, and caches each record's combined feature text. The
// returned Catalog is never mutated, so it can be shared by any number of
// goroutines without locking.
package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DataLoadError reports a catalog source that is unreadable, empty or
// missing required columns.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("catalog: load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// LoadStats summarises the cleaning pass.
type LoadStats struct {
	Rows                   int `json:"rows"`
	DroppedMissingKeywords int `json:"dropped_missing_keywords"`
	DroppedDuplicates      int `json:"dropped_duplicates"`
	Retained               int `json:"retained"`
}

// Catalog is the cleaned, de-duplicated set of movie records in load order.
type Catalog struct {
	records []MovieRecord
	lower   []string       // lower-cased titles, aligned with records
	byTitle map[string]int // first row for each exact title
	stats   LoadStats
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	c, err := Load(f)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Source = path
		}
		return nil, err
	}
	return c, nil
}

// Load parses a CSV stream with a header row.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataLoadError{Source: "reader", Err: errors.New("empty source")}
	}
	if err != nil {
		return nil, &DataLoadError{Source: "reader", Err: fmt.Errorf("reading header: %w", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	pos, err := projection(header)
	if err != nil {
		return nil, &DataLoadError{Source: "reader", Err: err}
	}

	c := &Catalog{byTitle: make(map[string]int)}
	seen := make(map[string]struct{})
	raw := make([]string, len(RequiredColumns))

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Source: "reader", Err: fmt.Errorf("line %d: %w", line, err)}
		}
		c.stats.Rows++

		for i, p := range pos {
			raw[i] = cell(row, p)
		}
		if raw[7] == "" { // plot_keywords
			c.stats.DroppedMissingKeywords++
			continue
		}
		key := strings.Join(raw, "\x1f")
		if _, dup := seen[key]; dup {
			c.stats.DroppedDuplicates++
			continue
		}
		seen[key] = struct{}{}

		rec := newRecord(raw)
		rec.CombinedFeatures = BuildFeatures(row)
		c.append(rec)
	}

	if len(c.records) == 0 {
		return nil, &DataLoadError{Source: "reader", Err: errors.New("no usable records")}
	}
	c.stats.Retained = len(c.records)
	return c, nil
}

// New builds a catalog directly from records, in the given order. Records
// without plot keywords or repeating an earlier record are dropped, and
// CombinedFeatures is filled in when empty.
func New(records []MovieRecord) *Catalog {
	c := &Catalog{byTitle: make(map[string]int)}
	seen := make(map[string]struct{})
	for i := range records {
		rec := records[i]
		c.stats.Rows++
		if strings.TrimSpace(rec.PlotKeywords) == "" {
			c.stats.DroppedMissingKeywords++
			continue
		}
		raw := rec.cells()
		key := strings.Join(raw, "\x1f")
		if _, dup := seen[key]; dup {
			c.stats.DroppedDuplicates++
			continue
		}
		seen[key] = struct{}{}
		if rec.CombinedFeatures == "" {
			rec.CombinedFeatures = BuildFeatures(raw)
		}
		c.append(rec)
	}
	c.stats.Retained = len(c.records)
	return c
}

func (c *Catalog) append(rec MovieRecord) {
	idx := len(c.records)
	c.records = append(c.records, rec)
	c.lower = append(c.lower, strings.ToLower(rec.Title))
	if _, ok := c.byTitle[rec.Title]; !ok {
		c.byTitle[rec.Title] = idx
	}
}

func projection(header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	pos := make([]int, len(RequiredColumns))
	var missing []string
	for i, name := range RequiredColumns {
		p, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		pos[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return pos, nil
}

// cell returns the trimmed value at i, or "" when the row is short.
// strings.TrimSpace also strips the U+00A0 that trails titles in the IMDb 5000 export.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newRecord(raw []string) MovieRecord {
	rec := MovieRecord{
		Title:        raw[0],
		Director:     raw[1],
		Actors:       [3]string{raw[2], raw[3], raw[4]},
		Genres:       raw[5],
		Country:      raw[6],
		PlotKeywords: raw[7],
		IMDbLink:     raw[10],
	}
	rec.Year, rec.HasYear = parseWhole(raw[8])
	rec.Score, rec.HasScore = parseFloat(raw[9])
	rec.Duration, rec.HasDuration = parseWhole(raw[11])
	return rec
}

// cells renders a record back into RequiredColumns order.
func (r *MovieRecord) cells() []string {
	out := []string{
		r.Title, r.Director, r.Actors[0], r.Actors[1], r.Actors[2],
		r.Genres, r.Country, r.PlotKeywords, "", "", r.IMDbLink, "",
	}
	if r.HasYear {
		out[8] = strconv.Itoa(r.Year)
	}
	if r.HasScore {
		out[9] = strconv.FormatFloat(r.Score, 'f', -1, 64)
	}
	if r.HasDuration {
		out[11] = strconv.Itoa(r.Duration)
	}
	return out
}

// parseWhole accepts "2009" and "2009.0".
func parseWhole(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// At returns record i. The pointer must be treated as read-only.
func (c *Catalog) At(i int) *MovieRecord { return &c.records[i] }

// Stats returns the cleaning summary.
func (c *Catalog) Stats() LoadStats { return c.stats }

// Lookup returns the first record whose title equals title exactly.
func (c *Catalog) Lookup(title string) (int, *MovieRecord, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return -1, nil, false
	}
	return i, &c.records[i], true
}

// Corpus returns the combined feature text of every record in catalog order.
func (c *Catalog) Corpus() []string {
	out := make([]string, len(c.records))
	for i := range c.records {
		out[i] = c.records[i].CombinedFeatures
	}
	return out
}

// Autocomplete returns every title containing term, ignoring case, in
// catalog order. A blank term matches nothing.
func (c *Catalog) Autocomplete(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []string{}
	if term == "" {
		return out
	}
	for i, t := range c.lower {
		if strings.Contains(t, term) {
			out = append(out, c.records[i].Title)
		}
	}
	return out
}
