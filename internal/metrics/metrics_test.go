// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns the sample count of one histogram child.
func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	h, ok := vec.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatal("histogram child does not implement prometheus.Metric")
	}
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/autocomplete", "200"))
	RecordAPIRequest("GET", "/api/v1/autocomplete", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/autocomplete", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+2 {
		t.Errorf("active = %v, want %v", got, start+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v, want %v", got, start)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		results int
	}{
		{"ok", "ok", 12},
		{"invalid", "invalid", 0},
		{"not ready", "not_ready", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RecommendRequests.WithLabelValues("by_year", tt.outcome)
			before := testutil.ToFloat64(c)
			RecordRecommendation("by_year", tt.outcome, tt.results, time.Millisecond)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("recommend_requests_total delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordRecommendation_ResultsOnlyOnSuccess(t *testing.T) {
	d0 := histogramCount(t, RecommendDuration, "by_genre")
	r0 := histogramCount(t, RecommendResults, "by_genre")

	RecordRecommendation("by_genre", "ok", 24, 5*time.Millisecond)
	RecordRecommendation("by_genre", "invalid", 0, time.Millisecond)

	if got := histogramCount(t, RecommendDuration, "by_genre") - d0; got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
	if got := histogramCount(t, RecommendResults, "by_genre") - r0; got != 1 {
		t.Errorf("result samples = %d, want 1", got)
	}
}

func TestRecordEnrichLookup_RejectedNotTimed(t *testing.T) {
	before := histogramCount(t, EnrichLookupDuration, "youtube")
	RecordEnrichLookup("youtube", "rejected", 0)
	RecordEnrichLookup("youtube", "found", 80*time.Millisecond)
	if got := histogramCount(t, EnrichLookupDuration, "youtube") - before; got != 1 {
		t.Errorf("duration samples = %d, want 1", got)
	}
}

func TestRecordUnenrichedDropped(t *testing.T) {
	c := RecommendUnenrichedDropped.WithLabelValues("auto")
	before := testutil.ToFloat64(c)
	RecordUnenrichedDropped("auto", 0)
	RecordUnenrichedDropped("auto", 3)
	if got := testutil.ToFloat64(c) - before; got != 3 {
		t.Errorf("dropped delta = %v, want 3", got)
	}
}

func TestRecordEnrichLookup(t *testing.T) {
	found := EnrichLookups.WithLabelValues("omdb", "found")
	rejected := EnrichLookups.WithLabelValues("omdb", "rejected")
	f0, r0 := testutil.ToFloat64(found), testutil.ToFloat64(rejected)

	RecordEnrichLookup("omdb", "found", 120*time.Millisecond)
	RecordEnrichLookup("omdb", "rejected", 0)

	if testutil.ToFloat64(found)-f0 != 1 || testutil.ToFloat64(rejected)-r0 != 1 {
		t.Error("enrich_lookups_total not incremented per outcome")
	}
}

func TestRecordCacheLookup(t *testing.T) {
	h0 := testutil.ToFloat64(CacheHits.WithLabelValues("poster"))
	m0 := testutil.ToFloat64(CacheMisses.WithLabelValues("poster"))
	RecordCacheLookup("poster", true)
	RecordCacheLookup("poster", false)
	RecordCacheLookup("poster", false)
	if got := testutil.ToFloat64(CacheHits.WithLabelValues("poster")) - h0; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("poster")) - m0; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestSetCatalogAndIndexStats(t *testing.T) {
	SetCatalogStats(4916, 153, 45)
	if got := testutil.ToFloat64(CatalogRecords); got != 4916 {
		t.Errorf("catalog_records = %v", got)
	}
	if got := testutil.ToFloat64(CatalogDroppedRows.WithLabelValues("duplicate")); got != 45 {
		t.Errorf("catalog_dropped_rows{duplicate} = %v", got)
	}

	SetIndexStats(1200, 2*time.Second, true)
	if testutil.ToFloat64(IndexModelReused) != 1 || testutil.ToFloat64(IndexVocabularySize) != 1200 {
		t.Error("index gauges not set")
	}
	SetIndexStats(1200, time.Second, false)
	if testutil.ToFloat64(IndexModelReused) != 0 {
		t.Error("index_model_reused should reset to 0")
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordAPIRequest("GET", "/health/live", "200", time.Millisecond)
				RecordEnrichLookup("youtube", "empty", time.Millisecond)
				RecordGeolocationLookup("ipapi.co", "found", time.Millisecond)
			}
		}()
	}
	wg.Wait()
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
