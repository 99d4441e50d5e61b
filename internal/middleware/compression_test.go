// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	body := strings.Repeat(`{"movie_title":"Avatar"}`, 100)
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	tests := []struct {
		name           string
		method         string
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{"gzip accepted", http.MethodGet, "/api/v1/recommendations", "gzip", true},
		{"gzip among others", http.MethodGet, "/api/v1/recommendations", "deflate, gzip, br", true},
		{"no accept header", http.MethodGet, "/api/v1/recommendations", "", false},
		{"head request", http.MethodHead, "/api/v1/recommendations", "gzip", false},
		{"metrics scrape", http.MethodGet, "/metrics", "gzip", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("Content-Encoding gzip = %v, want %v", gotGzip, tt.wantGzip)
			}
			if rec.Header().Get("Vary") != "Accept-Encoding" {
				t.Errorf("Vary = %q, want Accept-Encoding", rec.Header().Get("Vary"))
			}

			got := rec.Body.String()
			if gotGzip {
				gr, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() error = %v", err)
				}
				defer gr.Close()
				raw, err := io.ReadAll(gr)
				if err != nil {
					t.Fatalf("read gzip body: %v", err)
				}
				got = string(raw)
			}
			if got != body {
				t.Errorf("body mismatch: got %d bytes, want %d", len(got), len(body))
			}
		})
	}
}

func TestGzipResponseWriter_StatusOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	gz := gzip.NewWriter(rec)
	defer gz.Close()

	gzw := &gzipResponseWriter{Writer: gz, ResponseWriter: rec}
	gzw.WriteHeader(http.StatusNotFound)
	gzw.WriteHeader(http.StatusOK)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGzipResponseWriter_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	gz := gzip.NewWriter(rec)
	defer gz.Close()

	gzw := &gzipResponseWriter{Writer: gz, ResponseWriter: rec}
	n, err := gzw.Write([]byte("test data"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len("test data") {
		t.Errorf("Write() = %d bytes, want %d", n, len("test data"))
	}
	if !gzw.wroteHeader || rec.Code != http.StatusOK {
		t.Errorf("wroteHeader = %v, code = %d; want true, 200", gzw.wroteHeader, rec.Code)
	}
}
