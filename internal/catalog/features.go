// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"strings"
)

// BuildFeatures joins every non-missing cell of a raw row with single spaces,
// preserving column order. Cells that are empty after trimming are skipped.
func BuildFeatures(row []string) string {
	var b strings.Builder
	for _, v := range row {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v)
	}
	return b.String()
}
