// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import "strings"

// NormalizeExtensions normalizes a file extension list.
//
// Accepted extension forms:
//   - "txt"
//   - ".txt"
//   - "*.txt"
//
// Empty values and duplicates are skipped. Returned extensions are
// lower-case without leading dot and preserve input order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*.")
		ext = strings.TrimLeft(ext, ".")
		ext = asciiLower(ext)
		if ext == "" {
			continue
		}

		if _, ok := seen[ext]; ok {
			continue
		}

		seen[ext] = struct{}{}
		out = append(out, ext)
	}

	return out
}

// Extensions returns a builder matching names that end with "." and one of exts.
//
// The result renders as `\.(?:ext1|ext2)$`. An empty normalized list
// records ErrEmptyAlternation.
func Extensions(exts []string, opts Options) *Builder {
	normalized := NormalizeExtensions(exts)
	alts := make([]*Builder, 0, len(normalized))
	for _, ext := range normalized {
		alts = append(alts, NewWithOptions(opts).Literal(ext))
	}

	return NewWithOptions(opts).
		Literal(".").
		Either(alts...).
		AnchorEnd()
}
