// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"strings"
)

// Glob appends a shell glob translated to regex.
//
// Supported syntax:
//   - "*" matches any run of characters except "/"
//   - "**" matches across "/"; "**/" matches zero or more directories
//   - "?" matches one character except "/"
//   - "[...]" and "[!...]" character classes
//
// All other characters are literal.
func (b *Builder) Glob(glob string) *Builder {
	if b.err != nil {
		return b
	}

	if glob == "" {
		return b.fail("Glob", fmt.Errorf("%w: empty", ErrInvalidGlob))
	}

	expr := globToRegex(glob)
	if err := validateRaw(b.opts.Flavor, expr); err != nil {
		return b.fail("Glob", fmt.Errorf("%w: %q: %v", ErrInvalidGlob, glob, err))
	}

	return b.add("Glob", Fragment{Kind: KindRaw, Text: expr})
}

// globToRegex converts a glob pattern to regex body.
func globToRegex(pat string) string {
	var b strings.Builder

	for i := 0; i < len(pat); i++ {
		// Handle "**/" so it can match zero or more directories.
		if pat[i] == '*' && i+2 < len(pat) && pat[i+1] == '*' && pat[i+2] == '/' {
			b.WriteString(`(?:.*/)?`)
			i += 2
			continue
		}

		if next, ok := appendCharClassRegex(pat, i, &b); ok {
			i = next
			continue
		}

		c := pat[i]
		switch c {
		case '*':
			if i+1 < len(pat) && pat[i+1] == '*' {
				b.WriteString(`.*`)
				i++
				continue
			}
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			if strings.IndexByte(literalMeta, c) >= 0 {
				b.WriteByte('\\')
			}

			b.WriteByte(c)
		}
	}

	return b.String()
}

// appendCharClassRegex appends a parsed glob char class (`[...]`) as regex class.
func appendCharClassRegex(pat string, start int, b *strings.Builder) (int, bool) {
	end := findCharClassEnd(pat, start)
	if end < 0 {
		return start, false
	}

	b.WriteByte('[')

	idx := start + 1
	if idx < end && pat[idx] == '!' {
		// Glob negation "[!x]" maps to regex "[^x]".
		b.WriteByte('^')
		idx++
	} else if idx < end && pat[idx] == '^' {
		b.WriteString(`\^`)
		idx++
	}

	if idx < end && pat[idx] == ']' {
		// Leading ']' is literal in both glob and regex classes.
		b.WriteByte(']')
		idx++
	}

	for ; idx < end; idx++ {
		if pat[idx] == '\\' || pat[idx] == '[' {
			b.WriteByte('\\')
		}

		b.WriteByte(pat[idx])
	}

	b.WriteByte(']')
	return end, true
}

// findCharClassEnd locates closing bracket for a glob char class.
func findCharClassEnd(pat string, start int) int {
	if start < 0 || start >= len(pat) || pat[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(pat) && (pat[idx] == '!' || pat[idx] == '^') {
		idx++
	}

	if idx < len(pat) && pat[idx] == ']' {
		idx++
	}

	for ; idx < len(pat); idx++ {
		if pat[idx] == ']' {
			return idx
		}
	}

	return -1
}
