// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"strings"
	"unicode/utf8"
)

// escapeLiteral escapes every regex metacharacter in s.
func escapeLiteral(s string) string {
	return escapeWith(s, literalMeta)
}

// escapeClass escapes characters that are special inside a bracket class.
func escapeClass(s string) string {
	return escapeWith(s, classMeta)
}

// escapeWith backslash-escapes bytes of meta in s. Bytes that are not valid
// UTF-8 become U+FFFD, the rune both engines decode them to.
func escapeWith(s string, meta string) string {
	if !strings.ContainsAny(s, meta) && utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteRune(utf8.RuneError)
		case size == 1 && strings.IndexByte(meta, s[i]) >= 0:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteString(s[i : i+size])
		}

		i += size
	}

	return b.String()
}

const (
	// literalMeta lists bytes with special meaning outside classes.
	literalMeta = `\.+*?()|[]{}^$`
	// classMeta lists bytes with special meaning inside a bracket class.
	classMeta = `\[]^-`
)

// isAtom reports whether regex text is one atom a quantifier can bind to without grouping.
func isAtom(text string) bool {
	if text == "" {
		return false
	}

	r, size := utf8.DecodeRuneInString(text)
	if size == len(text) {
		return strings.IndexRune(literalMeta, r) < 0 || r == '.'
	}

	if r == '\\' {
		// One escaped rune such as `\.` or `\d`.
		_, next := utf8.DecodeRuneInString(text[1:])
		return 1+next == len(text)
	}

	if r == '[' {
		return bracketEnd(text, 0) == len(text)-1
	}

	return false
}

// bracketEnd locates the closing bracket of a regex char class starting at start.
func bracketEnd(text string, start int) int {
	if start < 0 || start >= len(text) || text[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(text) && text[idx] == '^' {
		idx++
	}

	if idx < len(text) && text[idx] == ']' {
		// Leading ']' is literal.
		idx++
	}

	for ; idx < len(text); idx++ {
		switch text[idx] {
		case '\\':
			idx++
		case ']':
			return idx
		}
	}

	return -1
}

// asciiLower converts only ASCII A-Z to a-z and leaves all other bytes unchanged.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}

			return string(b)
		}
	}

	return s
}
