// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Flavor selects the regex dialect a builder renders for.
type Flavor uint8

const (
	// FlavorRE2 targets the standard library regexp package (default).
	FlavorRE2 Flavor = iota
	// FlavorPCRE targets a backtracking engine (github.com/dlclark/regexp2)
	// and enables lookaround.
	FlavorPCRE
)

// FragmentKind classifies one fragment of regex syntax.
type FragmentKind uint8

const (
	// KindUnknown is unset/invalid kind placeholder.
	KindUnknown FragmentKind = iota
	// KindLiteral is escaped literal text.
	KindLiteral
	// KindClass is a character class or predefined class token.
	KindClass
	// KindAnchor is a position anchor such as "^" or "$".
	KindAnchor
	// KindAssertion is another zero-width element: word boundary or closed lookaround.
	KindAssertion
	// KindGroupOpen opens a group.
	KindGroupOpen
	// KindGroupClose closes a group.
	KindGroupClose
	// KindGroup is a self-contained parenthesized sub-expression.
	KindGroup
	// KindQuantifier is a repetition suffix.
	KindQuantifier
	// KindAlternation is the "|" branch separator.
	KindAlternation
	// KindRaw is caller-supplied regex syntax appended without escaping.
	KindRaw
)

// Fragment is one unit of regex syntax tracked by a builder.
type Fragment struct {
	// Text is raw regex text emitted for this fragment.
	Text string `json:"text" yaml:"text"`
	// Kind classifies the fragment.
	Kind FragmentKind `json:"kind" yaml:"kind"`
}

// Options controls rendering and validation policy of a builder.
type Options struct {
	// Logger receives debug messages; nil disables logging.
	Logger logrus.FieldLogger `json:"-" yaml:"-"`
	// MatchTimeout bounds one match call for FlavorPCRE; zero means no timeout.
	MatchTimeout time.Duration `json:"match_timeout,omitempty" yaml:"match_timeout,omitempty"`
	// Flavor selects the target regex dialect.
	Flavor Flavor `json:"flavor,omitempty" yaml:"flavor,omitempty"`
	// CaseInsensitive prefixes the pattern with "(?i)".
	CaseInsensitive bool `json:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty"`
	// Multiline prefixes the pattern with "(?m)" so "^" and "$" match at line boundaries.
	Multiline bool `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	// DotAll prefixes the pattern with "(?s)" so "." matches newlines.
	DotAll bool `json:"dot_all,omitempty" yaml:"dot_all,omitempty"`
	// StrictAnchors rejects anchors that cannot match where they are placed.
	// Line anchors under Multiline and PCRE "$" before a newline are not checked.
	StrictAnchors bool `json:"strict_anchors,omitempty" yaml:"strict_anchors,omitempty"`
}

// ParseFlavor parses a flavor name ("re2", "go", "pcre", "regexp2").
func ParseFlavor(s string) (Flavor, error) {
	switch asciiLower(strings.TrimSpace(s)) {
	case "", "re2", "go", "regexp":
		return FlavorRE2, nil
	case "pcre", "regexp2", "perl":
		return FlavorPCRE, nil
	default:
		return FlavorRE2, fmt.Errorf("%w: %q", ErrUnsupportedFlavor, s)
	}
}

// String returns the canonical flavor name.
func (f Flavor) String() string {
	switch f {
	case FlavorRE2:
		return "re2"
	case FlavorPCRE:
		return "pcre"
	default:
		return fmt.Sprintf("flavor(%d)", uint8(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Flavor) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFlavor, uint8(f))
	}

	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flavor) UnmarshalText(text []byte) error {
	parsed, err := ParseFlavor(string(text))
	if err != nil {
		return err
	}

	*f = parsed
	return nil
}

// valid reports whether flavor value is supported.
func (f Flavor) valid() bool {
	return f == FlavorRE2 || f == FlavorPCRE
}

// validate checks option values.
func (opts *Options) validate() error {
	if !opts.Flavor.valid() {
		return fmt.Errorf("%w: unsupported flavor %d", ErrInvalidOptions, uint8(opts.Flavor))
	}

	if opts.MatchTimeout < 0 {
		return fmt.Errorf("%w: negative match timeout %s", ErrInvalidOptions, opts.MatchTimeout)
	}

	return nil
}

// flagPrefix returns the inline flag group for enabled options.
func (opts *Options) flagPrefix() string {
	var flags string
	if opts.CaseInsensitive {
		flags += "i"
	}

	if opts.Multiline {
		flags += "m"
	}

	if opts.DotAll {
		flags += "s"
	}

	if flags == "" {
		return ""
	}

	return "(?" + flags + ")"
}

// String returns a readable kind name.
func (k FragmentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindClass:
		return "class"
	case KindAnchor:
		return "anchor"
	case KindAssertion:
		return "assertion"
	case KindGroupOpen:
		return "group-open"
	case KindGroupClose:
		return "group-close"
	case KindGroup:
		return "group"
	case KindQuantifier:
		return "quantifier"
	case KindAlternation:
		return "alternation"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// quantifiable reports whether a quantifier may follow fragment of this kind.
func (k FragmentKind) quantifiable() bool {
	switch k {
	case KindLiteral, KindClass, KindGroupClose, KindGroup, KindRaw:
		return true
	default:
		return false
	}
}

// consuming reports whether fragment of this kind consumes input characters.
func (k FragmentKind) consuming() bool {
	switch k {
	case KindLiteral, KindClass, KindGroupClose, KindGroup, KindRaw, KindQuantifier:
		return true
	default:
		return false
	}
}
