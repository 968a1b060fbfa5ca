// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"

	"github.com/dlclark/regexp2"
	"github.com/sirupsen/logrus"
)

// Matcher is a pattern compiled by the engine of its flavor.
// It is safe for concurrent use.
type Matcher struct {
	// std is set for FlavorRE2.
	std *regexp.Regexp
	// pcre is set for FlavorPCRE.
	pcre *regexp2.Regexp
	// logger reports engine errors such as match timeouts.
	logger logrus.FieldLogger
	// pattern is the compiled source pattern.
	pattern string
	// flavor is the engine flavor.
	flavor Flavor
}

// Compile builds the pattern and compiles it with the builder's flavor.
func (b *Builder) Compile() (*Matcher, error) {
	pattern, err := b.Build()
	if err != nil {
		return nil, err
	}

	return Compile(pattern, b.opts)
}

// Compile compiles an already rendered pattern. Only Flavor, MatchTimeout
// and Logger of opts are used; inline flags must already be in pattern.
func Compile(pattern string, opts Options) (*Matcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		pattern: pattern,
		flavor:  opts.Flavor,
		logger:  opts.Logger,
	}

	if m.logger == nil {
		m.logger = discardLogger
	}

	switch opts.Flavor {
	case FlavorPCRE:
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", opts.Flavor, pattern, err)
		}

		if opts.MatchTimeout > 0 {
			re.MatchTimeout = opts.MatchTimeout
		}

		m.pcre = re
	default:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", opts.Flavor, pattern, err)
		}

		m.std = re
	}

	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, opts Options) *Matcher {
	m, err := Compile(pattern, opts)
	if err != nil {
		panic(err)
	}

	return m
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.pattern
}

// Flavor returns the engine flavor.
func (m *Matcher) Flavor() Flavor {
	return m.flavor
}

// MatchString reports whether s contains a match.
func (m *Matcher) MatchString(s string) bool {
	if m.std != nil {
		return m.std.MatchString(s)
	}

	ok, err := m.pcre.MatchString(s)
	if err != nil {
		m.logger.WithError(err).WithField("pattern", m.pattern).Warn("match failed")
		return false
	}

	return ok
}

// FindString returns the leftmost match in s.
func (m *Matcher) FindString(s string) (string, bool) {
	if m.std != nil {
		loc := m.std.FindStringIndex(s)
		if loc == nil {
			return "", false
		}

		return s[loc[0]:loc[1]], true
	}

	match, err := m.pcre.FindStringMatch(s)
	if err != nil {
		m.logger.WithError(err).WithField("pattern", m.pattern).Warn("find failed")
		return "", false
	}

	if match == nil {
		return "", false
	}

	return match.String(), true
}

// FindAllString returns successive non-overlapping matches; n < 0 means all.
func (m *Matcher) FindAllString(s string, n int) []string {
	if m.std != nil {
		return m.std.FindAllString(s, n)
	}

	var out []string
	match, err := m.pcre.FindStringMatch(s)
	for err == nil && match != nil && (n < 0 || len(out) < n) {
		out = append(out, match.String())
		match, err = m.pcre.FindNextMatch(match)
	}

	if err != nil {
		m.logger.WithError(err).WithField("pattern", m.pattern).Warn("find all failed")
	}

	return out
}

// NamedGroups returns named groups that took part in the leftmost match of s.
func (m *Matcher) NamedGroups(s string) (map[string]string, bool) {
	if m.std != nil {
		sub := m.std.FindStringSubmatchIndex(s)
		if sub == nil {
			return nil, false
		}

		out := make(map[string]string)
		for i, name := range m.std.SubexpNames() {
			if name == "" || sub[2*i] < 0 {
				continue
			}

			out[name] = s[sub[2*i]:sub[2*i+1]]
		}

		return out, true
	}

	match, err := m.pcre.FindStringMatch(s)
	if err != nil {
		m.logger.WithError(err).WithField("pattern", m.pattern).Warn("group match failed")
		return nil, false
	}

	if match == nil {
		return nil, false
	}

	out := make(map[string]string)
	for _, name := range m.pcre.GetGroupNames() {
		// regexp2 reports numbered groups by their index as name.
		if !validGroupName(name) {
			continue
		}

		g := match.GroupByName(name)
		if g == nil || len(g.Captures) == 0 {
			continue
		}

		out[name] = g.String()
	}

	return out, true
}

// validateRaw checks expr with the parser of the flavor engine.
func validateRaw(flavor Flavor, expr string) error {
	switch flavor {
	case FlavorPCRE:
		if _, err := regexp2.Compile(expr, regexp2.None); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRaw, expr, err)
		}
	default:
		if _, err := syntax.Parse(expr, syntax.Perl); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRaw, expr, err)
		}
	}

	return nil
}

// checkRepeatNesting reports nested RE2 repeat counts whose product exceeds the parser limit.
func checkRepeatNesting(expr string) error {
	if _, err := syntax.Parse(expr, syntax.Perl); repeatTooLarge(err) {
		return fmt.Errorf("%w: nested repeat counts in %q exceed %d", ErrInvalidQuantifier, expr, maxRE2Repeat)
	}

	return nil
}

// checkRendered parses a rendered RE2 pattern so Build never returns one the engine refuses.
func checkRendered(flavor Flavor, pattern string) error {
	if flavor != FlavorRE2 || pattern == "" {
		return nil
	}

	_, err := syntax.Parse(pattern, syntax.Perl)
	switch {
	case err == nil:
		return nil
	case repeatTooLarge(err):
		return fmt.Errorf("%w: nested repeat counts exceed %d", ErrInvalidQuantifier, maxRE2Repeat)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidRaw, err)
	}
}

// repeatTooLarge reports a parser error about repeat size.
func repeatTooLarge(err error) bool {
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		return false
	}

	return serr.Code == syntax.ErrInvalidRepeatSize || serr.Code == syntax.ErrLarge
}
