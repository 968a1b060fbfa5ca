// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"strings"
)

// Concat appends finished builders in order into a new builder that uses
// the options of the first one.
func Concat(builders ...*Builder) *Builder {
	var out *Builder
	for _, b := range builders {
		if b == nil {
			continue
		}

		if out == nil {
			out = NewWithOptions(b.opts)
		}

		out.Append(b)
	}

	if out == nil {
		return New()
	}

	return out
}

// MergeSteps merges step slices preserving input order.
func MergeSteps(stepSets ...[]Step) []Step {
	total := 0
	for _, set := range stepSets {
		total += len(set)
	}

	out := make([]Step, 0, total)
	for _, set := range stepSets {
		out = append(out, set...)
	}

	return out
}

// Append appends the fragments of a finished builder.
//
// A builder with top-level alternation is appended as one non-capturing
// group so its branches do not split the receiver.
func (b *Builder) Append(other *Builder) *Builder {
	if b.err != nil || other == nil {
		return b
	}

	if b.negate {
		return b.fail("Append", fmt.Errorf("%w: Append cannot be inverted", ErrInvalidNegation))
	}

	if err := b.checkJoinable(other); err != nil {
		return b.fail("Append", err)
	}

	scope := flagScope(b.opts, other.opts)
	wrap := scope != "" || other.frames[0].alternated
	if wrap {
		if scope == "" {
			scope = "(?:"
		}

		b.open("Append", scope, false)
		if b.err == nil {
			b.top().multiline = other.opts.Multiline
		}
	}

	b.splice("Append", other.fragments)
	b.adoptNames(other)

	if wrap {
		b.closeGroup("Append")
	}

	return b
}

// Either appends a non-capturing group matching any of the finished builders.
func (b *Builder) Either(alts ...*Builder) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail("Either", fmt.Errorf("%w: Either cannot be inverted", ErrInvalidNegation))
	}

	n := 0
	seen := make(map[string]struct{})
	for _, alt := range alts {
		if alt == nil {
			continue
		}

		if err := b.checkJoinable(alt); err != nil {
			return b.fail("Either", err)
		}

		for name := range alt.names {
			if _, ok := seen[name]; ok {
				return b.fail("Either", fmt.Errorf("%w: duplicate %q", ErrInvalidGroupName, name))
			}

			seen[name] = struct{}{}
		}

		n++
	}

	if n == 0 {
		return b.fail("Either", fmt.Errorf("%w: no alternatives", ErrEmptyAlternation))
	}

	b.open("Either", "(?:", false)
	first := true
	for _, alt := range alts {
		if alt == nil {
			continue
		}

		if !first {
			b.alternate("Either")
		}

		first = false
		if scope := flagScope(b.opts, alt.opts); scope != "" {
			b.open("Either", scope, false)
			if b.err == nil {
				b.top().multiline = alt.opts.Multiline
			}

			b.splice("Either", alt.fragments)
			b.closeGroup("Either")
		} else {
			b.splice("Either", alt.fragments)
		}

		b.adoptNames(alt)
	}

	return b.closeGroup("Either")
}

// checkJoinable reports why other cannot be appended to b.
func (b *Builder) checkJoinable(other *Builder) error {
	if other.err != nil {
		return fmt.Errorf("source builder: %w", other.err)
	}

	if other.negate {
		return fmt.Errorf("%w: source builder ends with Not", ErrInvalidNegation)
	}

	if open := other.OpenGroups(); open > 0 {
		return fmt.Errorf("%w: source builder has %d open group(s)", ErrUnbalancedGroup, open)
	}

	if other.opts.Flavor != b.opts.Flavor {
		return fmt.Errorf("%w: cannot join %s fragments into %s builder", ErrUnsupportedFlavor, other.opts.Flavor, b.opts.Flavor)
	}

	for name := range other.names {
		if _, ok := b.names[name]; ok {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidGroupName, name)
		}
	}

	return nil
}

// adoptNames records group names of other as used by b.
func (b *Builder) adoptNames(other *Builder) {
	if b.err != nil || len(other.names) == 0 {
		return
	}

	if b.names == nil {
		b.names = make(map[string]struct{}, len(other.names))
	}

	for name := range other.names {
		b.names[name] = struct{}{}
	}
}

// splice replays balanced fragments so frame and anchor bookkeeping stays exact.
func (b *Builder) splice(op string, frags []Fragment) *Builder {
	for _, f := range frags {
		if b.err != nil {
			return b
		}

		switch f.Kind {
		case KindGroupOpen:
			b.open(op, f.Text, isLookaroundOpen(f.Text))
		case KindGroupClose:
			b.closeGroup(op)
		case KindAssertion:
			if f.Text == ")" {
				b.closeGroup(op)
				continue
			}

			b.add(op, f)
		case KindAlternation:
			b.alternate(op)
		case KindAnchor:
			if f.Text == "^" || f.Text == `\A` {
				b.startAnchor(op, f.Text)
				continue
			}

			b.endAnchor(op, f.Text)
		case KindQuantifier:
			// Source fragments already bind quantifiers to a quantifiable predecessor.
			b.fragments = append(b.fragments, f)
		default:
			b.add(op, f)
		}
	}

	return b
}

// isLookaroundOpen reports whether group-open text starts a lookaround.
func isLookaroundOpen(text string) bool {
	switch text {
	case "(?=", "(?!", "(?<=", "(?<!":
		return true
	default:
		return false
	}
}

// flagScope returns a scoped flag group opener that gives inner fragments
// their own inline flags inside outer, or "" when flags agree.
func flagScope(outer Options, inner Options) string {
	var on, off strings.Builder
	toggle := func(outerSet, innerSet bool, flag byte) {
		switch {
		case innerSet && !outerSet:
			on.WriteByte(flag)
		case !innerSet && outerSet:
			off.WriteByte(flag)
		}
	}

	toggle(outer.CaseInsensitive, inner.CaseInsensitive, 'i')
	toggle(outer.Multiline, inner.Multiline, 'm')
	toggle(outer.DotAll, inner.DotAll, 's')

	if on.Len() == 0 && off.Len() == 0 {
		return ""
	}

	scope := "(?" + on.String()
	if off.Len() > 0 {
		scope += "-" + off.String()
	}

	return scope + ":"
}
