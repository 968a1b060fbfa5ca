// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxRE2Repeat is the largest repeat count accepted by the regexp package.
const maxRE2Repeat = 1000

// Builder assembles a regex pattern from chained calls.
//
// Every method appends fragments and returns the same builder. The first
// failing call is recorded and turns the remaining calls into no-ops; the
// error is reported by Err and Build. A Builder is not safe for concurrent use.
type Builder struct {
	// err is the first error introduced by a builder call.
	err error
	// names holds capture group names already in use.
	names map[string]struct{}
	// fragments is the ordered fragment sequence.
	fragments []Fragment
	// frames is the open group stack; frames[0] is the top level.
	frames []groupFrame
	// opts are rendering and validation options.
	opts Options
	// negate reports a pending Not waiting for an invertible element.
	negate bool
}

// groupFrame tracks one open group (or the top level) and its current branch.
type groupFrame struct {
	// lookaround marks zero-width lookaround groups.
	lookaround bool
	// consumed reports the current branch already matches input before this point.
	consumed bool
	// ended reports the current branch passed an end anchor.
	ended bool
	// initConsumed and initEnded restore branch state after "|".
	initConsumed bool
	initEnded    bool
	// alternated reports the frame contains "|".
	alternated bool
	// multiline reports "^" and "$" match at line boundaries inside the frame.
	multiline bool
}

// discardLogger is used when options carry no logger.
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

// New creates an empty builder with default options (RE2 flavor).
func New() *Builder {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty builder with given options.
func NewWithOptions(opts Options) *Builder {
	b := &Builder{
		opts:   opts,
		frames: make([]groupFrame, 1, 4),
	}
	b.frames[0].multiline = opts.Multiline

	if err := opts.validate(); err != nil {
		b.err = &OpError{Op: "New", Index: 0, Err: err}
	}

	return b
}

// Options returns builder options.
func (b *Builder) Options() Options {
	return b.opts
}

// Err returns the first error introduced by a builder call, if any.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of fragments appended so far.
func (b *Builder) Len() int {
	return len(b.fragments)
}

// Fragments returns a copy of the fragment sequence.
func (b *Builder) Fragments() []Fragment {
	out := make([]Fragment, len(b.fragments))
	copy(out, b.fragments)
	return out
}

// OpenGroups returns the number of groups not yet closed.
func (b *Builder) OpenGroups() int {
	return len(b.frames) - 1
}

// Clone returns an independent copy of the builder, including its error state.
func (b *Builder) Clone() *Builder {
	c := &Builder{
		err:       b.err,
		fragments: b.Fragments(),
		frames:    append([]groupFrame(nil), b.frames...),
		opts:      b.opts,
		negate:    b.negate,
	}

	if len(b.names) > 0 {
		c.names = make(map[string]struct{}, len(b.names))
		for name := range b.names {
			c.names[name] = struct{}{}
		}
	}

	return c
}

// Build renders the pattern.
//
// It fails with the first recorded call error, with ErrUnbalancedGroup when
// a group is still open, and with ErrInvalidNegation when Not is left dangling.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	if b.negate {
		return "", &OpError{
			Op:    "Build",
			Index: len(b.fragments),
			Err:   fmt.Errorf("%w: Not is not followed by an invertible element", ErrInvalidNegation),
		}
	}

	if open := b.OpenGroups(); open > 0 {
		return "", &OpError{
			Op:    "Build",
			Index: len(b.fragments),
			Err:   fmt.Errorf("%w: %d group(s) left open", ErrUnbalancedGroup, open),
		}
	}

	pattern := b.render()
	if err := checkRendered(b.opts.Flavor, pattern); err != nil {
		return "", &OpError{Op: "Build", Index: len(b.fragments), Err: err}
	}

	b.logger().WithField("pattern", pattern).Debug("pattern built")
	return pattern, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() string {
	pattern, err := b.Build()
	if err != nil {
		panic(err)
	}

	return pattern
}

// String returns the built pattern, or an empty string when Build fails.
func (b *Builder) String() string {
	pattern, err := b.Build()
	if err != nil {
		return ""
	}

	return pattern
}

// render concatenates fragments behind the inline flag prefix.
func (b *Builder) render() string {
	var sb strings.Builder
	sb.WriteString(b.opts.flagPrefix())
	for i := range b.fragments {
		sb.WriteString(b.fragments[i].Text)
	}

	return sb.String()
}

// Literal appends text with all regex metacharacters escaped. Empty text is a no-op.
func (b *Builder) Literal(text string) *Builder {
	if text == "" {
		return b
	}

	return b.add("Literal", Fragment{Kind: KindLiteral, Text: escapeLiteral(text)})
}

// Raw appends expr without escaping after validating it with the flavor parser.
func (b *Builder) Raw(expr string) *Builder {
	if b.err != nil {
		return b
	}

	if expr == "" {
		return b.fail("Raw", fmt.Errorf("%w: empty expression", ErrInvalidRaw))
	}

	if err := validateRaw(b.opts.Flavor, expr); err != nil {
		return b.fail("Raw", err)
	}

	// Keep a top-level "|" inside the raw expression from splitting the outer pattern.
	if strings.Contains(expr, "|") {
		return b.add("Raw", Fragment{Kind: KindGroup, Text: "(?:" + expr + ")"})
	}

	return b.add("Raw", Fragment{Kind: KindRaw, Text: expr})
}

// AnyChar appends "." matching any character (except newline unless DotAll).
func (b *Builder) AnyChar() *Builder {
	return b.add("AnyChar", Fragment{Kind: KindClass, Text: "."})
}

// Digit appends `\d`, or `\D` after Not.
func (b *Builder) Digit() *Builder {
	return b.invertible("Digit", KindClass, `\d`, `\D`)
}

// WordChar appends `\w`, or `\W` after Not.
func (b *Builder) WordChar() *Builder {
	return b.invertible("WordChar", KindClass, `\w`, `\W`)
}

// Whitespace appends `\s`, or `\S` after Not.
func (b *Builder) Whitespace() *Builder {
	return b.invertible("Whitespace", KindClass, `\s`, `\S`)
}

// Alpha appends an ASCII letter class, inverted after Not.
func (b *Builder) Alpha() *Builder {
	return b.invertible("Alpha", KindClass, `[a-zA-Z]`, `[^a-zA-Z]`)
}

// AnyOf appends a class matching any character of chars, inverted after Not.
func (b *Builder) AnyOf(chars string) *Builder {
	if b.err != nil {
		return b
	}

	if chars == "" {
		return b.fail("AnyOf", fmt.Errorf("%w: empty character set", ErrInvalidCharClass))
	}

	set := escapeClass(chars)
	return b.invertible("AnyOf", KindClass, "["+set+"]", "[^"+set+"]")
}

// Range appends a class matching characters from lo to hi inclusive, inverted after Not.
func (b *Builder) Range(lo, hi rune) *Builder {
	if b.err != nil {
		return b
	}

	if lo > hi {
		return b.fail("Range", fmt.Errorf("%w: range %q-%q is reversed", ErrInvalidCharClass, lo, hi))
	}

	set := escapeClass(string(lo)) + "-" + escapeClass(string(hi))
	return b.invertible("Range", KindClass, "["+set+"]", "[^"+set+"]")
}

// Newline appends `\n`.
func (b *Builder) Newline() *Builder {
	return b.add("Newline", Fragment{Kind: KindClass, Text: `\n`})
}

// Tab appends `\t`.
func (b *Builder) Tab() *Builder {
	return b.add("Tab", Fragment{Kind: KindClass, Text: `\t`})
}

// Identifier appends a letter or underscore followed by word characters.
func (b *Builder) Identifier() *Builder {
	return b.add("Identifier", Fragment{Kind: KindRaw, Text: `[a-zA-Z_]\w*`})
}

// Not inverts the next element. Only Digit, WordChar, Whitespace, Alpha,
// AnyOf, Range and WordBoundary can be inverted.
func (b *Builder) Not() *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail("Not", fmt.Errorf("%w: Not follows Not", ErrInvalidNegation))
	}

	b.negate = true
	return b
}

// OneOrMore repeats the preceding element one or more times ("+").
func (b *Builder) OneOrMore() *Builder {
	return b.quantify("OneOrMore", "+")
}

// ZeroOrMore repeats the preceding element zero or more times ("*").
func (b *Builder) ZeroOrMore() *Builder {
	return b.quantify("ZeroOrMore", "*")
}

// Optional makes the preceding element optional ("?").
func (b *Builder) Optional() *Builder {
	return b.quantify("Optional", "?")
}

// Repeat repeats the preceding element between min and max times inclusive.
func (b *Builder) Repeat(min, max int) *Builder {
	if b.err != nil {
		return b
	}

	if min < 0 || max < min {
		return b.fail("Repeat", fmt.Errorf("%w: bounds {%d,%d}", ErrInvalidQuantifier, min, max))
	}

	if err := b.checkRepeatLimit(max); err != nil {
		return b.fail("Repeat", err)
	}

	if min == max {
		return b.quantify("Repeat", "{"+strconv.Itoa(min)+"}")
	}

	return b.quantify("Repeat", "{"+strconv.Itoa(min)+","+strconv.Itoa(max)+"}")
}

// Exactly repeats the preceding element exactly n times.
func (b *Builder) Exactly(n int) *Builder {
	if b.err != nil {
		return b
	}

	if n < 0 {
		return b.fail("Exactly", fmt.Errorf("%w: negative count %d", ErrInvalidQuantifier, n))
	}

	if err := b.checkRepeatLimit(n); err != nil {
		return b.fail("Exactly", err)
	}

	return b.quantify("Exactly", "{"+strconv.Itoa(n)+"}")
}

// AtLeast repeats the preceding element n or more times.
func (b *Builder) AtLeast(n int) *Builder {
	if b.err != nil {
		return b
	}

	if n < 0 {
		return b.fail("AtLeast", fmt.Errorf("%w: negative count %d", ErrInvalidQuantifier, n))
	}

	if err := b.checkRepeatLimit(n); err != nil {
		return b.fail("AtLeast", err)
	}

	return b.quantify("AtLeast", "{"+strconv.Itoa(n)+",}")
}

// UpTo repeats the preceding element at most n times.
func (b *Builder) UpTo(n int) *Builder {
	if b.err != nil {
		return b
	}

	if n < 0 {
		return b.fail("UpTo", fmt.Errorf("%w: negative count %d", ErrInvalidQuantifier, n))
	}

	if err := b.checkRepeatLimit(n); err != nil {
		return b.fail("UpTo", err)
	}

	return b.quantify("UpTo", "{0,"+strconv.Itoa(n)+"}")
}

// Lazy makes the preceding quantifier non-greedy.
func (b *Builder) Lazy() *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail("Lazy", fmt.Errorf("%w: Lazy cannot be inverted", ErrInvalidNegation))
	}

	n := len(b.fragments)
	if n == 0 || b.fragments[n-1].Kind != KindQuantifier {
		return b.fail("Lazy", fmt.Errorf("%w: Lazy must follow a quantifier", ErrInvalidQuantifier))
	}

	last := b.fragments[n-1].Text
	if len(last) > 1 && strings.HasSuffix(last, "?") {
		return b.fail("Lazy", fmt.Errorf("%w: quantifier %q is already lazy", ErrInvalidQuantifier, last))
	}

	b.fragments[n-1] = Fragment{Kind: KindQuantifier, Text: last + "?"}
	return b
}

// Group opens a capturing group.
func (b *Builder) Group() *Builder {
	return b.open("Group", "(", false)
}

// NonCapturingGroup opens a non-capturing group.
func (b *Builder) NonCapturingGroup() *Builder {
	return b.open("NonCapturingGroup", "(?:", false)
}

// NamedGroup opens a capturing group with name.
func (b *Builder) NamedGroup(name string) *Builder {
	if b.err != nil {
		return b
	}

	if !validGroupName(name) {
		return b.fail("NamedGroup", fmt.Errorf("%w: %q", ErrInvalidGroupName, name))
	}

	if _, ok := b.names[name]; ok {
		return b.fail("NamedGroup", fmt.Errorf("%w: duplicate %q", ErrInvalidGroupName, name))
	}

	prefix := "(?P<"
	if b.opts.Flavor == FlavorPCRE {
		prefix = "(?<"
	}

	b.open("NamedGroup", prefix+name+">", false)
	if b.err == nil {
		if b.names == nil {
			b.names = make(map[string]struct{})
		}

		b.names[name] = struct{}{}
	}

	return b
}

// LookAhead opens a positive lookahead group (PCRE flavor only).
func (b *Builder) LookAhead() *Builder {
	return b.openLookaround("LookAhead", "(?=")
}

// NegativeLookAhead opens a negative lookahead group (PCRE flavor only).
func (b *Builder) NegativeLookAhead() *Builder {
	return b.openLookaround("NegativeLookAhead", "(?!")
}

// LookBehind opens a positive lookbehind group (PCRE flavor only).
func (b *Builder) LookBehind() *Builder {
	return b.openLookaround("LookBehind", "(?<=")
}

// NegativeLookBehind opens a negative lookbehind group (PCRE flavor only).
func (b *Builder) NegativeLookBehind() *Builder {
	return b.openLookaround("NegativeLookBehind", "(?<!")
}

// EndGroup closes the innermost open group.
func (b *Builder) EndGroup() *Builder {
	return b.closeGroup("EndGroup")
}

// Or starts a new alternative branch in the current group (or top level).
func (b *Builder) Or() *Builder {
	return b.alternate("Or")
}

// AnchorStart appends "^".
func (b *Builder) AnchorStart() *Builder {
	return b.startAnchor("AnchorStart", "^")
}

// AnchorEnd appends "$".
func (b *Builder) AnchorEnd() *Builder {
	return b.endAnchor("AnchorEnd", "$")
}

// StartOfText appends `\A`, matching only at the beginning of input.
func (b *Builder) StartOfText() *Builder {
	return b.startAnchor("StartOfText", `\A`)
}

// EndOfText appends `\z`, matching only at the end of input.
func (b *Builder) EndOfText() *Builder {
	return b.endAnchor("EndOfText", `\z`)
}

// WordBoundary appends `\b`, or `\B` after Not.
func (b *Builder) WordBoundary() *Builder {
	return b.invertible("WordBoundary", KindAssertion, `\b`, `\B`)
}

// add appends one fragment after common checks.
func (b *Builder) add(op string, f Fragment) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail(op, fmt.Errorf("%w: %s cannot be inverted", ErrInvalidNegation, op))
	}

	// Quantifiers only repeat placed content.
	frame := b.top()
	if b.opts.StrictAnchors && frame.ended && f.Kind.consuming() && f.Kind != KindQuantifier {
		return b.fail(op, fmt.Errorf("%w: %s follows an end anchor", ErrMisplacedAnchor, op))
	}

	b.fragments = append(b.fragments, f)
	if f.Kind.consuming() {
		frame.consumed = true
	}

	return b
}

// invertible appends text, or inverted when a Not is pending.
func (b *Builder) invertible(op string, kind FragmentKind, text string, inverted string) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		b.negate = false
		text = inverted
	}

	return b.add(op, Fragment{Kind: kind, Text: text})
}

// quantify appends a quantifier suffix to the preceding quantifiable fragment.
func (b *Builder) quantify(op string, suffix string) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail(op, fmt.Errorf("%w: %s cannot be inverted", ErrInvalidNegation, op))
	}

	n := len(b.fragments)
	if n == 0 {
		return b.fail(op, fmt.Errorf("%w: nothing to repeat", ErrInvalidQuantifier))
	}

	last := b.fragments[n-1]
	if !last.Kind.quantifiable() {
		return b.fail(op, fmt.Errorf("%w: cannot repeat %s %q", ErrInvalidQuantifier, last.Kind, last.Text))
	}

	// Group multi-character text so the quantifier binds to all of it.
	wrap := (last.Kind == KindLiteral || last.Kind == KindRaw) && !isAtom(last.Text)

	if b.opts.Flavor == FlavorRE2 && strings.HasPrefix(suffix, "{") {
		unit := b.unitText(n - 1)
		if wrap {
			unit = "(?:" + unit + ")"
		}

		if err := checkRepeatNesting(unit + suffix); err != nil {
			return b.fail(op, err)
		}
	}

	if wrap {
		b.fragments[n-1] = Fragment{Kind: KindGroup, Text: "(?:" + last.Text + ")"}
	}

	return b.add(op, Fragment{Kind: KindQuantifier, Text: suffix})
}

// unitText returns the text a quantifier after fragment i repeats: the whole
// group when i closes one, the fragment itself otherwise.
func (b *Builder) unitText(i int) string {
	if b.fragments[i].Kind != KindGroupClose {
		return b.fragments[i].Text
	}

	depth := 0
	for j := i; j >= 0; j-- {
		switch f := b.fragments[j]; {
		case f.Kind == KindGroupClose, f.Kind == KindAssertion && f.Text == ")":
			depth++
		case f.Kind == KindGroupOpen:
			depth--
			if depth == 0 {
				var sb strings.Builder
				for k := j; k <= i; k++ {
					sb.WriteString(b.fragments[k].Text)
				}

				return sb.String()
			}
		}
	}

	return b.fragments[i].Text
}

// checkRepeatLimit rejects counts the target engine refuses.
func (b *Builder) checkRepeatLimit(n int) error {
	if b.opts.Flavor == FlavorRE2 && n > maxRE2Repeat {
		return fmt.Errorf("%w: count %d exceeds %d", ErrInvalidQuantifier, n, maxRE2Repeat)
	}

	return nil
}

// open appends a group-open fragment and pushes a frame.
func (b *Builder) open(op string, text string, lookaround bool) *Builder {
	if b.err != nil {
		return b
	}

	parent := b.top()
	b.add(op, Fragment{Kind: KindGroupOpen, Text: text})
	if b.err != nil {
		return b
	}

	b.frames = append(b.frames, groupFrame{
		lookaround:   lookaround,
		consumed:     parent.consumed,
		ended:        parent.ended,
		initConsumed: parent.consumed,
		initEnded:    parent.ended,
		multiline:    parent.multiline,
	})

	return b
}

// openLookaround opens a lookaround group when the flavor supports it.
func (b *Builder) openLookaround(op string, text string) *Builder {
	if b.err != nil {
		return b
	}

	if b.opts.Flavor != FlavorPCRE {
		return b.fail(op, fmt.Errorf("%w: %s requires %s flavor", ErrUnsupportedFlavor, op, FlavorPCRE))
	}

	return b.open(op, text, true)
}

// closeGroup pops the innermost frame and appends ")".
func (b *Builder) closeGroup(op string) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail(op, fmt.Errorf("%w: Not before group end", ErrInvalidNegation))
	}

	if b.OpenGroups() == 0 {
		return b.fail(op, fmt.Errorf("%w: no open group", ErrUnbalancedGroup))
	}

	closed := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]

	kind := KindGroupClose
	if closed.lookaround {
		kind = KindAssertion
	}

	b.fragments = append(b.fragments, Fragment{Kind: kind, Text: ")"})

	parent := b.top()
	if !closed.lookaround {
		parent.consumed = true
		if !closed.alternated {
			parent.ended = parent.ended || closed.ended
		}
	}

	return b
}

// alternate appends "|" and resets branch state of the innermost frame.
func (b *Builder) alternate(op string) *Builder {
	if b.err != nil {
		return b
	}

	if b.negate {
		return b.fail(op, fmt.Errorf("%w: Not before alternation", ErrInvalidNegation))
	}

	b.fragments = append(b.fragments, Fragment{Kind: KindAlternation, Text: "|"})

	frame := b.top()
	frame.alternated = true
	frame.consumed = frame.initConsumed
	frame.ended = frame.initEnded
	return b
}

// startAnchor appends a start anchor, enforcing strict placement.
func (b *Builder) startAnchor(op string, text string) *Builder {
	if b.err != nil {
		return b
	}

	if b.opts.StrictAnchors && b.absoluteStart(text) && b.top().consumed {
		return b.fail(op, fmt.Errorf("%w: %s after consuming element", ErrMisplacedAnchor, op))
	}

	return b.add(op, Fragment{Kind: KindAnchor, Text: text})
}

// endAnchor appends an end anchor and marks the current branch ended.
func (b *Builder) endAnchor(op string, text string) *Builder {
	b.add(op, Fragment{Kind: KindAnchor, Text: text})
	if b.err == nil && b.absoluteEnd(text) {
		b.top().ended = true
	}

	return b
}

// absoluteStart reports whether a start anchor matches only at the start of input.
func (b *Builder) absoluteStart(text string) bool {
	return text == `\A` || !b.top().multiline
}

// absoluteEnd reports whether no input can follow an end anchor.
// PCRE "$" also matches before a final newline.
func (b *Builder) absoluteEnd(text string) bool {
	if text == `\z` {
		return true
	}

	return !b.top().multiline && b.opts.Flavor == FlavorRE2
}

// top returns the innermost frame.
func (b *Builder) top() *groupFrame {
	return &b.frames[len(b.frames)-1]
}

// fail records the first error and returns the builder.
func (b *Builder) fail(op string, err error) *Builder {
	if b.err != nil {
		return b
	}

	b.err = &OpError{Op: op, Index: len(b.fragments), Err: err}
	b.logger().WithField("op", op).WithError(err).Debug("builder operation failed")
	return b
}

// logger returns configured logger or a discarding one.
func (b *Builder) logger() logrus.FieldLogger {
	if b.opts.Logger != nil {
		return b.opts.Logger
	}

	return discardLogger
}

// validGroupName reports whether name is usable as a capture group name in every flavor.
func validGroupName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
