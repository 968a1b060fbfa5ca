// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDigitOneOrMore(t *testing.T) {
	t.Parallel()

	pattern, err := New().Digit().OneOrMore().Build()
	require.NoError(t, err)
	assert.Equal(t, `\d+`, pattern)

	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("123"))
	assert.False(t, re.MatchString("abc"))
}

func TestBuilderLiteralDot(t *testing.T) {
	t.Parallel()

	pattern, err := New().Literal("a.b").Build()
	require.NoError(t, err)
	assert.Equal(t, `a\.b`, pattern)

	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("a.b"))
	assert.False(t, re.MatchString("axb"))
}

func TestBuilderLiteralEscapesMetacharacters(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`a.b`,
		`1+1=2`,
		`(x)`,
		`[a-z]`,
		`^$`,
		`a|b`,
		`\d`,
		`{3}`,
		`?*`,
		`C:\Program Files (x86)\`,
		`naïve.txt`,
		`.^$*+?{}[]\|()`,
	}

	for _, in := range inputs {
		pattern := New().AnchorStart().Literal(in).AnchorEnd().MustBuild()
		assert.Equal(t, "^"+regexp.QuoteMeta(in)+"$", pattern, "input %q", in)

		re, err := regexp.Compile(pattern)
		require.NoError(t, err, "input %q", in)
		assert.True(t, re.MatchString(in), "input %q", in)
		assert.Equal(t, in, re.FindString(in), "input %q", in)
	}
}

func TestBuilderLiteralInvalidUTF8(t *testing.T) {
	t.Parallel()

	in := "a\xffb"
	pattern, err := New().AnchorStart().Literal(in).AnchorEnd().Build()
	require.NoError(t, err)
	assert.Equal(t, "^a�b$", pattern)

	re, err := regexp.Compile(pattern)
	require.NoError(t, err)
	assert.Equal(t, in, re.FindString(in))

	m, err := NewWithOptions(Options{Flavor: FlavorPCRE}).Literal(in).Compile()
	require.NoError(t, err)
	assert.True(t, m.MatchString(in))

	pattern, err = New().AnyOf("\xfe-").Literal("\xc3").Optional().Build()
	require.NoError(t, err)
	assert.Equal(t, "[�\\-]�?", pattern)
}

func TestBuilderLiteralConcatenation(t *testing.T) {
	t.Parallel()

	split, err := New().Literal("a").Literal("b").Build()
	require.NoError(t, err)

	joined, err := New().Literal("ab").Build()
	require.NoError(t, err)

	assert.Equal(t, joined, split)
	assert.Equal(t, "ab", split)
}

func TestBuilderEmpty(t *testing.T) {
	t.Parallel()

	pattern, err := New().Build()
	require.NoError(t, err)
	assert.Empty(t, pattern)

	pattern, err = New().Literal("").Build()
	require.NoError(t, err)
	assert.Empty(t, pattern)
}

func TestBuilderGroupBalance(t *testing.T) {
	t.Parallel()

	pattern, err := New().Group().EndGroup().Build()
	require.NoError(t, err)
	assert.Equal(t, "()", pattern)

	_, err = New().EndGroup().Build()
	require.ErrorIs(t, err, ErrUnbalancedGroup)

	_, err = New().Group().EndGroup().EndGroup().Build()
	require.ErrorIs(t, err, ErrUnbalancedGroup)
}

func TestBuilderOpenGroupAtBuild(t *testing.T) {
	t.Parallel()

	b := New().Group().Literal("a")
	_, err := b.Build()
	require.ErrorIs(t, err, ErrUnbalancedGroup)
	assert.NoError(t, b.Err(), "open group is a build-time error only")
	assert.Equal(t, 1, b.OpenGroups())

	pattern, err := b.EndGroup().Build()
	require.NoError(t, err)
	assert.Equal(t, "(a)", pattern)
}

func TestBuilderNestedGroups(t *testing.T) {
	t.Parallel()

	pattern, err := New().
		Group().Group().WordChar().ZeroOrMore().EndGroup().EndGroup().
		Build()
	require.NoError(t, err)
	assert.Equal(t, `((\w*))`, pattern)

	pattern, err = New().
		AnchorStart().
		Group().WordChar().OneOrMore().EndGroup().
		Whitespace().Optional().
		Build()
	require.NoError(t, err)
	assert.Equal(t, `^(\w+)\s?`, pattern)

	pattern, err = New().NonCapturingGroup().Literal("ab").EndGroup().Exactly(2).Build()
	require.NoError(t, err)
	assert.Equal(t, `(?:ab){2}`, pattern)
}

func TestBuilderRepeatBounds(t *testing.T) {
	t.Parallel()

	_, err := New().Digit().Repeat(2, 1).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	_, err = New().Digit().Repeat(-1, 2).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	pattern, err := New().Digit().Repeat(2, 5).Build()
	require.NoError(t, err)
	assert.Equal(t, `\d{2,5}`, pattern)

	pattern, err = New().Digit().Repeat(3, 3).Build()
	require.NoError(t, err)
	assert.Equal(t, `\d{3}`, pattern)
}

func TestBuilderRepeatLimitByFlavor(t *testing.T) {
	t.Parallel()

	_, err := New().Digit().Repeat(0, 1001).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	_, err = New().Digit().AtLeast(1001).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	pattern, err := NewWithOptions(Options{Flavor: FlavorPCRE}).Digit().Repeat(0, 1001).Build()
	require.NoError(t, err)
	assert.Equal(t, `\d{0,1001}`, pattern)
}

func TestBuilderNestedRepeatLimit(t *testing.T) {
	t.Parallel()

	_, err := New().Group().Digit().Repeat(100, 100).EndGroup().Repeat(100, 100).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "Repeat", opErr.Op)

	_, err = New().Raw(`\d{100}`).Exactly(100).Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	_, err = New().
		NonCapturingGroup().Group().Digit().Exactly(10).EndGroup().Exactly(10).EndGroup().
		Exactly(20).
		Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)

	pattern, err := New().Group().Digit().Repeat(10, 10).EndGroup().Exactly(100).Build()
	require.NoError(t, err)
	assert.Equal(t, `(\d{10}){100}`, pattern)
	_, err = regexp.Compile(pattern)
	require.NoError(t, err)

	pattern, err = NewWithOptions(Options{Flavor: FlavorPCRE}).
		Group().Digit().Repeat(100, 100).EndGroup().Repeat(100, 100).
		Build()
	require.NoError(t, err)
	assert.Equal(t, `(\d{100}){100}`, pattern)
}

func TestBuilderCountQuantifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b    *Builder
		want string
	}{
		{New().Digit().Exactly(3), `\d{3}`},
		{New().Digit().AtLeast(2), `\d{2,}`},
		{New().WordChar().UpTo(8), `\w{0,8}`},
		{New().Digit().ZeroOrMore(), `\d*`},
		{New().Digit().Optional(), `\d?`},
		{New().Digit().OneOrMore().Lazy(), `\d+?`},
		{New().Digit().ZeroOrMore().Lazy(), `\d*?`},
		{New().Digit().Optional().Lazy(), `\d??`},
		{New().Digit().Repeat(1, 3).Lazy(), `\d{1,3}?`},
	}

	for _, tt := range tests {
		got, err := tt.b.Build()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		_, err = regexp.Compile(got)
		assert.NoError(t, err, "pattern %q", got)
	}

	for _, b := range []*Builder{
		New().Digit().Exactly(-1),
		New().Digit().AtLeast(-1),
		New().Digit().UpTo(-1),
	} {
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidQuantifier)
	}
}

func TestBuilderQuantifierNeedsQuantifiablePredecessor(t *testing.T) {
	t.Parallel()

	cases := map[string]*Builder{
		"empty":        New().OneOrMore(),
		"anchor":       New().AnchorStart().ZeroOrMore(),
		"group open":   New().Group().OneOrMore(),
		"alternation":  New().Literal("a").Or().Optional(),
		"quantifier":   New().Digit().OneOrMore().OneOrMore(),
		"boundary":     New().WordBoundary().OneOrMore(),
		"lazy first":   New().Lazy(),
		"lazy literal": New().Literal("a").Lazy(),
		"lazy twice":   New().Digit().OneOrMore().Lazy().Lazy(),
	}

	for name, b := range cases {
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidQuantifier, name)
	}
}

func TestBuilderQuantifierGroupsMultiCharacterText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b    *Builder
		want string
	}{
		{New().Literal("ab").OneOrMore(), `(?:ab)+`},
		{New().Literal("a").OneOrMore(), `a+`},
		{New().Literal(".").OneOrMore(), `\.+`},
		{New().Literal("é").Optional(), `é?`},
		{New().Literal("a.b").ZeroOrMore(), `(?:a\.b)*`},
		{New().Group().Literal("ab").EndGroup().ZeroOrMore(), `(ab)*`},
		{New().Identifier().OneOrMore(), `(?:[a-zA-Z_]\w*)+`},
		{New().Raw("[a-z]").OneOrMore(), `[a-z]+`},
		{New().Raw("ab").OneOrMore(), `(?:ab)+`},
		{New().Raw("a|b").Optional(), `(?:a|b)?`},
	}

	for _, tt := range tests {
		got, err := tt.b.Build()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	re := regexp.MustCompile("^" + New().Literal("ab").OneOrMore().MustBuild() + "$")
	assert.True(t, re.MatchString("ababab"))
	assert.False(t, re.MatchString("abbb"))
}

func TestBuilderNegation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b    *Builder
		want string
	}{
		{New().Digit().Not().Digit(), `\d\D`},
		{New().Not().WordChar().Digit().WordChar(), `\W\d\w`},
		{New().Not().Whitespace(), `\S`},
		{New().WordBoundary().Not().WordBoundary(), `\b\B`},
		{New().Not().AnyOf("abc"), `[^abc]`},
		{New().Not().Alpha(), `[^a-zA-Z]`},
		{New().Not().Range('0', '9').OneOrMore(), `[^0-9]+`},
	}

	for _, tt := range tests {
		got, err := tt.b.Build()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	cases := map[string]*Builder{
		"literal":  New().Not().Literal("a"),
		"any char": New().Not().AnyChar(),
		"group":    New().Not().Group(),
		"dangling": New().Digit().Not(),
		"double":   New().Not().Not().Digit(),
		"quantify": New().Digit().Not().OneOrMore(),
	}

	for name, b := range cases {
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidNegation, name)
	}
}

func TestBuilderCharClasses(t *testing.T) {
	t.Parallel()

	pattern, err := New().AnyOf(`a-]^\`).Build()
	require.NoError(t, err)
	assert.Equal(t, `[a\-\]\^\\]`, pattern)

	re := regexp.MustCompile("^" + pattern + "$")
	for _, s := range []string{"a", "-", "]", "^", `\`} {
		assert.True(t, re.MatchString(s), "input %q", s)
	}
	assert.False(t, re.MatchString("b"))

	pattern, err = New().AnyOf("0123456789-.()abcdefghijklmnopqrstuvwxyz").Build()
	require.NoError(t, err)
	_, err = regexp.Compile(pattern)
	require.NoError(t, err)

	pattern, err = New().Range('a', 'f').Alpha().AnyChar().Newline().Tab().Build()
	require.NoError(t, err)
	assert.Equal(t, `[a-f][a-zA-Z].\n\t`, pattern)

	_, err = New().AnyOf("").Build()
	require.ErrorIs(t, err, ErrInvalidCharClass)

	_, err = New().Range('z', 'a').Build()
	require.ErrorIs(t, err, ErrInvalidCharClass)
}

func TestBuilderNamedGroups(t *testing.T) {
	t.Parallel()

	pattern, err := New().
		AnchorStart().
		NamedGroup("id").WordChar().OneOrMore().EndGroup().
		Whitespace().Optional().
		Build()
	require.NoError(t, err)
	assert.Equal(t, `^(?P<id>\w+)\s?`, pattern)

	pattern, err = NewWithOptions(Options{Flavor: FlavorPCRE}).NamedGroup("id").Digit().EndGroup().Build()
	require.NoError(t, err)
	assert.Equal(t, `(?<id>\d)`, pattern)

	for _, name := range []string{"", "1x", "a-b", "a b", "ä"} {
		_, err := New().NamedGroup(name).EndGroup().Build()
		assert.ErrorIs(t, err, ErrInvalidGroupName, "name %q", name)
	}

	_, err = New().NamedGroup("x").EndGroup().NamedGroup("x").EndGroup().Build()
	require.ErrorIs(t, err, ErrInvalidGroupName)
}

func TestBuilderAlternation(t *testing.T) {
	t.Parallel()

	pattern, err := New().Literal("cat").Or().Literal("dog").Build()
	require.NoError(t, err)
	assert.Equal(t, "cat|dog", pattern)

	pattern, err = New().Group().Literal("a").Or().Literal("b").EndGroup().OneOrMore().Build()
	require.NoError(t, err)
	assert.Equal(t, "(a|b)+", pattern)
}

func TestBuilderRelaxedAnchors(t *testing.T) {
	t.Parallel()

	pattern, err := New().Literal("a").AnchorStart().AnchorEnd().Literal("b").Build()
	require.NoError(t, err)
	assert.Equal(t, "a^$b", pattern)

	pattern, err = New().StartOfText().Digit().EndOfText().Build()
	require.NoError(t, err)
	assert.Equal(t, `\A\d\z`, pattern)
}

func TestBuilderStrictAnchors(t *testing.T) {
	t.Parallel()

	strict := Options{StrictAnchors: true}

	pattern, err := NewWithOptions(strict).
		AnchorStart().Literal("a").
		Or().
		AnchorStart().Literal("b").AnchorEnd().
		Build()
	require.NoError(t, err)
	assert.Equal(t, "^a|^b$", pattern)

	pattern, err = NewWithOptions(strict).
		Group().AnchorStart().Literal("a").EndGroup().AnchorEnd().
		Build()
	require.NoError(t, err)
	assert.Equal(t, "(^a)$", pattern)

	cases := map[string]*Builder{
		"start after literal":     NewWithOptions(strict).Literal("a").AnchorStart(),
		"literal after end":       NewWithOptions(strict).AnchorEnd().Literal("a"),
		"start in group":          NewWithOptions(strict).Literal("a").Group().AnchorStart(),
		"end leaks out of group":  NewWithOptions(strict).Group().Literal("a").AnchorEnd().EndGroup().Literal("b"),
		"text start after class":  NewWithOptions(strict).Digit().StartOfText(),
		"class after end of text": NewWithOptions(strict).EndOfText().Digit(),
	}

	for name, b := range cases {
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrMisplacedAnchor, name)
	}
}

func TestBuilderStrictAnchorsAllowMatchablePlacements(t *testing.T) {
	t.Parallel()

	strict := Options{StrictAnchors: true}

	pattern, err := NewWithOptions(strict).Group().Literal("a").AnchorEnd().EndGroup().OneOrMore().Build()
	require.NoError(t, err)
	assert.Equal(t, `(a$)+`, pattern)
	assert.True(t, regexp.MustCompile(pattern).MatchString("a"))

	_, err = NewWithOptions(strict).Group().Literal("a").AnchorEnd().EndGroup().OneOrMore().Literal("b").Build()
	require.ErrorIs(t, err, ErrMisplacedAnchor)

	multiline := Options{StrictAnchors: true, Multiline: true}

	pattern, err = NewWithOptions(multiline).Literal("x").Newline().AnchorStart().Literal("b").Build()
	require.NoError(t, err)
	assert.Equal(t, `(?m)x\n^b`, pattern)
	assert.True(t, regexp.MustCompile(pattern).MatchString("x\nb"))

	pattern, err = NewWithOptions(multiline).Literal("a").AnchorEnd().Newline().Literal("b").Build()
	require.NoError(t, err)
	assert.True(t, regexp.MustCompile(pattern).MatchString("a\nb"))

	_, err = NewWithOptions(multiline).Literal("x").StartOfText().Build()
	require.ErrorIs(t, err, ErrMisplacedAnchor)

	_, err = NewWithOptions(multiline).EndOfText().Literal("x").Build()
	require.ErrorIs(t, err, ErrMisplacedAnchor)

	m, err := NewWithOptions(Options{StrictAnchors: true, Flavor: FlavorPCRE}).
		Literal("a").AnchorEnd().Newline().
		Compile()
	require.NoError(t, err)
	assert.True(t, m.MatchString("a\n"))
}

func TestBuilderLookaround(t *testing.T) {
	t.Parallel()

	_, err := New().LookAhead().Build()
	require.ErrorIs(t, err, ErrUnsupportedFlavor)

	_, err = New().NegativeLookBehind().Build()
	require.ErrorIs(t, err, ErrUnsupportedFlavor)

	pcre := Options{Flavor: FlavorPCRE}

	m, err := NewWithOptions(pcre).Literal("foo").LookAhead().Literal("bar").EndGroup().Compile()
	require.NoError(t, err)
	assert.Equal(t, `foo(?=bar)`, m.String())

	found, ok := m.FindString("foobar")
	require.True(t, ok)
	assert.Equal(t, "foo", found)
	assert.False(t, m.MatchString("foobaz"))

	m, err = NewWithOptions(pcre).NegativeLookBehind().Literal("$").EndGroup().Digit().OneOrMore().Compile()
	require.NoError(t, err)
	assert.Equal(t, `(?<!\$)\d+`, m.String())

	found, ok = m.FindString("$5 7")
	require.True(t, ok)
	assert.Equal(t, "7", found)

	_, err = NewWithOptions(pcre).LookAhead().Literal("a").EndGroup().OneOrMore().Build()
	require.ErrorIs(t, err, ErrInvalidQuantifier)
}

func TestBuilderRaw(t *testing.T) {
	t.Parallel()

	pattern, err := New().Raw("[a-z]+").Digit().Build()
	require.NoError(t, err)
	assert.Equal(t, `[a-z]+\d`, pattern)

	for _, expr := range []string{"", "(", "a**", "[z-a]"} {
		_, err := New().Raw(expr).Build()
		assert.ErrorIs(t, err, ErrInvalidRaw, "expr %q", expr)
	}

	_, err = New().Raw(`(?<=a)b`).Build()
	require.ErrorIs(t, err, ErrInvalidRaw)

	pattern, err = NewWithOptions(Options{Flavor: FlavorPCRE}).Raw(`(?<=a)b`).Build()
	require.NoError(t, err)
	assert.Equal(t, `(?<=a)b`, pattern)
}

func TestBuilderInlineFlags(t *testing.T) {
	t.Parallel()

	pattern, err := NewWithOptions(Options{CaseInsensitive: true}).Literal("abc").Build()
	require.NoError(t, err)
	assert.Equal(t, "(?i)abc", pattern)
	assert.True(t, regexp.MustCompile(pattern).MatchString("ABC"))

	pattern, err = NewWithOptions(Options{
		CaseInsensitive: true,
		Multiline:       true,
		DotAll:          true,
	}).AnchorStart().AnyChar().Build()
	require.NoError(t, err)
	assert.Equal(t, "(?ims)^.", pattern)
}

func TestBuilderInvalidOptions(t *testing.T) {
	t.Parallel()

	b := NewWithOptions(Options{Flavor: Flavor(9)}).Digit()
	_, err := b.Build()
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, 0, b.Len())

	_, err = NewWithOptions(Options{MatchTimeout: -1}).Build()
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestBuilderStickyError(t *testing.T) {
	t.Parallel()

	b := New().Digit().Repeat(5, 1).Literal("x").Group()
	require.Error(t, b.Err())
	assert.Equal(t, 1, b.Len())

	var opErr *OpError
	require.True(t, errors.As(b.Err(), &opErr))
	assert.Equal(t, "Repeat", opErr.Op)
	assert.Equal(t, 1, opErr.Index)
	assert.ErrorIs(t, opErr, ErrInvalidQuantifier)

	_, err := b.Build()
	assert.Same(t, b.Err(), err)
	assert.Empty(t, b.String())
	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilderClone(t *testing.T) {
	t.Parallel()

	base := New().AnchorStart().NamedGroup("year").Digit().Exactly(4).EndGroup()
	a := base.Clone().Literal("-").Digit().Exactly(2)
	b := base.Clone().AnchorEnd()

	assert.Equal(t, `^(?P<year>\d{4})-\d{2}`, a.MustBuild())
	assert.Equal(t, `^(?P<year>\d{4})$`, b.MustBuild())
	assert.Equal(t, `^(?P<year>\d{4})`, base.MustBuild())

	_, err := base.Clone().NamedGroup("year").EndGroup().Build()
	require.ErrorIs(t, err, ErrInvalidGroupName)
}

func TestBuilderFragments(t *testing.T) {
	t.Parallel()

	b := New().AnchorStart().Literal("a.").Digit().OneOrMore()
	frags := b.Fragments()
	require.Len(t, frags, 4)

	assert.Equal(t, Fragment{Kind: KindAnchor, Text: "^"}, frags[0])
	assert.Equal(t, Fragment{Kind: KindLiteral, Text: `a\.`}, frags[1])
	assert.Equal(t, Fragment{Kind: KindClass, Text: `\d`}, frags[2])
	assert.Equal(t, Fragment{Kind: KindQuantifier, Text: "+"}, frags[3])

	frags[0].Text = "mutated"
	assert.Equal(t, `^a\.\d+`, b.MustBuild())
}

func TestBuilderReadmeExamples(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\d*\.\d+`, New().Digit().ZeroOrMore().Literal(".").Digit().OneOrMore().MustBuild())

	assert.Equal(t, `\w{0,8}\.(?P<ext>\w{0,3})`, New().
		WordChar().UpTo(8).Literal(".").
		NamedGroup("ext").WordChar().UpTo(3).EndGroup().
		MustBuild())

	phone := New().
		AnchorStart().
		Literal("(").Digit().Exactly(3).Literal(")-").
		Digit().Exactly(3).Literal("-").
		Digit().Exactly(4).
		AnchorEnd().
		MustBuild()
	assert.Equal(t, `^\(\d{3}\)-\d{3}-\d{4}$`, phone)
	assert.True(t, regexp.MustCompile(phone).MatchString("(123)-456-7890"))
	assert.False(t, regexp.MustCompile(phone).MatchString("123-456-7890"))
}
