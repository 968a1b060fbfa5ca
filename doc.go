// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

/*
Package fluentre builds regular expression patterns from chained method calls.

Every builder call appends escaped or validated fragments and returns the
same builder; the rendered pattern is ready for the regexp package (RE2
flavor) or for github.com/dlclark/regexp2 (PCRE flavor).

	pattern, err := fluentre.New().
		AnchorStart().
		Literal("/blog/").
		NamedGroup("id").Digit().OneOrMore().EndGroup().
		AnchorEnd().
		Build()
	// pattern == `^/blog/(?P<id>\d+)$`

Basic flow:
  - create builder (`New` / `NewWithOptions`)
  - append elements (`Literal`, `Digit`, `AnyOf`, `Glob`, ...)
  - repeat the preceding element (`OneOrMore`, `Repeat`, `Lazy`, ...)
  - group and branch (`Group`, `NamedGroup`, `EndGroup`, `Or`, `Either`)
  - render (`Build`) or compile (`Compile`)

Errors are detected by the call that introduces them and kept by the
builder: later calls become no-ops and `Build` / `Err` return the first
error as `*OpError` wrapping one of the sentinel errors. Unclosed groups
are reported by `Build`.

Builders can also be replayed from YAML or JSON recipes
(`ParseRecipe`, `LoadRecipeFile`), and compiled matchers can be shared
through `MatcherCache`.
*/
package fluentre
