// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseRecipe parses a YAML (or JSON) recipe from reader.
//
// Format:
//
//	options:
//	  flavor: re2
//	  case_insensitive: true
//	steps:
//	  - anchor_start
//	  - {op: literal, text: "/blog/"}
//	  - {op: named_group, name: id}
//	  - digit
//	  - one_or_more
//	  - end_group
//
// Empty input yields an empty recipe. Steps are validated but not built.
func ParseRecipe(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rec Recipe
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return &rec, nil
		}

		return nil, fmt.Errorf("decode recipe: %w", err)
	}

	if err := rec.Options.validate(); err != nil {
		return nil, err
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ParseRecipeString parses a recipe from string input.
func ParseRecipeString(src string) (*Recipe, error) {
	return ParseRecipe(strings.NewReader(src))
}
