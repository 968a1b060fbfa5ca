// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"os"
)

// LoadRecipeFile reads and parses a recipe from a file.
func LoadRecipeFile(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rec, err := ParseRecipe(f)
	if err != nil {
		return nil, fmt.Errorf("parse recipe file %s: %w", path, err)
	}

	return rec, nil
}

// LoadRecipeFiles reads recipes and concatenates their steps in the given order.
//
// Options are taken from the first file.
func LoadRecipeFiles(paths ...string) (*Recipe, error) {
	out := &Recipe{}
	for i, path := range paths {
		rec, err := LoadRecipeFile(path)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			out.Options = rec.Options
		}

		out.Steps = MergeSteps(out.Steps, rec.Steps)
	}

	return out, nil
}
