// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/woozymasta/fluentre"
)

const (
	flagLogLevel      = "log-level"
	flagFlavor        = "flavor"
	flagIgnoreCase    = "ignore-case"
	flagStrictAnchors = "strict-anchors"
	flagMerge         = "merge"
	flagRecipe        = "recipe"
)

// newApp creates the CLI application logging to logger.
func newApp(logger *logrus.Logger) *cli.App {
	return &cli.App{
		Name:  "fluentre",
		Usage: "Build regular expressions from declarative recipes",
		Description: `Recipes are YAML or JSON files listing builder steps:

  options:
    flavor: re2
  steps:
    - anchor_start
    - {op: literal, text: "v"}
    - digit
    - one_or_more

Example:
  fluentre build version.yaml
  fluentre match --recipe version.yaml v1 v22 x3`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "Log level: trace, debug, info, warn, error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  flagFlavor,
				Usage: "Override recipe flavor: re2 or pcre",
			},
			&cli.BoolFlag{
				Name:    flagIgnoreCase,
				Aliases: []string{"i"},
				Usage:   "Force case-insensitive matching",
			},
			&cli.BoolFlag{
				Name:  flagStrictAnchors,
				Usage: "Reject anchors placed where they cannot match",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String(flagLogLevel))
			if err != nil {
				return withStackTrace(err)
			}

			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			buildCommand(logger),
			matchCommand(logger),
			escapeCommand(),
		},
	}
}

// buildCommand returns the build CLI command.
func buildCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Print the pattern of each recipe",
		ArgsUsage: "RECIPE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagMerge,
				Usage: "Concatenate all recipes into one pattern",
			},
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return withStackTrace(fmt.Errorf("build requires at least one recipe file"))
			}

			if c.Bool(flagMerge) {
				rec, err := fluentre.LoadRecipeFiles(paths...)
				if err != nil {
					return withStackTrace(err)
				}

				return printPattern(c, logger, rec, strings.Join(paths, "+"))
			}

			for _, path := range paths {
				rec, err := fluentre.LoadRecipeFile(path)
				if err != nil {
					return withStackTrace(err)
				}

				if err := printPattern(c, logger, rec, path); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// matchCommand returns the match CLI command.
func matchCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Match inputs (arguments or stdin lines) against recipes",
		ArgsUsage: "[INPUT...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     flagRecipe,
				Aliases:  []string{"r"},
				Usage:    "Recipe file; may be repeated",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cache := fluentre.NewMatcherCache()
			matchers := make([]*fluentre.Matcher, 0, len(c.StringSlice(flagRecipe)))
			for _, path := range c.StringSlice(flagRecipe) {
				rec, err := fluentre.LoadRecipeFile(path)
				if err != nil {
					return withStackTrace(err)
				}

				b, err := recipeBuilder(c, logger, rec)
				if err != nil {
					return withStackTrace(fmt.Errorf("%s: %w", path, err))
				}

				m, err := cache.GetBuilder(b)
				if err != nil {
					return withStackTrace(fmt.Errorf("%s: %w", path, err))
				}

				matchers = append(matchers, m)
			}

			logger.WithField("compiled", cache.Len()).Debug("recipes compiled")

			inputs := c.Args().Slice()
			if len(inputs) == 0 {
				lines, err := readLines(c)
				if err != nil {
					return withStackTrace(err)
				}

				inputs = lines
			}

			for _, input := range inputs {
				for _, m := range matchers {
					writeMatch(c, m, input)
				}
			}

			return nil
		},
	}
}

// escapeCommand returns the escape CLI command.
func escapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "escape",
		Usage:     "Print each argument as an escaped literal pattern",
		ArgsUsage: "TEXT...",
		Action: func(c *cli.Context) error {
			for _, text := range c.Args().Slice() {
				pattern, err := fluentre.New().Literal(text).Build()
				if err != nil {
					return withStackTrace(err)
				}

				_, _ = fmt.Fprintln(c.App.Writer, pattern)
			}

			return nil
		},
	}
}

// recipeBuilder applies global flag overrides and replays recipe steps.
func recipeBuilder(c *cli.Context, logger *logrus.Logger, rec *fluentre.Recipe) (*fluentre.Builder, error) {
	if c.IsSet(flagFlavor) {
		flavor, err := fluentre.ParseFlavor(c.String(flagFlavor))
		if err != nil {
			return nil, err
		}

		rec.Options.Flavor = flavor
	}

	if c.Bool(flagIgnoreCase) {
		rec.Options.CaseInsensitive = true
	}

	if c.Bool(flagStrictAnchors) {
		rec.Options.StrictAnchors = true
	}

	rec.Options.Logger = logger
	return rec.Builder()
}

// printPattern builds rec and writes its pattern.
func printPattern(c *cli.Context, logger *logrus.Logger, rec *fluentre.Recipe, source string) error {
	b, err := recipeBuilder(c, logger, rec)
	if err != nil {
		return withStackTrace(fmt.Errorf("%s: %w", source, err))
	}

	pattern, err := b.Build()
	if err != nil {
		return withStackTrace(fmt.Errorf("%s: %w", source, err))
	}

	logger.WithFields(logrus.Fields{
		"recipe":    source,
		"fragments": b.Len(),
	}).Debug("recipe built")

	_, _ = fmt.Fprintln(c.App.Writer, pattern)
	return nil
}

// writeMatch writes one "input<TAB>pattern<TAB>result" line.
func writeMatch(c *cli.Context, m *fluentre.Matcher, input string) {
	groups, ok := m.NamedGroups(input)
	if !ok {
		_, _ = fmt.Fprintf(c.App.Writer, "%s\t%s\tno match\n", input, m)
		return
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+groups[name])
	}

	line := fmt.Sprintf("%s\t%s\tmatch", input, m)
	if len(parts) > 0 {
		line += "\t" + strings.Join(parts, " ")
	}

	_, _ = fmt.Fprintln(c.App.Writer, line)
}

// readLines reads inputs from the app reader, falling back to stdin.
func readLines(c *cli.Context) ([]string, error) {
	r := c.App.Reader
	if r == nil {
		r = os.Stdin
	}

	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, strings.TrimRight(s.Text(), "\r"))
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return lines, nil
}
