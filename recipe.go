// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Recipe is a declarative list of builder steps.
type Recipe struct {
	// Options are applied to the builder replaying the steps.
	Options Options `json:"options" yaml:"options"`
	// Steps are builder calls in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one builder call of a recipe.
//
// In YAML a step without arguments may be written as a bare operation
// name ("digit") instead of a mapping ({op: digit}).
type Step struct {
	// Min and Max are "repeat" bounds.
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`
	// Count is the argument of "exactly", "at_least" and "up_to".
	Count *int `json:"count,omitempty" yaml:"count,omitempty"`
	// Op is the snake_case builder operation name.
	Op string `json:"op" yaml:"op"`
	// Text is the argument of "literal", "raw", "glob" and "any_of".
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	// Name is the "named_group" name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// From and To are single-character "range" bounds.
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
	// Alternatives are step lists of "either".
	Alternatives [][]Step `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// stepFields lists mapping keys a step accepts.
var stepFields = map[string]struct{}{
	"op":           {},
	"text":         {},
	"name":         {},
	"min":          {},
	"max":          {},
	"count":        {},
	"from":         {},
	"to":           {},
	"alternatives": {},
}

// UnmarshalYAML accepts a bare operation name or a step mapping.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = Step{Op: node.Value}
		return nil
	}

	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if _, ok := stepFields[key.Value]; !ok {
				return fmt.Errorf("%w: line %d: unknown field %q", ErrInvalidStep, key.Line, key.Value)
			}
		}
	}

	type plain Step
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*s = Step(p)
	return nil
}

// Builder replays recipe steps onto a new builder.
func (r *Recipe) Builder() (*Builder, error) {
	b := NewWithOptions(r.Options)
	if err := b.Err(); err != nil {
		return nil, err
	}

	if err := applySteps(b, r.Steps); err != nil {
		return nil, err
	}

	return b, nil
}

// Build replays recipe steps and renders the pattern.
func (r *Recipe) Build() (string, error) {
	b, err := r.Builder()
	if err != nil {
		return "", err
	}

	return b.Build()
}

// Compile replays recipe steps and compiles the pattern.
func (r *Recipe) Compile() (*Matcher, error) {
	b, err := r.Builder()
	if err != nil {
		return nil, err
	}

	return b.Compile()
}

// Validate checks that every step names a known operation with its arguments.
func (r *Recipe) Validate() error {
	return validateSteps(r.Steps)
}

// applySteps replays steps and reports the first failing step by index.
func applySteps(b *Builder, steps []Step) error {
	for i := range steps {
		if err := steps[i].apply(b); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, steps[i].Op, err)
		}

		if err := b.Err(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, steps[i].Op, err)
		}
	}

	return nil
}

// validateSteps checks steps recursively without building.
func validateSteps(steps []Step) error {
	for i := range steps {
		if err := steps[i].validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, steps[i].Op, err)
		}
	}

	return nil
}

// stepOps maps normalized operation names to builder calls without arguments.
var stepOps = map[string]func(*Builder) *Builder{
	"any_char":             (*Builder).AnyChar,
	"digit":                (*Builder).Digit,
	"word_char":            (*Builder).WordChar,
	"whitespace":           (*Builder).Whitespace,
	"alpha":                (*Builder).Alpha,
	"newline":              (*Builder).Newline,
	"tab":                  (*Builder).Tab,
	"identifier":           (*Builder).Identifier,
	"not":                  (*Builder).Not,
	"one_or_more":          (*Builder).OneOrMore,
	"zero_or_more":         (*Builder).ZeroOrMore,
	"optional":             (*Builder).Optional,
	"lazy":                 (*Builder).Lazy,
	"group":                (*Builder).Group,
	"non_capturing_group":  (*Builder).NonCapturingGroup,
	"look_ahead":           (*Builder).LookAhead,
	"negative_look_ahead":  (*Builder).NegativeLookAhead,
	"look_behind":          (*Builder).LookBehind,
	"negative_look_behind": (*Builder).NegativeLookBehind,
	"end_group":            (*Builder).EndGroup,
	"or":                   (*Builder).Or,
	"anchor_start":         (*Builder).AnchorStart,
	"anchor_end":           (*Builder).AnchorEnd,
	"start_of_text":        (*Builder).StartOfText,
	"end_of_text":          (*Builder).EndOfText,
	"word_boundary":        (*Builder).WordBoundary,
}

// normalizeOp converts "AnchorStart", "anchor-start" and "anchor_start" forms to snake_case.
func normalizeOp(op string) string {
	op = strings.TrimSpace(op)
	var b strings.Builder
	b.Grow(len(op) + 4)
	for i := 0; i < len(op); i++ {
		c := op[i]
		switch {
		case c == '-' || c == ' ':
			b.WriteByte('_')
		case c >= 'A' && c <= 'Z':
			if i > 0 && op[i-1] != '_' && op[i-1] != '-' {
				b.WriteByte('_')
			}
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// validate checks operation name and required arguments.
func (s *Step) validate() error {
	op := normalizeOp(s.Op)
	if _, ok := stepOps[op]; ok {
		return nil
	}

	switch op {
	case "literal", "raw", "glob", "any_of":
		if s.Text == "" {
			return fmt.Errorf("%w: %s requires text", ErrInvalidStep, op)
		}
	case "named_group":
		if s.Name == "" {
			return fmt.Errorf("%w: named_group requires name", ErrInvalidStep)
		}
	case "repeat":
		if s.Min == nil || s.Max == nil {
			return fmt.Errorf("%w: repeat requires min and max", ErrInvalidStep)
		}
	case "exactly", "at_least", "up_to":
		if s.Count == nil {
			return fmt.Errorf("%w: %s requires count", ErrInvalidStep, op)
		}
	case "range":
		if utf8.RuneCountInString(s.From) != 1 || utf8.RuneCountInString(s.To) != 1 {
			return fmt.Errorf("%w: range requires single-character from and to", ErrInvalidStep)
		}
	case "either":
		if len(s.Alternatives) == 0 {
			return fmt.Errorf("%w: either requires alternatives", ErrInvalidStep)
		}

		for i := range s.Alternatives {
			if err := validateSteps(s.Alternatives[i]); err != nil {
				return fmt.Errorf("alternative %d: %w", i, err)
			}
		}
	case "":
		return fmt.Errorf("%w: missing op", ErrInvalidStep)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidStep, s.Op)
	}

	return nil
}

// apply replays one step onto b.
func (s *Step) apply(b *Builder) error {
	if err := s.validate(); err != nil {
		return err
	}

	op := normalizeOp(s.Op)
	if call, ok := stepOps[op]; ok {
		call(b)
		return nil
	}

	switch op {
	case "literal":
		b.Literal(s.Text)
	case "raw":
		b.Raw(s.Text)
	case "glob":
		b.Glob(s.Text)
	case "any_of":
		b.AnyOf(s.Text)
	case "named_group":
		b.NamedGroup(s.Name)
	case "repeat":
		b.Repeat(*s.Min, *s.Max)
	case "exactly":
		b.Exactly(*s.Count)
	case "at_least":
		b.AtLeast(*s.Count)
	case "up_to":
		b.UpTo(*s.Count)
	case "range":
		lo, _ := utf8.DecodeRuneInString(s.From)
		hi, _ := utf8.DecodeRuneInString(s.To)
		b.Range(lo, hi)
	case "either":
		alts := make([]*Builder, 0, len(s.Alternatives))
		for i := range s.Alternatives {
			alt := NewWithOptions(b.opts)
			if err := applySteps(alt, s.Alternatives[i]); err != nil {
				return fmt.Errorf("alternative %d: %w", i, err)
			}

			alts = append(alts, alt)
		}

		b.Either(alts...)
	}

	return nil
}
