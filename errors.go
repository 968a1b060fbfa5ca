// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"errors"
	"fmt"
)

// Sentinel errors for fluentre operations.
var (
	// ErrInvalidQuantifier indicates bad repeat bounds or a quantifier with nothing to repeat.
	ErrInvalidQuantifier = errors.New("invalid quantifier")
	// ErrUnbalancedGroup indicates a group closed without being opened or left open at build.
	ErrUnbalancedGroup = errors.New("unbalanced group")
	// ErrMisplacedAnchor indicates an anchor in a position rejected by strict anchor policy.
	ErrMisplacedAnchor = errors.New("misplaced anchor")
	// ErrInvalidNegation indicates Not applied to a non-invertible element or left dangling.
	ErrInvalidNegation = errors.New("invalid negation")
	// ErrInvalidGroupName indicates malformed or duplicate capture group name.
	ErrInvalidGroupName = errors.New("invalid group name")
	// ErrInvalidCharClass indicates empty or malformed character class input.
	ErrInvalidCharClass = errors.New("invalid character class")
	// ErrInvalidGlob indicates malformed glob input.
	ErrInvalidGlob = errors.New("invalid glob")
	// ErrEmptyAlternation indicates alternation without alternatives.
	ErrEmptyAlternation = errors.New("empty alternation")
	// ErrInvalidRaw indicates raw expression rejected by the flavor parser.
	ErrInvalidRaw = errors.New("invalid raw expression")
	// ErrUnsupportedFlavor indicates construct or flavor not supported by the target engine.
	ErrUnsupportedFlavor = errors.New("unsupported flavor")
	// ErrInvalidStep indicates malformed recipe step.
	ErrInvalidStep = errors.New("invalid recipe step")
	// ErrInvalidOptions indicates malformed builder options.
	ErrInvalidOptions = errors.New("invalid options")
)

// OpError records the builder operation that introduced an error.
type OpError struct {
	// Err is the underlying error, usually wrapping one of the sentinels.
	Err error
	// Op is the builder method name.
	Op string
	// Index is the fragment position at which the operation was applied.
	Index int
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s at fragment %d: %v", e.Op, e.Index, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
