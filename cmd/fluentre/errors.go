// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package main

import (
	"errors"

	goerrors "github.com/go-errors/errors"
)

// withStackTrace wraps err with the caller stack; nil stays nil.
func withStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// errorStack returns the innermost recorded stack of err, or "".
func errorStack(err error) string {
	var stacked *goerrors.Error
	if !errors.As(err, &stacked) {
		return ""
	}

	return stacked.ErrorStack()
}
