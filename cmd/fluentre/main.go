// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

// Package main provides the fluentre CLI for building and trying regex recipes.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	app := newApp(logger)
	if err := app.Run(os.Args); err != nil {
		logger.Error(err.Error())
		if stack := errorStack(err); stack != "" {
			logger.Trace(stack)
		}

		os.Exit(1)
	}
}
