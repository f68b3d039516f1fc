// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client runtime.
//
// It dispatches subcommands to the client services and prints their results
// as JSON. Progress and diagnostics go to the logger, never to the output.
package client
