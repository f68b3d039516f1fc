// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// errNoServersAreCreated is returned when handlers carry neither an
	// HTTP router nor a gRPC health handler.
	errNoServersAreCreated = errors.New("no servers are created: handlers have no transport")
	// errListen wraps a failure to bind a configured address.
	errListen = errors.New("error listening on address")
)
