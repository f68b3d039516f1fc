// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of inbound bodies before they reach
// the services: request IDs, wallet addresses, CIDs, metadata hashes and
// status transitions. Authenticity (signatures, ownership) is decided
// elsewhere.
package validators

import "context"

// Validator validates obj. When fields is non-empty only the named fields
// (see the Field* constants) are checked.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
