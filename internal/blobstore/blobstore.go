// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package blobstore provides content-addressed storage for ciphertext blobs.
//
// Every blob is addressed by its CID. Blobs are immutable: pinning different
// bytes always yields a different CID, so callers never coordinate writes.
// Two backends are available, a local badger store and an IPFS node reached
// through the Kubo RPC API, and either can be wrapped with an LRU read cache.
package blobstore

//go:generate mockgen -source=blobstore.go -destination=../mock/blob_store_mock.go -package=mock

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	// ErrNotFound is returned when a CID cannot be resolved.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidCID is returned for strings that do not parse as a CID.
	ErrInvalidCID = errors.New("invalid cid")
	// ErrCIDMismatch is returned when stored bytes do not hash to their CID.
	ErrCIDMismatch = errors.New("blob content does not match cid")
	// ErrUnavailable is returned when the storage backend cannot be reached
	// or answers with an unexpected error.
	ErrUnavailable = errors.New("blob storage unavailable")
)

// Store is the content-addressed storage collaborator.
type Store interface {
	// Pin stores data and returns its CID.
	Pin(ctx context.Context, data []byte) (string, error)

	// Fetch returns the bytes addressed by cid, or ErrNotFound.
	Fetch(ctx context.Context, cid string) ([]byte, error)

	// Unpin releases cid. Unpinning an unknown CID is not an error; the
	// operation is best-effort by contract.
	Unpin(ctx context.Context, cid string) error
}

var cidPrefix = cid.Prefix{
	Version:  1,
	Codec:    cid.Raw,
	MhType:   multihash.SHA2_256,
	MhLength: -1,
}

// ComputeCID returns the CIDv1 (raw codec, sha2-256) of data.
func ComputeCID(data []byte) (string, error) {
	c, err := cidPrefix.Sum(data)
	if err != nil {
		return "", fmt.Errorf("compute cid: %w", err)
	}
	return c.String(), nil
}

// ParseCID validates s and returns its canonical string form.
func ParseCID(s string) (string, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCID, err)
	}
	return c.String(), nil
}
