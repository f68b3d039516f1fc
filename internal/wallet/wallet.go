// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package wallet implements Ethereum-style personal message signatures:
// signing with a secp256k1 key, recovering the signer address and
// comparing addresses.
//
// Signatures are 65 bytes in R || S || V order with V = 27 or 28, the
// format wallets return from personal_sign.
package wallet

//go:generate mockgen -source=wallet.go -destination=../mock/signer_mock.go -package=mock

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// SignatureSize is the length of an R || S || V signature.
const SignatureSize = 65

var (
	// ErrInvalidSignature is returned when a signature cannot be decoded or
	// no public key can be recovered from it.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidPrivateKey is returned for malformed private key material.
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Signer is the only capability the pipeline needs from a wallet. Any
// implementation (software key, hardware wallet bridge, test stub) fits.
type Signer interface {
	// Address returns the 0x-prefixed address of the signing key.
	Address() string

	// SignMessage signs message as an Ethereum personal message.
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// HashPersonalMessage returns keccak256("\x19Ethereum Signed Message:\n" +
// len(message) + message).
func HashPersonalMessage(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))))
	h.Write(message)
	return h.Sum(nil)
}

// RecoverAddress returns the address whose key produced signature over the
// personal message.
func RecoverAddress(message, signature []byte) (string, error) {
	if len(signature) != SignatureSize {
		return "", fmt.Errorf("%w: length %d", ErrInvalidSignature, len(signature))
	}

	v := signature[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return "", fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, signature[64])
	}

	compact := make([]byte, SignatureSize)
	compact[0] = v
	copy(compact[1:], signature[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, HashPersonalMessage(message))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return publicKeyToAddress(pub), nil
}

// EncodeSignature renders a signature as 0x-prefixed hex.
func EncodeSignature(signature []byte) string {
	return "0x" + hex.EncodeToString(signature)
}

// DecodeSignature parses a 0x-prefixed hex signature.
func DecodeSignature(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if len(raw) != SignatureSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(raw))
	}
	return raw, nil
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lower-cases an address for storage and comparison.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameAddress compares two addresses case-insensitively, so checksummed and
// lower-case forms are equal.
func SameAddress(a, b string) bool {
	return IsAddress(a) && IsAddress(b) && strings.EqualFold(a, b)
}

func publicKeyToAddress(pub *secp256k1.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub.SerializeUncompressed()[1:])
	return "0x" + hex.EncodeToString(h.Sum(nil)[12:])
}
