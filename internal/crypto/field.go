// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the document encryption primitives: the
// per-submission AES-256-GCM key, field and file ciphers, and RSA-OAEP
// wrapping of the symmetric key for the server.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/MKhiriev/go-doc-verify/models"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the GCM authentication tag length appended to ciphertext.
	TagSize = 16
)

// SymmetricKey is a raw per-submission AES-256 key. It must be wiped with
// Zero once it is no longer needed and is never printed.
type SymmetricKey []byte

// GenerateKey returns a fresh random key. Every submission gets its own key.
func GenerateKey() (SymmetricKey, error) {
	key := make(SymmetricKey, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Zero overwrites the key bytes in place.
func (k SymmetricKey) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// String implements fmt.Stringer so a key never ends up in logs by accident.
func (k SymmetricKey) String() string {
	return "[redacted]"
}

func newGCM(key SymmetricKey) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func newIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return iv, nil
}

func decodeIV(ivB64 string) ([]byte, error) {
	if ivB64 == "" {
		return nil, ErrMissingIV
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil || len(iv) != IVSize {
		return nil, ErrInvalidIV
	}
	return iv, nil
}

// EncryptField seals plaintext under key with a fresh IV. The returned
// ciphertext has the GCM tag appended; both values are base64.
func EncryptField(key SymmetricKey, plaintext string) (models.EncryptedField, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedField{}, err
	}

	iv, err := newIV()
	if err != nil {
		return models.EncryptedField{}, err
	}

	ciphertext := gcm.Seal(nil, iv, []byte(plaintext), nil)

	return models.EncryptedField{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// DecryptField opens a field sealed by EncryptField. It fails closed: on any
// error no plaintext is returned.
func DecryptField(key SymmetricKey, field models.EncryptedField) (string, error) {
	return DecryptFieldWithFallbackIV(key, field, "")
}

// DecryptFieldWithFallbackIV is DecryptField for envelopes written by legacy
// clients that stored one IV for all fields. fallbackIV is used only when
// the field has no IV of its own.
func DecryptFieldWithFallbackIV(key SymmetricKey, field models.EncryptedField, fallbackIV string) (string, error) {
	ivB64 := field.IV
	if ivB64 == "" {
		ivB64 = fallbackIV
	}
	iv, err := decodeIV(ivB64)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(field.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	if len(ciphertext) < TagSize {
		return "", ErrCiphertextTooShort
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	return string(plaintext), nil
}
