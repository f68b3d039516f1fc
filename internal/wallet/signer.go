package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKeySigner is a software Signer backed by an in-memory secp256k1 key.
type PrivateKeySigner struct {
	key     *secp256k1.PrivateKey
	address string
}

// NewPrivateKeySigner builds a signer from a hex-encoded 32-byte private key
// (with or without 0x prefix).
func NewPrivateKeySigner(hexKey string) (*PrivateKeySigner, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPrivateKey, len(raw))
	}

	key := secp256k1.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero key", ErrInvalidPrivateKey)
	}

	return newSigner(key), nil
}

// GeneratePrivateKeySigner creates a signer with a fresh random key.
func GeneratePrivateKeySigner() (*PrivateKeySigner, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return newSigner(key), nil
}

func newSigner(key *secp256k1.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		key:     key,
		address: publicKeyToAddress(key.PubKey()),
	}
}

// Address implements [Signer].
func (s *PrivateKeySigner) Address() string {
	return s.address
}

// SignMessage implements [Signer].
func (s *PrivateKeySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compact := ecdsa.SignCompact(s.key, HashPersonalMessage(message), false)

	signature := make([]byte, SignatureSize)
	copy(signature, compact[1:])
	signature[64] = compact[0]
	return signature, nil
}

// HexKey returns the private key as 0x-prefixed hex.
func (s *PrivateKeySigner) HexKey() string {
	return "0x" + hex.EncodeToString(s.key.Serialize())
}
