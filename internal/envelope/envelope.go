// Package envelope builds, hashes and parses the metadata envelope that
// references every ciphertext of a submission.
//
// The envelope hash is keccak-256 over the RFC 8785 canonical form of the
// envelope JSON. Canonical bytes are also what gets pinned, so the hash of
// the stored blob can be recomputed by anyone holding its CID.
package envelope

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gowebpki/jcs"
	"golang.org/x/crypto/sha3"

	"github.com/MKhiriev/go-doc-verify/models"
)

var (
	// ErrMalformedEnvelope is returned when envelope bytes are not valid JSON
	// or do not describe an envelope.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrHashMismatch is returned when envelope bytes do not hash to the
	// expected value.
	ErrHashMismatch = errors.New("envelope hash mismatch")
)

var hashPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

// Canonicalize returns the RFC 8785 canonical form of raw. Key order and
// whitespace of the input do not affect the result.
func Canonicalize(raw []byte) ([]byte, error) {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return canonical, nil
}

// Hash returns "0x" + hex(keccak256(Canonicalize(raw))).
func Hash(raw []byte) (string, error) {
	canonical, err := Canonicalize(raw)
	if err != nil {
		return "", err
	}
	return hashCanonical(canonical), nil
}

// HashEnvelope hashes the JSON form of env.
func HashEnvelope(env models.Envelope) (string, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return Hash(raw)
}

// VerifyHash recomputes the hash of raw and compares it with expected.
func VerifyHash(raw []byte, expected string) error {
	actual, err := Hash(raw)
	if err != nil {
		return err
	}
	if actual != NormalizeHash(expected) {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, actual)
	}
	return nil
}

// IsHash reports whether s looks like an envelope hash.
func IsHash(s string) bool {
	return hashPattern.MatchString(NormalizeHash(s))
}

// NormalizeHash lower-cases a hex hash.
func NormalizeHash(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SigningMessage is the personal message a wallet signs for an envelope:
// the UTF-8 bytes of its 0x-prefixed hash.
func SigningMessage(hash string) []byte {
	return []byte(NormalizeHash(hash))
}

// Parse decodes envelope bytes fetched from blob storage.
func Parse(raw []byte) (models.Envelope, error) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return env, nil
}

func hashCanonical(canonical []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(canonical)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
