package crypto

//go:generate mockgen -source=wrap.go -destination=../mock/key_unwrapper_mock.go -package=mock

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"
)

// KeyUnwrapper recovers per-submission keys wrapped for the server. It is
// the only component holding the server's private key.
type KeyUnwrapper interface {
	// Unwrap decodes a base64 RSA-OAEP ciphertext and returns the raw key.
	// The caller owns the returned key and must Zero it.
	Unwrap(wrappedBase64 string) (SymmetricKey, error)

	// PublicKeyPEM returns the PKIX PEM of the matching public key, the one
	// clients wrap keys with.
	PublicKeyPEM() string
}

// WrapKey encrypts key for the holder of publicKeyPEM with RSA-OAEP using
// SHA-256 and returns the ciphertext as base64.
func WrapKey(key SymmetricKey, publicKeyPEM string) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKey
	}

	pub, err := ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return "", err
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return "", fmt.Errorf("wrap key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(wrapped), nil
}

// NormalizePEM undoes the escaping PEM keys get when stored in a single-line
// environment variable: literal "\n" sequences and surrounding quotes.
func NormalizePEM(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return strings.TrimSpace(s) + "\n"
}

// ParsePublicKeyPEM parses an RSA public key in PKIX or PKCS#1 form.
func ParsePublicKeyPEM(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(NormalizePEM(publicKeyPEM)))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPEM)
	}

	if pub, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return pub, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", ErrInvalidPEM)
	}
	return pub, nil
}

// ParsePrivateKeyPEM parses an RSA private key in PKCS#1 or PKCS#8 form.
func ParsePrivateKeyPEM(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(NormalizePEM(privateKeyPEM)))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPEM)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", ErrInvalidPEM)
	}
	return key, nil
}

// EncodePublicKeyPEM renders pub as a PKIX PEM block.
func EncodePublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// rsaKeyUnwrapper is the private implementation of [KeyUnwrapper]. The key
// is parsed once and only read afterwards.
type rsaKeyUnwrapper struct {
	key       *rsa.PrivateKey
	publicPEM string
}

// NewKeyUnwrapper parses the server private key. An empty key is an error:
// the server never falls back to a default key.
func NewKeyUnwrapper(privateKeyPEM string) (KeyUnwrapper, error) {
	if strings.TrimSpace(privateKeyPEM) == "" {
		return nil, ErrPrivateKeyNotConfigured
	}

	key, err := ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	publicPEM, err := EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	return &rsaKeyUnwrapper{key: key, publicPEM: publicPEM}, nil
}

// Unwrap implements [KeyUnwrapper].
func (u *rsaKeyUnwrapper) Unwrap(wrappedBase64 string) (SymmetricKey, error) {
	wrapped, err := base64.StdEncoding.DecodeString(wrappedBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %w", ErrUnwrapFailed, err)
	}

	raw, err := rsa.DecryptOAEP(sha256.New(), nil, u.key, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnwrapFailed, err)
	}
	if len(raw) != KeySize {
		SymmetricKey(raw).Zero()
		return nil, fmt.Errorf("%w: %w", ErrUnwrapFailed, ErrInvalidKey)
	}

	return raw, nil
}

// PublicKeyPEM implements [KeyUnwrapper].
func (u *rsaKeyUnwrapper) PublicKeyPEM() string {
	return u.publicPEM
}
