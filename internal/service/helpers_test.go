// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
)

var (
	rsaOnce       sync.Once
	rsaPrivatePEM string
	rsaPublicPEM  string
)

// serverKeys returns one RSA key pair shared by the whole test binary.
func serverKeys(t *testing.T) (privatePEM, publicPEM string) {
	t.Helper()
	rsaOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		rsaPrivatePEM = string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
		rsaPublicPEM, err = crypto.EncodePublicKeyPEM(&key.PublicKey)
		require.NoError(t, err)
	})
	return rsaPrivatePEM, rsaPublicPEM
}

func newUnwrapper(t *testing.T) crypto.KeyUnwrapper {
	t.Helper()
	privatePEM, _ := serverKeys(t)
	u, err := crypto.NewKeyUnwrapper(privatePEM)
	require.NoError(t, err)
	return u
}

func newSigner(t *testing.T) *wallet.PrivateKeySigner {
	t.Helper()
	s, err := wallet.GeneratePrivateKeySigner()
	require.NoError(t, err)
	return s
}

// signHash signs the personal message of an envelope hash the way the
// client pipeline does.
func signHash(t *testing.T, signer wallet.Signer, hash string) string {
	t.Helper()
	sig, err := signer.SignMessage(context.Background(), envelope.SigningMessage(hash))
	require.NoError(t, err)
	return wallet.EncodeSignature(sig)
}

func newMemoryStore(t *testing.T) *blobstore.BadgerStore {
	t.Helper()
	s, err := blobstore.NewBadgerStore("", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testHash(b byte) string {
	return "0x" + strings.Repeat(string("0123456789abcdef"[b%16]), 64)
}

func mustCID(t *testing.T, data string) string {
	t.Helper()
	c, err := blobstore.ComputeCID([]byte(data))
	require.NoError(t, err)
	return c
}
