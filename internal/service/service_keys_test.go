package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/models"
)

func TestKeyService_ServerPublicKey(t *testing.T) {
	_, publicPEM := serverKeys(t)

	key, err := NewKeyService(newUnwrapper(t)).ServerPublicKey(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KeyAlgorithmRSAOAEP256, key.Algorithm)
	assert.Equal(t, crypto.NormalizePEM(publicPEM), crypto.NormalizePEM(key.PublicKey))

	_, err = crypto.ParsePublicKeyPEM(key.PublicKey)
	assert.NoError(t, err)
}

func TestKeyService_NotConfigured(t *testing.T) {
	_, err := NewKeyService(nil).ServerPublicKey(context.Background())

	assert.ErrorIs(t, err, crypto.ErrPrivateKeyNotConfigured)
}
