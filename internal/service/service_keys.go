package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/models"
)

type keyService struct {
	unwrapper crypto.KeyUnwrapper
}

func NewKeyService(unwrapper crypto.KeyUnwrapper) KeyService {
	return &keyService{unwrapper: unwrapper}
}

// ServerPublicKey returns the PEM public key clients wrap submission keys
// for.
func (s *keyService) ServerPublicKey(ctx context.Context) (models.ServerPublicKey, error) {
	if s.unwrapper == nil {
		return models.ServerPublicKey{}, crypto.ErrPrivateKeyNotConfigured
	}

	return models.ServerPublicKey{
		PublicKey: s.unwrapper.PublicKeyPEM(),
		Algorithm: models.KeyAlgorithmRSAOAEP256,
	}, nil
}
