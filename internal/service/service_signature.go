package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
)

type signatureVerifier struct {
	logger *logger.Logger
}

// NewSignatureVerifier returns the verifier used on the create and update
// paths.
func NewSignatureVerifier(logger *logger.Logger) SignatureVerifier {
	return &signatureVerifier{logger: logger}
}

// Verify recovers the signer of the personal message for metadataHash and
// compares it with claimedWallet, case-insensitively.
//
// Returns:
//   - ErrInvalidSignatureFormat if the signature cannot be decoded or no
//     public key can be recovered from it.
//   - ErrSignatureMismatch if the recovered address differs from claimedWallet.
func (v *signatureVerifier) Verify(ctx context.Context, metadataHash, signature, claimedWallet string) error {
	log := logger.FromContext(ctx)

	sig, err := wallet.DecodeSignature(signature)
	if err != nil {
		log.Debug().Err(err).Msg("signature could not be decoded")
		return fmt.Errorf("%w: %w", ErrInvalidSignatureFormat, err)
	}

	recovered, err := wallet.RecoverAddress(envelope.SigningMessage(metadataHash), sig)
	if err != nil {
		log.Debug().Err(err).Msg("signer could not be recovered")
		return fmt.Errorf("%w: %w", ErrInvalidSignatureFormat, err)
	}

	if !wallet.SameAddress(recovered, claimedWallet) {
		log.Warn().
			Str("claimed", wallet.NormalizeAddress(claimedWallet)).
			Str("recovered", recovered).
			Msg("signature does not belong to requester")
		return ErrSignatureMismatch
	}

	return nil
}
