package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verify/models"
)

// SignatureVerifier is the authenticity gate of the ingress path. It checks
// that signature was produced over the envelope hash by claimedWallet.
type SignatureVerifier interface {
	Verify(ctx context.Context, metadataHash, signature, claimedWallet string) error
}

// SubmissionService owns the RequestRecord lifecycle.
type SubmissionService interface {
	Create(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error)
	Update(ctx context.Context, wallet, requestID string, req models.SubmitRequest) (models.RequestRecord, error)

	Get(ctx context.Context, wallet, requestID string) (models.RequestRecord, error)
	ListByWallet(ctx context.Context, wallet string) ([]models.RequestRecord, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error)

	SetStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.RequestRecord, error)
	MarkMinted(ctx context.Context, requestID string) error
}

// DecryptService builds the decrypted view of an envelope for an
// authenticated viewer.
type DecryptService interface {
	DecryptMetadata(ctx context.Context, session models.Session, req models.DecryptMetadataRequest) (models.DecryptedView, error)
}

// AuthService implements the wallet challenge login and session tokens.
type AuthService interface {
	IssueChallenge(ctx context.Context, address string) (models.Challenge, error)
	VerifyChallenge(ctx context.Context, resp models.ChallengeResponse) (models.Token, models.Session, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	IsAdmin(address string) bool
}

// KeyService publishes the server's key-wrapping public key.
type KeyService interface {
	ServerPublicKey(ctx context.Context) (models.ServerPublicKey, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.AppBuildInfo
}

// SubmissionServiceWrapper defines middleware composition for
// SubmissionService. Implementations wrap an existing SubmissionService to
// add behavior such as validation.
type SubmissionServiceWrapper interface {
	Wrap(SubmissionService) SubmissionService // returns a decorated SubmissionService applying additional behavior
}
