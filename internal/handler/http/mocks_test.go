package http

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/validators"
	"github.com/MKhiriev/go-doc-verify/models"
)

// ─────────────────────────────────────────────
// Service mocks: a nil function field means the method must not be called.
// ─────────────────────────────────────────────

type mockAuthService struct {
	issueChallengeFn  func(ctx context.Context, address string) (models.Challenge, error)
	verifyChallengeFn func(ctx context.Context, resp models.ChallengeResponse) (models.Token, models.Session, error)
	parseTokenFn      func(ctx context.Context, tokenString string) (models.Token, error)
	admins            map[string]bool
}

func (m *mockAuthService) IssueChallenge(ctx context.Context, address string) (models.Challenge, error) {
	return m.issueChallengeFn(ctx, address)
}

func (m *mockAuthService) VerifyChallenge(ctx context.Context, resp models.ChallengeResponse) (models.Token, models.Session, error) {
	return m.verifyChallengeFn(ctx, resp)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

func (m *mockAuthService) IsAdmin(address string) bool {
	return m.admins[address]
}

type mockSubmissionService struct {
	createFn       func(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error)
	updateFn       func(ctx context.Context, wallet, requestID string, req models.SubmitRequest) (models.RequestRecord, error)
	getFn          func(ctx context.Context, wallet, requestID string) (models.RequestRecord, error)
	listByWalletFn func(ctx context.Context, wallet string) ([]models.RequestRecord, error)
	listByStatusFn func(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error)
	setStatusFn    func(ctx context.Context, requestID string, status models.RequestStatus) (models.RequestRecord, error)
	markMintedFn   func(ctx context.Context, requestID string) error
}

func (m *mockSubmissionService) Create(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
	return m.createFn(ctx, req)
}

func (m *mockSubmissionService) Update(ctx context.Context, wallet, requestID string, req models.SubmitRequest) (models.RequestRecord, error) {
	return m.updateFn(ctx, wallet, requestID, req)
}

func (m *mockSubmissionService) Get(ctx context.Context, wallet, requestID string) (models.RequestRecord, error) {
	return m.getFn(ctx, wallet, requestID)
}

func (m *mockSubmissionService) ListByWallet(ctx context.Context, wallet string) ([]models.RequestRecord, error) {
	return m.listByWalletFn(ctx, wallet)
}

func (m *mockSubmissionService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error) {
	return m.listByStatusFn(ctx, status)
}

func (m *mockSubmissionService) SetStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.RequestRecord, error) {
	return m.setStatusFn(ctx, requestID, status)
}

func (m *mockSubmissionService) MarkMinted(ctx context.Context, requestID string) error {
	return m.markMintedFn(ctx, requestID)
}

type mockDecryptService struct {
	decryptFn func(ctx context.Context, session models.Session, req models.DecryptMetadataRequest) (models.DecryptedView, error)
}

func (m *mockDecryptService) DecryptMetadata(ctx context.Context, session models.Session, req models.DecryptMetadataRequest) (models.DecryptedView, error) {
	return m.decryptFn(ctx, session, req)
}

type mockKeyService struct {
	key models.ServerPublicKey
	err error
}

func (m *mockKeyService) ServerPublicKey(_ context.Context) (models.ServerPublicKey, error) {
	return m.key, m.err
}

type mockAppInfoService struct {
	info models.AppBuildInfo
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) models.AppBuildInfo {
	return m.info
}

// ─────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────

const (
	testWallet = "0x1111111111111111111111111111111111111111"
	testAdmin  = "0x2222222222222222222222222222222222222222"
)

func newHandlerWithServices(t *testing.T, services *service.Services) *Handler {
	t.Helper()
	if services.AppInfoService == nil {
		services.AppInfoService = &mockAppInfoService{info: models.AppBuildInfo{Version: "test-version"}}
	}
	return &Handler{
		services:  services,
		validator: validators.NewRequestValidator(),
		logger:    logger.Nop(),
	}
}

// sessionToken is what the auth mock returns for "valid-<wallet>" tokens.
func sessionToken(wallet string) models.Token {
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Kind: models.TokenKindSession,
	}
	return models.Token{Claims: claims, SignedString: "valid-" + wallet}
}

// sessionAuth accepts "valid-<wallet>" bearer tokens and treats testAdmin as
// admin.
func sessionAuth() *mockAuthService {
	return &mockAuthService{
		parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
			const prefix = "valid-"
			if len(tokenString) <= len(prefix) || tokenString[:len(prefix)] != prefix {
				return models.Token{}, service.ErrInvalidToken
			}
			return sessionToken(tokenString[len(prefix):]), nil
		},
		admins: map[string]bool{testAdmin: true},
	}
}

func bearer(wallet string) string {
	return "Bearer valid-" + wallet
}
