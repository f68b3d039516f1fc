package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

func newTestAuthService(admins ...string) AuthService {
	return NewAuthService(config.App{
		TokenSignKey:      "test-sign-key",
		TokenIssuer:       "go-doc-verify-test",
		TokenDuration:     time.Hour,
		ChallengeDuration: 5 * time.Minute,
		AdminWallets:      admins,
	}, logger.Nop())
}

func answerChallenge(t *testing.T, signer wallet.Signer, challenge models.Challenge) models.ChallengeResponse {
	t.Helper()
	sig, err := signer.SignMessage(context.Background(), []byte(challenge.Message))
	require.NoError(t, err)
	return models.ChallengeResponse{Token: challenge.Token, Signature: wallet.EncodeSignature(sig)}
}

func TestAuthService_ChallengeFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()
	signer := newSigner(t)

	challenge, err := svc.IssueChallenge(ctx, signer.Address())
	require.NoError(t, err)
	assert.Equal(t, wallet.NormalizeAddress(signer.Address()), challenge.Address)
	assert.Contains(t, challenge.Message, challenge.Address)
	assert.True(t, challenge.ExpiresAt.After(time.Now()))

	token, session, err := svc.VerifyChallenge(ctx, answerChallenge(t, signer, challenge))
	require.NoError(t, err)
	assert.Equal(t, challenge.Address, session.Address)
	assert.False(t, session.IsAdmin)
	assert.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, challenge.Address, parsed.Wallet())
}

func TestAuthService_ChallengeCannotBeReplayed(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()
	signer := newSigner(t)

	challenge, err := svc.IssueChallenge(ctx, signer.Address())
	require.NoError(t, err)
	resp := answerChallenge(t, signer, challenge)

	_, _, err = svc.VerifyChallenge(ctx, resp)
	require.NoError(t, err)

	_, _, err = svc.VerifyChallenge(ctx, resp)
	assert.ErrorIs(t, err, ErrChallengeReused)
}

func TestAuthService_ChallengeSignedByAnotherWallet(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	challenge, err := svc.IssueChallenge(ctx, newSigner(t).Address())
	require.NoError(t, err)

	_, _, err = svc.VerifyChallenge(ctx, answerChallenge(t, newSigner(t), challenge))
	assert.ErrorIs(t, err, ErrChallengeInvalid)
}

func TestAuthService_VerifyChallenge_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()
	signer := newSigner(t)

	challenge, err := svc.IssueChallenge(ctx, signer.Address())
	require.NoError(t, err)

	t.Run("malformed signature", func(t *testing.T) {
		_, _, err := svc.VerifyChallenge(ctx, models.ChallengeResponse{Token: challenge.Token, Signature: "0x1234"})
		assert.ErrorIs(t, err, ErrInvalidSignatureFormat)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.VerifyChallenge(ctx, models.ChallengeResponse{Token: "not.a.jwt", Signature: "0x1234"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("session token used as challenge", func(t *testing.T) {
		session, err := utils.GenerateJWTToken(utils.JWTParams{
			Issuer:   "go-doc-verify-test",
			Subject:  challenge.Address,
			Kind:     models.TokenKindSession,
			ID:       "n-1",
			Duration: time.Minute,
			SignKey:  "test-sign-key",
		})
		require.NoError(t, err)

		_, _, err = svc.VerifyChallenge(ctx, models.ChallengeResponse{Token: session.SignedString, Signature: "0x1234"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("challenge token used as session", func(t *testing.T) {
		_, err := svc.ParseToken(ctx, challenge.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_IssueChallenge_InvalidAddress(t *testing.T) {
	_, err := newTestAuthService().IssueChallenge(context.Background(), "0x123")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_IsAdmin(t *testing.T) {
	admin := newSigner(t)
	svc := newTestAuthService("  ", "not-a-wallet", admin.Address())

	assert.True(t, svc.IsAdmin(admin.Address()))
	assert.False(t, svc.IsAdmin(newSigner(t).Address()))

	ctx := context.Background()
	challenge, err := svc.IssueChallenge(ctx, admin.Address())
	require.NoError(t, err)
	_, session, err := svc.VerifyChallenge(ctx, answerChallenge(t, admin, challenge))
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
}

func TestChallengeMessage(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	msg := ChallengeMessage("0xABCDEFabcdefABCDEFabcdefABCDEFabcdefABCD", "nonce-1", expires)

	assert.Equal(t, "Sign in to go-doc-verify\n\nAddress: 0xabcdefabcdefabcdefabcdefabcdefabcdefabcd\nNonce: nonce-1\nExpires: 2026-01-02T02:04:05Z", msg)
}
