package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// usedChallengeCapacity bounds the number of remembered challenge nonces.
const usedChallengeCapacity = 100_000

// authService is the concrete implementation of AuthService.
// A wallet proves control of its address by signing a one-time challenge;
// the server then issues a session JWT for it.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a session token remains valid.
	tokenDuration time.Duration

	// challengeDuration controls how long a challenge can be answered.
	challengeDuration time.Duration

	// adminWallets holds normalized admin addresses.
	adminWallets map[string]struct{}

	// usedChallenges remembers answered challenge nonces until they expire,
	// so a signed challenge opens exactly one session.
	usedChallenges gcache.Cache
	mu             sync.Mutex

	nonces *utils.UUIDGenerator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with token
// parameters and the admin list from cfg.
//
// The returned service is safe for concurrent use.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminWallets))
	for _, a := range cfg.AdminWallets {
		if wallet.IsAddress(a) {
			admins[wallet.NormalizeAddress(a)] = struct{}{}
		} else {
			logger.Warn().Str("address", a).Msg("ignoring malformed admin wallet")
		}
	}

	return &authService{
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		challengeDuration: cfg.ChallengeDuration,
		adminWallets:      admins,
		usedChallenges:    gcache.New(usedChallengeCapacity).LRU().Build(),
		nonces:            utils.NewUUIDGenerator(""),
		logger:            logger,
	}
}

// IssueChallenge creates a login challenge for address. The challenge token
// is a short-lived JWT whose jti is the nonce embedded in the message the
// wallet has to sign.
func (a *authService) IssueChallenge(ctx context.Context, address string) (models.Challenge, error) {
	log := logger.FromContext(ctx)

	if !wallet.IsAddress(address) {
		log.Debug().Str("address", address).Msg("challenge requested for malformed address")
		return models.Challenge{}, ErrInvalidDataProvided
	}
	address = wallet.NormalizeAddress(address)

	token, err := utils.GenerateJWTToken(utils.JWTParams{
		Issuer:   a.tokenIssuer,
		Subject:  address,
		Kind:     models.TokenKindChallenge,
		ID:       a.nonces.Generate(),
		Duration: a.challengeDuration,
		SignKey:  a.tokenSignKey,
	})
	if err != nil {
		log.Err(err).Msg("challenge token creation failed")
		return models.Challenge{}, fmt.Errorf("challenge token creation failed: %w", err)
	}

	expiresAt := token.Claims.ExpiresAt.Time
	return models.Challenge{
		Address:   address,
		Message:   ChallengeMessage(address, token.Claims.ID, expiresAt),
		Token:     token.SignedString,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyChallenge checks the wallet signature over a challenge and opens a
// session.
//
// Returns:
//   - ErrTokenIsExpired or ErrInvalidToken if the challenge token is unusable.
//   - ErrInvalidSignatureFormat if the signature cannot be decoded.
//   - ErrChallengeInvalid if the signer is not the challenged address.
//   - ErrChallengeReused if the challenge was already answered.
func (a *authService) VerifyChallenge(ctx context.Context, resp models.ChallengeResponse) (models.Token, models.Session, error) {
	log := logger.FromContext(ctx)

	challenge, err := a.parse(resp.Token, models.TokenKindChallenge)
	if err != nil {
		return models.Token{}, models.Session{}, err
	}

	address := challenge.Wallet()
	nonce := challenge.Claims.ID
	expiresAt := challenge.Claims.ExpiresAt.Time

	sig, err := wallet.DecodeSignature(resp.Signature)
	if err != nil {
		return models.Token{}, models.Session{}, fmt.Errorf("%w: %w", ErrInvalidSignatureFormat, err)
	}

	recovered, err := wallet.RecoverAddress([]byte(ChallengeMessage(address, nonce, expiresAt)), sig)
	if err != nil {
		return models.Token{}, models.Session{}, fmt.Errorf("%w: %w", ErrInvalidSignatureFormat, err)
	}
	if !wallet.SameAddress(recovered, address) {
		log.Warn().Str("address", address).Str("recovered", recovered).Msg("challenge signed by another wallet")
		return models.Token{}, models.Session{}, ErrChallengeInvalid
	}

	if err = a.consumeNonce(nonce, expiresAt); err != nil {
		log.Warn().Str("address", address).Msg("challenge replayed")
		return models.Token{}, models.Session{}, err
	}

	session, err := utils.GenerateJWTToken(utils.JWTParams{
		Issuer:   a.tokenIssuer,
		Subject:  address,
		Kind:     models.TokenKindSession,
		ID:       a.nonces.Generate(),
		Duration: a.tokenDuration,
		SignKey:  a.tokenSignKey,
	})
	if err != nil {
		log.Err(err).Msg("session token creation failed")
		return models.Token{}, models.Session{}, fmt.Errorf("session token creation failed: %w", err)
	}

	log.Info().Str("address", address).Msg("session opened")
	return session, models.Session{
		Address:   address,
		IsAdmin:   a.IsAdmin(address),
		ExpiresAt: session.Claims.ExpiresAt.Time,
	}, nil
}

// ParseToken validates a session token.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return a.parse(tokenString, models.TokenKindSession)
}

// IsAdmin reports whether address is on the configured admin list.
func (a *authService) IsAdmin(address string) bool {
	_, ok := a.adminWallets[wallet.NormalizeAddress(address)]
	return ok
}

func (a *authService) parse(tokenString, kind string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, kind)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token, nil
}

func (a *authService) consumeNonce(nonce string, expiresAt time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.usedChallenges.Has(nonce) {
		return ErrChallengeReused
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrTokenIsExpired
	}
	return a.usedChallenges.SetWithExpire(nonce, struct{}{}, ttl)
}

// ChallengeMessage is the exact text a wallet signs to answer a challenge.
func ChallengeMessage(address, nonce string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Sign in to go-doc-verify\n\nAddress: %s\nNonce: %s\nExpires: %s",
		wallet.NormalizeAddress(address), nonce, expiresAt.UTC().Format(time.RFC3339),
	)
}
