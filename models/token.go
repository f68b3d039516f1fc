package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. A challenge token can only be exchanged for a session, and
// only a session token authorizes API calls.
const (
	TokenKindChallenge = "challenge"
	TokenKindSession   = "session"
)

// TokenClaims is the claim set of every token the server issues. The
// subject is the lower-case wallet address the token belongs to.
type TokenClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// Token wraps a parsed or freshly signed JWT.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be sent in HTTP headers.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	Claims TokenClaims `json:"-"`

	SignedString string `json:"-"`
}

// Wallet returns the wallet address the token was issued to.
func (t *Token) Wallet() string {
	return t.Claims.Subject
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// Challenge is a one-time message a wallet must sign to open a session.
type Challenge struct {
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ChallengeRequest starts the login flow for a wallet.
type ChallengeRequest struct {
	Address string `json:"address"`
}

// ChallengeResponse carries the challenge token back with the wallet's
// signature over the challenge message.
type ChallengeResponse struct {
	Token     string `json:"token"`
	Signature string `json:"signature"`
}

// Session describes an authenticated wallet. The bearer token itself is
// returned in the Authorization header.
type Session struct {
	Address   string    `json:"address"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}
