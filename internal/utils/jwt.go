package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-verify/models"
)

// JWTParams describes a token to issue.
type JWTParams struct {
	Issuer   string
	Subject  string
	Kind     string
	ID       string
	Duration time.Duration
	SignKey  string
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the wallet address the token belongs to
//   - ID        (jti): optional unique token id
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus Duration
//   - kind           : challenge or session
//
// Issuer, Subject, Kind, Duration and SignKey are required.
func GenerateJWTToken(p JWTParams) (models.Token, error) {
	if p.Issuer == "" || p.Subject == "" || p.Kind == "" || p.Duration <= 0 || p.SignKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			ID:        p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind: p.Kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.SignKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseJWTToken validates tokenString and returns its claims.
//
// Validation includes:
//   - HS256 signature verification using tokenSignKey
//   - Issuer (iss) claim check against tokenIssuer
//   - Expiration (exp) claim check
//   - kind claim check against the expected kind
//   - Subject (sub) claim presence
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer, kind string) (models.Token, error) {
	var claims models.TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Kind != kind {
		return models.Token{}, fmt.Errorf("unexpected token kind %q", claims.Kind)
	}
	if claims.Subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
