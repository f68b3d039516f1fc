// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the go-doc-verify server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401). The
// machine code of the server's error body is kept in [APIError].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-doc-verify/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// go-doc-verify server.
type ServerAdapter interface {
	// SetToken stores the session token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored session token or an empty string.
	Token() string

	// ServerPublicKey fetches the PEM public key submissions are wrapped for.
	ServerPublicKey(ctx context.Context) (string, error)

	// CreateRequest registers a new verification request.
	CreateRequest(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error)

	// UpdateRequest replaces the envelope of an existing request. The path is
	// built from req.RequesterWallet and req.RequestID.
	UpdateRequest(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error)

	// GetRequest loads one request of wallet.
	GetRequest(ctx context.Context, wallet, requestID string) (models.RequestRecord, error)

	// ListRequests lists every request of wallet, newest first.
	ListRequests(ctx context.Context, wallet string) ([]models.RequestRecord, error)

	// RequestChallenge asks for a login challenge for address.
	RequestChallenge(ctx context.Context, address string) (models.Challenge, error)

	// VerifyChallenge exchanges a signed challenge for a session. On success
	// the session token is stored via SetToken.
	VerifyChallenge(ctx context.Context, resp models.ChallengeResponse) (models.Session, error)

	// DecryptMetadata returns the decrypted view of an envelope. Requires a
	// session token.
	DecryptMetadata(ctx context.Context, req models.DecryptMetadataRequest) (models.DecryptedView, error)
}
