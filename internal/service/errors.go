package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrNotReady              = errors.New("services are not ready")

	// authenticity
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	ErrSignatureMismatch      = errors.New("recovered signer does not match requester")

	// request lifecycle
	ErrNotRequestOwner         = errors.New("wallet does not own the request")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrUploaderMismatch        = errors.New("metadata was uploaded by another wallet")

	// decryption
	ErrMetadataNotFound     = errors.New("metadata not found")
	ErrMetadataHashMismatch = errors.New("metadata does not match the recorded hash")
	ErrMetadataMalformed    = errors.New("metadata is malformed")
	ErrViewerNotAuthorized  = errors.New("viewer is not authorized for this metadata")

	// sessions
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenIsExpired   = errors.New("token is expired")
	ErrChallengeReused  = errors.New("challenge was already used")
	ErrChallengeInvalid = errors.New("challenge signature does not match address")

	// client
	ErrServerKeyUnavailable = errors.New("server public key is unavailable")
	ErrReadingFile          = errors.New("error reading submission file")
)
