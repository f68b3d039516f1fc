package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidRequestID    = errors.New("invalid request id")
	ErrInvalidWallet       = errors.New("invalid wallet address")
	ErrInvalidRequestType  = errors.New("invalid request type")
	ErrInvalidMetadataCID  = errors.New("invalid metadata CID")
	ErrInvalidMetadataHash = errors.New("invalid metadata hash")
	ErrEmptySignature      = errors.New("uploader signature is required")
	ErrInvalidFile         = errors.New("invalid file descriptor")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrEmptyChallengeToken = errors.New("challenge token is required")
	ErrEmptyChallengeSig   = errors.New("challenge signature is required")
)
