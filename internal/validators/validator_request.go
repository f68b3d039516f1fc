package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

const (
	FieldRequestID         = "request_id"
	FieldRequesterWallet   = "requester_wallet"
	FieldRequestType       = "request_type"
	FieldMetadataCID       = "metadata_cid"
	FieldMetadataHash      = "metadata_hash"
	FieldUploaderSignature = "uploader_signature"
	FieldFiles             = "files"
	FieldStatus            = "status"
	FieldOwnerAddress      = "owner_address"
	FieldAddress           = "address"
	FieldToken             = "token"
	FieldSignature         = "signature"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// RequestValidator checks the shape of every inbound request body. It never
// touches storage and never verifies signatures: a body that passes here is
// well-formed, not authentic.
type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the type of obj. When fields is empty every field
// of the value is checked, otherwise only the named ones.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SubmitRequest:
		return v.validateSubmitRequest(ctx, value, fields...)
	case *models.SubmitRequest:
		return v.validateSubmitRequest(ctx, *value, fields...)

	case models.StatusUpdateRequest:
		return v.validateStatusUpdate(value, fields...)
	case *models.StatusUpdateRequest:
		return v.validateStatusUpdate(*value, fields...)

	case models.DecryptMetadataRequest:
		return v.validateDecryptRequest(value, fields...)
	case *models.DecryptMetadataRequest:
		return v.validateDecryptRequest(*value, fields...)

	case models.ChallengeRequest:
		return v.validateChallengeRequest(value, fields...)
	case *models.ChallengeRequest:
		return v.validateChallengeRequest(*value, fields...)

	case models.ChallengeResponse:
		return v.validateChallengeResponse(value, fields...)
	case *models.ChallengeResponse:
		return v.validateChallengeResponse(*value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *RequestValidator) validateSubmitRequest(_ context.Context, req models.SubmitRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{
			FieldRequestID,
			FieldRequesterWallet,
			FieldRequestType,
			FieldMetadataCID,
			FieldMetadataHash,
			FieldUploaderSignature,
			FieldFiles,
		}
	}

	for _, field := range fields {
		switch field {
		case FieldRequestID:
			if !requestIDPattern.MatchString(req.RequestID) {
				return ErrInvalidRequestID
			}
		case FieldRequesterWallet:
			if !wallet.IsAddress(req.RequesterWallet) {
				return ErrInvalidWallet
			}
		case FieldRequestType:
			if !req.RequestType.Valid() {
				return ErrInvalidRequestType
			}
		case FieldMetadataCID:
			if _, err := blobstore.ParseCID(req.MetadataCID); err != nil {
				return ErrInvalidMetadataCID
			}
		case FieldMetadataHash:
			if !envelope.IsHash(req.MetadataHash) {
				return ErrInvalidMetadataHash
			}
		case FieldUploaderSignature:
			if req.UploaderSignature == "" {
				return ErrEmptySignature
			}
		case FieldFiles:
			if err := validateFiles(req.Files); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func validateFiles(files []models.EncryptedFileDescriptor) error {
	for i, f := range files {
		if _, err := blobstore.ParseCID(f.CID); err != nil {
			return fmt.Errorf("%w: files[%d]: bad cid", ErrInvalidFile, i)
		}
		if f.IV == "" {
			return fmt.Errorf("%w: files[%d]: missing iv", ErrInvalidFile, i)
		}
		if f.Size < 0 {
			return fmt.Errorf("%w: files[%d]: negative size", ErrInvalidFile, i)
		}
	}
	return nil
}

func (v *RequestValidator) validateStatusUpdate(req models.StatusUpdateRequest, fields ...string) error {
	for _, field := range defaultFields(fields, FieldStatus) {
		switch field {
		case FieldStatus:
			if !req.Status.Valid() {
				return ErrInvalidStatus
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateDecryptRequest(req models.DecryptMetadataRequest, fields ...string) error {
	for _, field := range defaultFields(fields, FieldMetadataCID, FieldOwnerAddress) {
		switch field {
		case FieldMetadataCID:
			if _, err := blobstore.ParseCID(req.MetadataCID); err != nil {
				return ErrInvalidMetadataCID
			}
		case FieldOwnerAddress:
			if !wallet.IsAddress(req.OwnerAddress) {
				return ErrInvalidWallet
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateChallengeRequest(req models.ChallengeRequest, fields ...string) error {
	for _, field := range defaultFields(fields, FieldAddress) {
		switch field {
		case FieldAddress:
			if !wallet.IsAddress(req.Address) {
				return ErrInvalidWallet
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateChallengeResponse(req models.ChallengeResponse, fields ...string) error {
	for _, field := range defaultFields(fields, FieldToken, FieldSignature) {
		switch field {
		case FieldToken:
			if req.Token == "" {
				return ErrEmptyChallengeToken
			}
		case FieldSignature:
			if req.Signature == "" {
				return ErrEmptyChallengeSig
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func defaultFields(fields []string, all ...string) []string {
	if len(fields) == 0 {
		return all
	}
	return fields
}
