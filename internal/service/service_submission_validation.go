package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-doc-verify/internal/validators"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// SubmissionValidationService rejects malformed input before it reaches
// the wrapped SubmissionService. Validation failures wrap
// ErrInvalidDataProvided and have no side effects.
type SubmissionValidationService struct {
	inner     SubmissionService
	validator validators.Validator
}

func NewSubmissionValidationService() SubmissionServiceWrapper {
	return &SubmissionValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *SubmissionValidationService) Create(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Create(ctx, req)
}

// Update takes the wallet and request id from the path. Body values for
// them are optional but must agree with the path when present.
func (v *SubmissionValidationService) Update(ctx context.Context, walletAddress, requestID string, req models.SubmitRequest) (models.RequestRecord, error) {
	if req.RequestID == "" {
		req.RequestID = requestID
	}
	if req.RequesterWallet == "" {
		req.RequesterWallet = walletAddress
	}

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if !wallet.IsAddress(walletAddress) {
		return models.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidWallet)
	}
	if req.RequestID != requestID {
		return models.RequestRecord{}, fmt.Errorf("%w: request id does not match path", ErrInvalidDataProvided)
	}

	return v.inner.Update(ctx, walletAddress, requestID, req)
}

func (v *SubmissionValidationService) Get(ctx context.Context, walletAddress, requestID string) (models.RequestRecord, error) {
	if err := v.validateWallet(walletAddress); err != nil {
		return models.RequestRecord{}, err
	}
	return v.inner.Get(ctx, walletAddress, requestID)
}

func (v *SubmissionValidationService) ListByWallet(ctx context.Context, walletAddress string) ([]models.RequestRecord, error) {
	if err := v.validateWallet(walletAddress); err != nil {
		return nil, err
	}
	return v.inner.ListByWallet(ctx, walletAddress)
}

// ListByStatus accepts an empty status, meaning every status.
func (v *SubmissionValidationService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error) {
	if status != "" {
		if err := v.validator.Validate(ctx, models.StatusUpdateRequest{Status: status}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	}
	return v.inner.ListByStatus(ctx, status)
}

func (v *SubmissionValidationService) SetStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.RequestRecord, error) {
	if err := v.validator.Validate(ctx, models.StatusUpdateRequest{Status: status}); err != nil {
		return models.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.SetStatus(ctx, requestID, status)
}

func (v *SubmissionValidationService) MarkMinted(ctx context.Context, requestID string) error {
	return v.inner.MarkMinted(ctx, requestID)
}

func (v *SubmissionValidationService) Wrap(inner SubmissionService) SubmissionService {
	v.inner = inner
	return v
}

func (v *SubmissionValidationService) validateWallet(walletAddress string) error {
	if !wallet.IsAddress(walletAddress) {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidWallet)
	}
	return nil
}
