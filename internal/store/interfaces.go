package store

//go:generate mockgen -source=interfaces.go -destination=../mock/request_repository_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-doc-verify/models"
)

// RequestRepository persists [models.RequestRecord] values.
type RequestRepository interface {
	// Create inserts a new record. A duplicate request id yields
	// ErrRequestAlreadyExists.
	Create(ctx context.Context, record models.RequestRecord) error

	// Get returns the record with the given id or ErrRequestNotFound.
	Get(ctx context.Context, requestID string) (models.RequestRecord, error)

	// GetByMetadataCID returns the record that currently references the
	// envelope CID or ErrRequestNotFound.
	GetByMetadataCID(ctx context.Context, metadataCID string) (models.RequestRecord, error)

	// ListByWallet returns the records of a requester, newest first.
	ListByWallet(ctx context.Context, wallet string) ([]models.RequestRecord, error)

	// ListByStatus returns the records in a status, oldest first. An empty
	// status lists everything.
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error)

	// Replace overwrites the envelope reference of a record (metadata CID,
	// hash, signature and files) and sets its status and update time.
	Replace(ctx context.Context, record models.RequestRecord) error

	// UpdateStatus sets the status of a record.
	UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus, updatedAt time.Time) error

	// Delete removes a record.
	Delete(ctx context.Context, requestID string) error
}
