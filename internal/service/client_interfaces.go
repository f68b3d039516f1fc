package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verify/models"
)

// ClientSubmitService is the client side of the pipeline: everything is
// encrypted, pinned and signed locally, and only CIDs, the envelope hash and
// the signature are sent to the server.
type ClientSubmitService interface {
	// Submit encrypts the fields and files of submission under a fresh key,
	// pins the ciphertexts, wraps the key for the server, builds, signs and
	// pins the envelope, and registers the request.
	// A RequestID is generated when submission has none.
	Submit(ctx context.Context, submission models.Submission) (models.SubmissionReceipt, error)

	// Resubmit runs the same pipeline for an existing request and replaces
	// its envelope. submission.RequestID is required.
	Resubmit(ctx context.Context, submission models.Submission) (models.SubmissionReceipt, error)

	// View opens a session with a signed challenge if none is open and asks
	// the server for the decrypted view of metadataCID.
	View(ctx context.Context, metadataCID string) (models.DecryptedView, error)

	// List returns every request of the client wallet.
	List(ctx context.Context) ([]models.RequestRecord, error)
}
