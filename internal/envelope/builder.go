package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// ErrMissingWrappedKey is returned when an envelope would be built without
// the key the server needs to decrypt it.
var ErrMissingWrappedKey = errors.New("envelope has no wrapped key")

// BuildParams is everything that goes into one envelope.
type BuildParams struct {
	RequestType     models.RequestType
	EncryptedFields map[string]models.EncryptedField
	Files           []models.EncryptedFileDescriptor
	// WrappedKey is the submission key wrapped for the server.
	WrappedKey string
	// Signer signs the envelope hash; its address becomes the uploader.
	Signer wallet.Signer
}

// BuildResult is what the server needs to register the submission.
type BuildResult struct {
	Envelope          models.Envelope
	MetadataCID       string
	MetadataHash      string
	UploaderSignature string
}

// Builder assembles, signs and pins envelopes.
type Builder struct {
	store blobstore.Store
	now   func() time.Time
	log   *logger.Logger
}

// NewBuilder returns a Builder that pins envelopes to store.
func NewBuilder(store blobstore.Store, log *logger.Logger) *Builder {
	return &Builder{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// BuildAndUpload assembles the envelope, hashes its canonical form, has the
// signer sign the hash and pins the canonical bytes.
//
// Nothing is pinned when signing fails.
func (b *Builder) BuildAndUpload(ctx context.Context, params BuildParams) (BuildResult, error) {
	if params.WrappedKey == "" {
		return BuildResult{}, ErrMissingWrappedKey
	}
	if params.Signer == nil {
		return BuildResult{}, errors.New("envelope signer is not set")
	}

	fields := params.EncryptedFields
	if fields == nil {
		fields = map[string]models.EncryptedField{}
	}
	files := params.Files
	if files == nil {
		files = []models.EncryptedFileDescriptor{}
	}

	env := models.Envelope{
		RequestType:              params.RequestType,
		Uploader:                 wallet.NormalizeAddress(params.Signer.Address()),
		EncryptedFields:          fields,
		Files:                    files,
		EncryptedAESKeyForServer: params.WrappedKey,
		Status:                   models.StatusPending,
		CreatedAt:                b.now().Truncate(time.Millisecond),
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return BuildResult{}, fmt.Errorf("marshal envelope: %w", err)
	}
	canonical, err := Canonicalize(raw)
	if err != nil {
		return BuildResult{}, err
	}
	hash := hashCanonical(canonical)

	signature, err := params.Signer.SignMessage(ctx, SigningMessage(hash))
	if err != nil {
		return BuildResult{}, fmt.Errorf("sign envelope hash: %w", err)
	}

	metadataCID, err := b.store.Pin(ctx, canonical)
	if err != nil {
		return BuildResult{}, fmt.Errorf("pin envelope: %w", err)
	}

	b.log.Debug().
		Str("metadata_cid", metadataCID).
		Str("metadata_hash", hash).
		Int("files", len(files)).
		Msg("envelope pinned")

	return BuildResult{
		Envelope:          env,
		MetadataCID:       metadataCID,
		MetadataHash:      hash,
		UploaderSignature: wallet.EncodeSignature(signature),
	}, nil
}
