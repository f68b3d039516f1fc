package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// submissionService is the concrete implementation of SubmissionService.
//
// Every write follows the same order: ownership, then authenticity, then
// persistence, then cleanup. Blobs are only released after the record that
// stopped referencing them is durably saved.
//
// A record only ever points at an envelope its requester uploaded: the
// pinned bytes must hash to the signed hash and name the requester as
// uploader. File descriptors are copied from that envelope, never from the
// request body.
type submissionService struct {
	// repository persists RequestRecords.
	repository store.RequestRepository

	// blobs resolves the envelope a request points at.
	blobs blobstore.Store

	// verifier checks uploader signatures on create and update.
	verifier SignatureVerifier

	// cleaner receives CIDs that no record references anymore.
	cleaner Cleaner

	// now is the clock used for record timestamps.
	now func() time.Time

	logger *logger.Logger
}

// NewSubmissionService wires the request lifecycle to its collaborators.
func NewSubmissionService(repository store.RequestRepository, blobs blobstore.Store, verifier SignatureVerifier, cleaner Cleaner, logger *logger.Logger) SubmissionService {
	return &submissionService{
		repository: repository,
		blobs:      blobs,
		verifier:   verifier,
		cleaner:    cleaner,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		logger:     logger,
	}
}

// Create verifies the uploader signature and the envelope it signs, then
// stores a new pending record.
//
// Returns ErrInvalidSignatureFormat or ErrSignatureMismatch without touching
// the repository, the envelope errors of loadSignedEnvelope, or
// store.ErrRequestAlreadyExists for a duplicate id.
func (s *submissionService) Create(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
	log := logger.FromContext(ctx).With().Str("request_id", req.RequestID).Logger()

	if err := s.verifier.Verify(ctx, req.MetadataHash, req.UploaderSignature, req.RequesterWallet); err != nil {
		return models.RequestRecord{}, err
	}

	env, err := s.loadSignedEnvelope(ctx, req, req.RequesterWallet)
	if err != nil {
		return models.RequestRecord{}, err
	}

	now := s.now()
	record := models.RequestRecord{
		RequestID:         req.RequestID,
		RequesterWallet:   wallet.NormalizeAddress(req.RequesterWallet),
		RequestType:       req.RequestType,
		MetadataCID:       req.MetadataCID,
		MetadataHash:      envelope.NormalizeHash(req.MetadataHash),
		UploaderSignature: req.UploaderSignature,
		Files:             nonNilFiles(env.Files),
		Status:            models.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = s.repository.Create(ctx, record); err != nil {
		log.Err(err).Msg("request creation ended with error")
		return models.RequestRecord{}, fmt.Errorf("request creation ended with error: %w", err)
	}

	log.Info().Str("wallet", record.RequesterWallet).Str("metadata_cid", record.MetadataCID).Msg("request created")
	return record, nil
}

// Update replaces the envelope of an existing request.
//
// The ownership gate runs before the signature gate: a wallet that does not
// own the record gets ErrNotRequestOwner even with a valid signature. After
// the replacement is saved, every CID of the previous envelope that the new
// one does not reference is scheduled for unpinning exactly once.
func (s *submissionService) Update(ctx context.Context, walletAddress, requestID string, req models.SubmitRequest) (models.RequestRecord, error) {
	log := logger.FromContext(ctx).With().Str("request_id", requestID).Logger()

	existing, err := s.repository.Get(ctx, requestID)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("error loading request for update: %w", err)
	}

	if !wallet.SameAddress(existing.RequesterWallet, walletAddress) ||
		!wallet.SameAddress(req.RequesterWallet, walletAddress) {
		log.Warn().Str("wallet", walletAddress).Msg("update attempted by a wallet that does not own the request")
		return models.RequestRecord{}, ErrNotRequestOwner
	}

	if existing.Status == models.StatusApproved {
		return models.RequestRecord{}, fmt.Errorf("%w: approved requests cannot be edited", ErrInvalidStatusTransition)
	}

	if req.RequestType != existing.RequestType {
		return models.RequestRecord{}, fmt.Errorf("%w: request type cannot change", ErrInvalidDataProvided)
	}

	if err = s.verifier.Verify(ctx, req.MetadataHash, req.UploaderSignature, walletAddress); err != nil {
		return models.RequestRecord{}, err
	}

	env, err := s.loadSignedEnvelope(ctx, req, walletAddress)
	if err != nil {
		return models.RequestRecord{}, err
	}

	updated := existing
	updated.MetadataCID = req.MetadataCID
	updated.MetadataHash = envelope.NormalizeHash(req.MetadataHash)
	updated.UploaderSignature = req.UploaderSignature
	updated.Files = nonNilFiles(env.Files)
	updated.Status = models.StatusPending
	updated.UpdatedAt = s.now()

	if err = s.repository.Replace(ctx, updated); err != nil {
		log.Err(err).Msg("request update ended with error")
		return models.RequestRecord{}, fmt.Errorf("request update ended with error: %w", err)
	}

	if superseded := supersededCIDs(existing, updated); len(superseded) > 0 {
		s.cleaner.Schedule(ctx, "request updated", superseded...)
	}

	log.Info().Str("metadata_cid", updated.MetadataCID).Msg("request updated")
	return updated, nil
}

// Get returns the record of requestID if walletAddress owns it.
func (s *submissionService) Get(ctx context.Context, walletAddress, requestID string) (models.RequestRecord, error) {
	record, err := s.repository.Get(ctx, requestID)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("error getting request: %w", err)
	}

	if !wallet.SameAddress(record.RequesterWallet, walletAddress) {
		return models.RequestRecord{}, ErrNotRequestOwner
	}

	return record, nil
}

func (s *submissionService) ListByWallet(ctx context.Context, walletAddress string) ([]models.RequestRecord, error) {
	records, err := s.repository.ListByWallet(ctx, wallet.NormalizeAddress(walletAddress))
	if err != nil {
		return nil, fmt.Errorf("error listing requests of wallet: %w", err)
	}
	return records, nil
}

func (s *submissionService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error) {
	records, err := s.repository.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("error listing requests by status: %w", err)
	}
	return records, nil
}

// SetStatus moves a pending request to approved or rejected. Any other
// transition returns ErrInvalidStatusTransition.
func (s *submissionService) SetStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.RequestRecord, error) {
	log := logger.FromContext(ctx).With().Str("request_id", requestID).Logger()

	record, err := s.repository.Get(ctx, requestID)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("error loading request for status change: %w", err)
	}

	if !canTransition(record.Status, status) {
		return models.RequestRecord{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, record.Status, status)
	}

	record.Status = status
	record.UpdatedAt = s.now()

	if err = s.repository.UpdateStatus(ctx, requestID, status, record.UpdatedAt); err != nil {
		log.Err(err).Msg("status update ended with error")
		return models.RequestRecord{}, fmt.Errorf("status update ended with error: %w", err)
	}

	log.Info().Str("status", string(status)).Msg("request status changed")
	return record, nil
}

// MarkMinted removes an approved request once its credential is minted and
// releases the envelope and every file blob.
func (s *submissionService) MarkMinted(ctx context.Context, requestID string) error {
	log := logger.FromContext(ctx).With().Str("request_id", requestID).Logger()

	record, err := s.repository.Get(ctx, requestID)
	if err != nil {
		return fmt.Errorf("error loading request to mark minted: %w", err)
	}

	if record.Status != models.StatusApproved {
		return fmt.Errorf("%w: only approved requests can be minted, got %s", ErrInvalidStatusTransition, record.Status)
	}

	if err = s.repository.Delete(ctx, requestID); err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			// deleted concurrently: its blobs are released by whoever won
			return nil
		}
		log.Err(err).Msg("deleting minted request ended with error")
		return fmt.Errorf("deleting minted request ended with error: %w", err)
	}

	s.cleaner.Schedule(ctx, "request minted", record.BlobCIDs()...)

	log.Info().Msg("request minted and removed")
	return nil
}

// loadSignedEnvelope fetches the envelope at req.MetadataCID and checks it
// against the signed request: same hash, same request type, requester as
// uploader and, when the body lists files, the same file CIDs.
//
// Returns ErrMetadataNotFound, ErrMetadataHashMismatch, ErrMetadataMalformed,
// ErrUploaderMismatch or ErrInvalidDataProvided.
func (s *submissionService) loadSignedEnvelope(ctx context.Context, req models.SubmitRequest, requester string) (models.Envelope, error) {
	log := logger.FromContext(ctx).With().Str("metadata_cid", req.MetadataCID).Logger()

	raw, err := s.blobs.Fetch(ctx, req.MetadataCID)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return models.Envelope{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, req.MetadataCID)
		}
		log.Err(err).Msg("error fetching submitted metadata")
		return models.Envelope{}, fmt.Errorf("error fetching submitted metadata: %w", err)
	}

	if err = envelope.VerifyHash(raw, req.MetadataHash); err != nil {
		if errors.Is(err, envelope.ErrHashMismatch) {
			log.Warn().Msg("submitted hash does not match the pinned metadata")
			return models.Envelope{}, fmt.Errorf("%w: %w", ErrMetadataHashMismatch, err)
		}
		return models.Envelope{}, fmt.Errorf("%w: %w", ErrMetadataMalformed, err)
	}

	env, err := envelope.Parse(raw)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("%w: %w", ErrMetadataMalformed, err)
	}

	if !wallet.SameAddress(env.Uploader, requester) {
		log.Warn().Str("uploader", env.Uploader).Str("requester", requester).Msg("metadata was uploaded by another wallet")
		return models.Envelope{}, ErrUploaderMismatch
	}
	if env.RequestType != req.RequestType {
		return models.Envelope{}, fmt.Errorf("%w: request type differs from the metadata", ErrInvalidDataProvided)
	}
	if len(req.Files) > 0 && !slices.Equal(models.Envelope{Files: req.Files}.CIDs(), env.CIDs()) {
		return models.Envelope{}, fmt.Errorf("%w: files differ from the metadata", ErrInvalidDataProvided)
	}

	return env, nil
}

func canTransition(from, to models.RequestStatus) bool {
	return from == models.StatusPending && (to == models.StatusApproved || to == models.StatusRejected)
}

// supersededCIDs lists the blobs of previous in order that next no longer
// references. Duplicates are reported once.
func supersededCIDs(previous, next models.RequestRecord) []string {
	keep := next.BlobCIDs()

	var superseded []string
	for _, c := range previous.BlobCIDs() {
		if slices.Contains(keep, c) || slices.Contains(superseded, c) {
			continue
		}
		superseded = append(superseded, c)
	}
	return superseded
}

func nonNilFiles(files []models.EncryptedFileDescriptor) []models.EncryptedFileDescriptor {
	if files == nil {
		return []models.EncryptedFileDescriptor{}
	}
	return files
}
