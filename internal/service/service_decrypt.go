package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// decryptService is the server-side unwrap and decrypt pipeline.
//
// Only a failure to resolve the envelope itself is fatal. Unwrap, fetch and
// decrypt failures of individual fields and files are isolated to that item.
type decryptService struct {
	blobs      blobstore.Store
	repository store.RequestRepository

	// unwrapper holds the server private key. A nil unwrapper behaves like
	// a failed unwrap.
	unwrapper crypto.KeyUnwrapper

	// concurrency caps parallel field and file work of one request.
	concurrency int

	// fetchTimeout bounds fetch and decrypt of a single file.
	fetchTimeout time.Duration

	logger *logger.Logger
}

// NewDecryptService wires the decrypt pipeline.
func NewDecryptService(blobs blobstore.Store, repository store.RequestRepository, unwrapper crypto.KeyUnwrapper, cfg config.Workers, logger *logger.Logger) DecryptService {
	concurrency := cfg.DecryptConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &decryptService{
		blobs:        blobs,
		repository:   repository,
		unwrapper:    unwrapper,
		concurrency:  concurrency,
		fetchTimeout: cfg.FetchTimeout,
		logger:       logger,
	}
}

// DecryptMetadata returns the decrypted view of the envelope at
// req.MetadataCID.
//
// The session wallet must be req.OwnerAddress and req.OwnerAddress must be
// the uploader named in the envelope. When a record still references the CID,
// req.OwnerAddress must also be its requester. Admin sessions pass these
// checks. When a record exists its hash is checked against the fetched bytes
// before anything is decrypted.
//
// Returns ErrViewerNotAuthorized, ErrMetadataNotFound, ErrMetadataHashMismatch
// or ErrMetadataMalformed on hard failures.
func (s *decryptService) DecryptMetadata(ctx context.Context, session models.Session, req models.DecryptMetadataRequest) (models.DecryptedView, error) {
	log := logger.FromContext(ctx).With().Str("metadata_cid", req.MetadataCID).Logger()

	if !session.IsAdmin && !wallet.SameAddress(session.Address, req.OwnerAddress) {
		log.Warn().Str("viewer", session.Address).Msg("viewer asked for metadata of another wallet")
		return models.DecryptedView{}, ErrViewerNotAuthorized
	}

	record, found, err := s.findRecord(ctx, req.MetadataCID)
	if err != nil {
		return models.DecryptedView{}, err
	}
	if found && !session.IsAdmin && !wallet.SameAddress(record.RequesterWallet, req.OwnerAddress) {
		log.Warn().Str("viewer", session.Address).Str("request_id", record.RequestID).Msg("owner address is not the requester")
		return models.DecryptedView{}, ErrViewerNotAuthorized
	}

	raw, err := s.blobs.Fetch(ctx, req.MetadataCID)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return models.DecryptedView{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, req.MetadataCID)
		}
		log.Err(err).Msg("error fetching metadata")
		return models.DecryptedView{}, fmt.Errorf("error fetching metadata: %w", err)
	}

	if found {
		if err = envelope.VerifyHash(raw, record.MetadataHash); err != nil {
			if errors.Is(err, envelope.ErrHashMismatch) {
				log.Error().Str("request_id", record.RequestID).Msg("stored metadata does not match the signed hash")
				return models.DecryptedView{}, fmt.Errorf("%w: %w", ErrMetadataHashMismatch, err)
			}
			return models.DecryptedView{}, fmt.Errorf("%w: %w", ErrMetadataMalformed, err)
		}
	}

	env, err := envelope.Parse(raw)
	if err != nil {
		return models.DecryptedView{}, fmt.Errorf("%w: %w", ErrMetadataMalformed, err)
	}

	if !session.IsAdmin && !wallet.SameAddress(env.Uploader, req.OwnerAddress) {
		log.Warn().Str("viewer", session.Address).Str("uploader", env.Uploader).Msg("owner address is not the uploader")
		return models.DecryptedView{}, ErrViewerNotAuthorized
	}

	key := s.unwrapKey(ctx, env)
	defer key.Zero()

	view := models.DecryptedView{
		MetadataCID:  req.MetadataCID,
		Metadata:     env.WithoutKeyMaterial(),
		KeyAvailable: key != nil,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		view.DecryptedFields = s.decryptFields(ctx, key, env)
	}()
	go func() {
		defer wg.Done()
		view.Files = s.decryptFiles(ctx, key, env.Files)
	}()
	wg.Wait()

	mapDocument(&view, env.RequestType)

	log.Info().
		Bool("key_available", view.KeyAvailable).
		Int("fields", len(view.DecryptedFields)).
		Int("files", len(view.Files)).
		Msg("metadata decrypted")

	return view, nil
}

func (s *decryptService) findRecord(ctx context.Context, metadataCID string) (models.RequestRecord, bool, error) {
	record, err := s.repository.GetByMetadataCID(ctx, metadataCID)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			// minted requests are deleted, their envelopes stay readable
			return models.RequestRecord{}, false, nil
		}
		return models.RequestRecord{}, false, fmt.Errorf("error looking up request by metadata CID: %w", err)
	}
	return record, true, nil
}

// unwrapKey returns nil when the envelope carries no wrapped key or the key
// cannot be unwrapped.
func (s *decryptService) unwrapKey(ctx context.Context, env models.Envelope) crypto.SymmetricKey {
	log := logger.FromContext(ctx)

	if env.EncryptedAESKeyForServer == "" {
		log.Warn().Msg("envelope carries no wrapped key")
		return nil
	}
	if s.unwrapper == nil {
		log.Error().Msg("no key unwrapper configured")
		return nil
	}

	key, err := s.unwrapper.Unwrap(env.EncryptedAESKeyForServer)
	if err != nil {
		log.Err(err).Msg("wrapped key could not be unwrapped, returning envelope without plaintext")
		return nil
	}
	return key
}

// decryptFields decrypts every field concurrently. A field that fails
// authentication maps to nil.
func (s *decryptService) decryptFields(ctx context.Context, key crypto.SymmetricKey, env models.Envelope) map[string]*string {
	log := logger.FromContext(ctx)

	result := make(map[string]*string, len(env.EncryptedFields))
	if key == nil {
		for name := range env.EncryptedFields {
			result[name] = nil
		}
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for name, field := range env.EncryptedFields {
		g.Go(func() error {
			var value *string
			plaintext, err := crypto.DecryptFieldWithFallbackIV(key, field, env.IV)
			if err != nil {
				log.Warn().Err(err).Str("field", name).Msg("field could not be decrypted")
			} else {
				value = &plaintext
			}

			mu.Lock()
			result[name] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

// decryptFiles fetches and decrypts every file concurrently, each under its
// own timeout. Results keep descriptor order.
func (s *decryptService) decryptFiles(ctx context.Context, key crypto.SymmetricKey, files []models.EncryptedFileDescriptor) []models.DecryptedFile {
	result := make([]models.DecryptedFile, len(files))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, descriptor := range files {
		result[i] = models.DecryptedFile{File: descriptor, DecryptError: true}
		if key == nil {
			continue
		}

		g.Go(func() error {
			dataURL, err := s.decryptFile(ctx, key, descriptor)
			if err != nil {
				logger.FromContext(ctx).Warn().Err(err).
					Str("cid", descriptor.CID).
					Str("purpose", string(descriptor.Purpose)).
					Msg("file could not be decrypted")
				return nil
			}

			result[i].DecryptedURL = &dataURL
			result[i].DecryptError = false
			return nil
		})
	}
	_ = g.Wait()

	return result
}

// fetch returns when ctx is done even if the store does not honour it. A
// fetch abandoned that way finishes in the background and is discarded.
func (s *decryptService) fetch(ctx context.Context, cid string) ([]byte, error) {
	type fetched struct {
		data []byte
		err  error
	}

	done := make(chan fetched, 1)
	go func() {
		data, err := s.blobs.Fetch(ctx, cid)
		done <- fetched{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return res.data, ctx.Err()
	}
}

func (s *decryptService) decryptFile(ctx context.Context, key crypto.SymmetricKey, descriptor models.EncryptedFileDescriptor) (string, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	ciphertext, err := s.fetch(ctx, descriptor.CID)
	if err != nil {
		return "", fmt.Errorf("fetch file: %w", err)
	}

	plaintext, err := crypto.DecryptFile(key, ciphertext, descriptor)
	if err != nil {
		return "", fmt.Errorf("decrypt file: %w", err)
	}

	mime := descriptor.Mime
	if mime == "" {
		mime = crypto.DetectMime(plaintext)
	}
	return crypto.ToDataURL(mime, plaintext), nil
}
