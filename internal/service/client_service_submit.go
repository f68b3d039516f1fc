package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-doc-verify/internal/adapter"
	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// mimeSniffLen is the number of leading bytes content sniffing looks at.
const mimeSniffLen = 512

type clientSubmitService struct {
	adapter adapter.ServerAdapter
	blobs   blobstore.Store
	builder *envelope.Builder
	signer  wallet.Signer

	mu              sync.Mutex
	serverPublicKey string

	maxFileSize int64
	requestIDs  *utils.UUIDGenerator

	logger *logger.Logger
}

// NewClientSubmitService wires the client pipeline. serverPublicKey may be
// empty, in which case it is fetched from the server on first use.
func NewClientSubmitService(
	serverAdapter adapter.ServerAdapter,
	blobs blobstore.Store,
	signer wallet.Signer,
	serverPublicKey string,
	maxFileSize int64,
	logger *logger.Logger,
) ClientSubmitService {
	if serverPublicKey != "" {
		serverPublicKey = crypto.NormalizePEM(serverPublicKey)
	}

	return &clientSubmitService{
		adapter:         serverAdapter,
		blobs:           blobs,
		builder:         envelope.NewBuilder(blobs, logger),
		signer:          signer,
		serverPublicKey: serverPublicKey,
		maxFileSize:     maxFileSize,
		requestIDs:      utils.NewUUIDGenerator("req-"),
		logger:          logger,
	}
}

func (c *clientSubmitService) Submit(ctx context.Context, submission models.Submission) (models.SubmissionReceipt, error) {
	if submission.RequestID == "" {
		submission.RequestID = c.requestIDs.Generate()
	}

	req, err := c.prepare(ctx, submission)
	if err != nil {
		return models.SubmissionReceipt{}, err
	}

	record, err := c.adapter.CreateRequest(ctx, req)
	if err != nil {
		return models.SubmissionReceipt{}, fmt.Errorf("server rejected submission: %w", err)
	}

	c.logger.Info().Str("request_id", req.RequestID).Str("metadata_cid", req.MetadataCID).Msg("submission registered")
	return receipt(req, record), nil
}

func (c *clientSubmitService) Resubmit(ctx context.Context, submission models.Submission) (models.SubmissionReceipt, error) {
	if submission.RequestID == "" {
		return models.SubmissionReceipt{}, fmt.Errorf("%w: request id is required to resubmit", ErrInvalidDataProvided)
	}

	req, err := c.prepare(ctx, submission)
	if err != nil {
		return models.SubmissionReceipt{}, err
	}

	record, err := c.adapter.UpdateRequest(ctx, req)
	if err != nil {
		return models.SubmissionReceipt{}, fmt.Errorf("server rejected resubmission: %w", err)
	}

	c.logger.Info().Str("request_id", req.RequestID).Str("metadata_cid", req.MetadataCID).Msg("submission replaced")
	return receipt(req, record), nil
}

func (c *clientSubmitService) View(ctx context.Context, metadataCID string) (models.DecryptedView, error) {
	if c.adapter.Token() == "" {
		if err := c.login(ctx); err != nil {
			return models.DecryptedView{}, err
		}
	}

	req := models.DecryptMetadataRequest{MetadataCID: metadataCID, OwnerAddress: c.signer.Address()}

	view, err := c.adapter.DecryptMetadata(ctx, req)
	if errors.Is(err, adapter.ErrUnauthorized) {
		// session expired: log in again once
		if err = c.login(ctx); err != nil {
			return models.DecryptedView{}, err
		}
		view, err = c.adapter.DecryptMetadata(ctx, req)
	}
	if err != nil {
		return models.DecryptedView{}, fmt.Errorf("decrypt metadata: %w", err)
	}

	return view, nil
}

func (c *clientSubmitService) List(ctx context.Context) ([]models.RequestRecord, error) {
	return c.adapter.ListRequests(ctx, c.signer.Address())
}

// login answers a server challenge with the wallet signature. The adapter
// keeps the resulting session token.
func (c *clientSubmitService) login(ctx context.Context) error {
	challenge, err := c.adapter.RequestChallenge(ctx, c.signer.Address())
	if err != nil {
		return fmt.Errorf("request challenge: %w", err)
	}

	sig, err := c.signer.SignMessage(ctx, []byte(challenge.Message))
	if err != nil {
		return fmt.Errorf("sign challenge: %w", err)
	}

	if _, err = c.adapter.VerifyChallenge(ctx, models.ChallengeResponse{
		Token:     challenge.Token,
		Signature: wallet.EncodeSignature(sig),
	}); err != nil {
		return fmt.Errorf("verify challenge: %w", err)
	}

	return nil
}

// prepare runs the local part of the pipeline and returns the request body
// for the server. The submission key is wiped before returning.
func (c *clientSubmitService) prepare(ctx context.Context, submission models.Submission) (models.SubmitRequest, error) {
	if !submission.RequestType.Valid() {
		return models.SubmitRequest{}, fmt.Errorf("%w: unknown request type %q", ErrInvalidDataProvided, submission.RequestType)
	}

	publicKey, err := c.publicKey(ctx)
	if err != nil {
		return models.SubmitRequest{}, err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return models.SubmitRequest{}, fmt.Errorf("generate submission key: %w", err)
	}
	defer key.Zero()

	fields := make(map[string]models.EncryptedField, len(submission.Fields))
	for name, value := range submission.Fields {
		if fields[name], err = crypto.EncryptField(key, value); err != nil {
			return models.SubmitRequest{}, fmt.Errorf("encrypt field %s: %w", name, err)
		}
	}

	files := make([]models.EncryptedFileDescriptor, 0, len(submission.Files))
	for _, f := range submission.Files {
		descriptor, err := c.encryptAndUploadFile(ctx, key, f)
		if err != nil {
			return models.SubmitRequest{}, err
		}
		files = append(files, descriptor)
	}

	wrapped, err := crypto.WrapKey(key, publicKey)
	if err != nil {
		return models.SubmitRequest{}, fmt.Errorf("wrap submission key: %w", err)
	}

	result, err := c.builder.BuildAndUpload(ctx, envelope.BuildParams{
		RequestType:     submission.RequestType,
		EncryptedFields: fields,
		Files:           files,
		WrappedKey:      wrapped,
		Signer:          c.signer,
	})
	if err != nil {
		return models.SubmitRequest{}, fmt.Errorf("build envelope: %w", err)
	}

	return models.SubmitRequest{
		RequestID:         submission.RequestID,
		RequesterWallet:   wallet.NormalizeAddress(c.signer.Address()),
		RequestType:       submission.RequestType,
		MetadataCID:       result.MetadataCID,
		MetadataHash:      result.MetadataHash,
		UploaderSignature: result.UploaderSignature,
		Files:             files,
	}, nil
}

// encryptAndUploadFile streams one file through the file cipher and pins
// the ciphertext.
func (c *clientSubmitService) encryptAndUploadFile(ctx context.Context, key crypto.SymmetricKey, f models.SubmissionFile) (models.EncryptedFileDescriptor, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}

	head := make([]byte, mimeSniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}
	head = head[:n]

	mime := f.Mime
	if mime == "" {
		mime = crypto.DetectMime(head)
	}
	if err = crypto.ValidateUpload(info.Size(), mime, c.maxFileSize); err != nil {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("%s: %w", f.Path, err)
	}

	encrypted, err := crypto.EncryptFile(key, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("encrypt %s: %w", f.Path, err)
	}

	cid, err := c.blobs.Pin(ctx, encrypted.Ciphertext)
	if err != nil {
		return models.EncryptedFileDescriptor{}, fmt.Errorf("pin %s: %w", f.Path, err)
	}

	c.logger.Debug().Str("cid", cid).Str("purpose", f.Purpose).Msg("file pinned")
	return encrypted.Descriptor(cid, filepath.Base(f.Path), mime, models.ParsePurpose(f.Purpose)), nil
}

func (c *clientSubmitService) publicKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.serverPublicKey != "" {
		return c.serverPublicKey, nil
	}

	key, err := c.adapter.ServerPublicKey(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrServerKeyUnavailable, err)
	}

	c.serverPublicKey = crypto.NormalizePEM(key)
	return c.serverPublicKey, nil
}

func receipt(req models.SubmitRequest, record models.RequestRecord) models.SubmissionReceipt {
	return models.SubmissionReceipt{
		RequestID:         req.RequestID,
		MetadataCID:       req.MetadataCID,
		MetadataHash:      req.MetadataHash,
		UploaderSignature: req.UploaderSignature,
		Record:            record,
	}
}
