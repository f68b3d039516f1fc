package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-doc-verify/internal/adapter"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/envelope"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/mock"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func nationalIDSubmission(t *testing.T) models.Submission {
	return models.Submission{
		RequestType: models.RequestTypeNationalID,
		Fields: map[string]string{
			"firstName": "Jane",
			"idNumber":  "X123",
		},
		Files: []models.SubmissionFile{
			{Path: writeTempFile(t, "front.png", append(pngHeader, []byte("front")...)), Purpose: "Front-ID"},
			{Path: writeTempFile(t, "back.png", append(pngHeader, []byte("back")...)), Purpose: "back_id"},
		},
	}
}

func TestClientSubmitService_Submit_ServerCanVerifyAndDecrypt(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	blobs := newMemoryStore(t)
	signer := newSigner(t)
	_, publicPEM := serverKeys(t)

	var sent models.SubmitRequest
	serverAdapter.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
			sent = req
			return models.RequestRecord{RequestID: req.RequestID, Status: models.StatusPending}, nil
		})

	svc := NewClientSubmitService(serverAdapter, blobs, signer, publicPEM, 1<<20, logger.Nop())
	receipt, err := svc.Submit(ctx, nationalIDSubmission(t))
	require.NoError(t, err)

	assert.Regexp(t, `^req-`, receipt.RequestID)
	assert.Equal(t, sent.MetadataCID, receipt.MetadataCID)
	assert.Equal(t, models.StatusPending, receipt.Record.Status)
	require.Len(t, sent.Files, 2)
	assert.Equal(t, models.PurposeFrontID, sent.Files[0].Purpose)
	assert.Equal(t, "image/png", sent.Files[0].Mime)

	// the server side accepts the signature
	verifier := NewSignatureVerifier(logger.Nop())
	require.NoError(t, verifier.Verify(ctx, sent.MetadataHash, sent.UploaderSignature, sent.RequesterWallet))

	// and can decrypt the envelope with its private key
	raw, err := blobs.Fetch(ctx, sent.MetadataCID)
	require.NoError(t, err)
	require.NoError(t, envelope.VerifyHash(raw, sent.MetadataHash))

	repo := mock.NewMockRequestRepository(ctrl)
	repo.EXPECT().GetByMetadataCID(gomock.Any(), sent.MetadataCID).Return(models.RequestRecord{
		RequestID:       sent.RequestID,
		RequesterWallet: sent.RequesterWallet,
		MetadataCID:     sent.MetadataCID,
		MetadataHash:    sent.MetadataHash,
	}, nil)

	decrypt := NewDecryptService(blobs, repo, newUnwrapper(t), config.Workers{DecryptConcurrency: 2}, logger.Nop())
	view, err := decrypt.DecryptMetadata(ctx, models.Session{Address: signer.Address()}, models.DecryptMetadataRequest{
		MetadataCID:  sent.MetadataCID,
		OwnerAddress: signer.Address(),
	})
	require.NoError(t, err)
	assert.True(t, view.KeyAvailable)
	assert.Equal(t, "Jane", *view.NationalIDData.FirstName)
	assert.Equal(t, "X123", *view.NationalIDData.IDNumber)
	assert.NotNil(t, view.NationalIDData.FrontPicture)
	assert.NotNil(t, view.NationalIDData.BackPicture)
}

func TestClientSubmitService_FetchesServerKeyOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	_, publicPEM := serverKeys(t)

	serverAdapter.EXPECT().ServerPublicKey(gomock.Any()).Return(publicPEM, nil).Times(1)
	serverAdapter.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(models.RequestRecord{}, nil).Times(2)

	svc := NewClientSubmitService(serverAdapter, newMemoryStore(t), newSigner(t), "", 0, logger.Nop())
	submission := models.Submission{RequestType: models.RequestTypeLandTitle, Fields: map[string]string{"titleNumber": "T-1"}}

	_, err := svc.Submit(ctx, submission)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, submission)
	require.NoError(t, err)
}

func TestClientSubmitService_ServerKeyUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	serverAdapter.EXPECT().ServerPublicKey(gomock.Any()).Return("", adapter.ErrBadGateway)

	svc := NewClientSubmitService(serverAdapter, newMemoryStore(t), newSigner(t), "", 0, logger.Nop())
	_, err := svc.Submit(context.Background(), models.Submission{RequestType: models.RequestTypeNationalID})

	assert.ErrorIs(t, err, ErrServerKeyUnavailable)
}

func TestClientSubmitService_RejectsBadFiles(t *testing.T) {
	_, publicPEM := serverKeys(t)

	tests := []struct {
		name string
		file models.SubmissionFile
		want error
	}{
		{
			name: "missing file",
			file: models.SubmissionFile{Path: filepath.Join(t.TempDir(), "nope.png"), Purpose: "front_id"},
			want: ErrReadingFile,
		},
		{
			name: "too large",
			file: models.SubmissionFile{Path: writeTempFile(t, "big.png", append(pngHeader, make([]byte, 64)...)), Purpose: "front_id"},
			want: crypto.ErrFileTooLarge,
		},
		{
			name: "plain text",
			file: models.SubmissionFile{Path: writeTempFile(t, "notes.txt", []byte("just some text")), Purpose: "front_id"},
			want: crypto.ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no adapter expectation: nothing reaches the server
			svc := NewClientSubmitService(mock.NewMockServerAdapter(gomock.NewController(t)), newMemoryStore(t), newSigner(t), publicPEM, 32, logger.Nop())

			_, err := svc.Submit(context.Background(), models.Submission{
				RequestType: models.RequestTypeNationalID,
				Files:       []models.SubmissionFile{tt.file},
			})

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClientSubmitService_Resubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	_, publicPEM := serverKeys(t)
	svc := NewClientSubmitService(serverAdapter, newMemoryStore(t), newSigner(t), publicPEM, 0, logger.Nop())

	_, err := svc.Resubmit(context.Background(), models.Submission{RequestType: models.RequestTypeNationalID})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	serverAdapter.EXPECT().UpdateRequest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
			assert.Equal(t, "req-7", req.RequestID)
			return models.RequestRecord{}, store.ErrRequestNotFound
		})

	_, err = svc.Resubmit(context.Background(), models.Submission{RequestID: "req-7", RequestType: models.RequestTypeNationalID})
	assert.ErrorIs(t, err, store.ErrRequestNotFound)
}

func TestClientSubmitService_View_LogsInAndRetriesOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	signer := newSigner(t)
	auth := newTestAuthService()

	login := func() {
		serverAdapter.EXPECT().RequestChallenge(gomock.Any(), signer.Address()).DoAndReturn(auth.IssueChallenge)
		serverAdapter.EXPECT().VerifyChallenge(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, resp models.ChallengeResponse) (models.Session, error) {
				_, session, err := auth.VerifyChallenge(ctx, resp)
				return session, err
			})
	}

	serverAdapter.EXPECT().Token().Return("")
	login()
	gomock.InOrder(
		serverAdapter.EXPECT().DecryptMetadata(gomock.Any(), gomock.Any()).Return(models.DecryptedView{}, adapter.ErrUnauthorized),
		serverAdapter.EXPECT().DecryptMetadata(gomock.Any(), gomock.Any()).Return(models.DecryptedView{MetadataCID: "bafy"}, nil),
	)
	login()

	svc := NewClientSubmitService(serverAdapter, newMemoryStore(t), signer, "", 0, logger.Nop())
	view, err := svc.View(ctx, "bafy")

	require.NoError(t, err)
	assert.Equal(t, "bafy", view.MetadataCID)
}
