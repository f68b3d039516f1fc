package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/models"
)

func testRecord(id string) models.RequestRecord {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.RequestRecord{
		RequestID:       id,
		RequesterWallet: testWallet,
		RequestType:     models.RequestTypeNationalID,
		MetadataCID:     "bafy-envelope",
		MetadataHash:    "0x" + strings.Repeat("ab", 32),
		Status:          models.StatusPending,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

const submitBody = `{
	"requestId": "req-1",
	"requesterWallet": "` + testWallet + `",
	"requestType": "national_id",
	"metadataCid": "bafy-envelope",
	"metadataHash": "0xabab",
	"uploaderSignature": "0xsig",
	"files": []
}`

func TestCreateRequest(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var got models.SubmitRequest
		h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
			createFn: func(_ context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
				got = req
				return testRecord(req.RequestID), nil
			},
		}})

		rec := serve(h.Init(), http.MethodPost, "/api/requests", submitBody, "")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "req-1", got.RequestID)
		assert.Equal(t, models.RequestTypeNationalID, got.RequestType)
		assert.Equal(t, "0xsig", got.UploaderSignature)

		var record models.RequestRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, models.StatusPending, record.Status)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed signature", service.ErrInvalidSignatureFormat, http.StatusBadRequest, "invalid_signature_format"},
		{"signature by another wallet", service.ErrSignatureMismatch, http.StatusUnauthorized, "signature_mismatch"},
		{"validation failure", fmt.Errorf("%w: bad cid", service.ErrInvalidDataProvided), http.StatusBadRequest, "invalid_request"},
		{"duplicate id", store.ErrRequestAlreadyExists, http.StatusConflict, "request_exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
				createFn: func(context.Context, models.SubmitRequest) (models.RequestRecord, error) {
					return models.RequestRecord{}, tt.err
				},
			}})

			rec := serve(h.Init(), http.MethodPost, "/api/requests", submitBody, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tt.wantCode+`"`)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{}})

		rec := serve(h.Init(), http.MethodPost, "/api/requests", `{"requestId":`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateRequest(t *testing.T) {
	t.Run("updated with path params", func(t *testing.T) {
		var gotWallet, gotID string
		h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
			updateFn: func(_ context.Context, wallet, id string, req models.SubmitRequest) (models.RequestRecord, error) {
				gotWallet, gotID = wallet, id
				return testRecord(id), nil
			},
		}})

		rec := serve(h.Init(), http.MethodPatch, "/api/requests/"+testWallet+"/req-1", submitBody, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testWallet, gotWallet)
		assert.Equal(t, "req-1", gotID)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"another wallet's request", service.ErrNotRequestOwner, http.StatusForbidden},
		{"approved request is frozen", service.ErrInvalidStatusTransition, http.StatusConflict},
		{"unknown request", store.ErrRequestNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
				updateFn: func(context.Context, string, string, models.SubmitRequest) (models.RequestRecord, error) {
					return models.RequestRecord{}, tt.err
				},
			}})

			rec := serve(h.Init(), http.MethodPatch, "/api/requests/"+testWallet+"/req-1", submitBody, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetRequest(t *testing.T) {
	h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
		getFn: func(_ context.Context, wallet, id string) (models.RequestRecord, error) {
			if wallet != testWallet {
				return models.RequestRecord{}, service.ErrNotRequestOwner
			}
			return testRecord(id), nil
		},
	}})
	router := h.Init()

	rec := serve(router, http.MethodGet, "/api/requests/"+testWallet+"/req-7", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var record models.RequestRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "req-7", record.RequestID)

	rec = serve(router, http.MethodGet, "/api/requests/"+testAdmin+"/req-7", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListRequests(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
			listByWalletFn: func(_ context.Context, wallet string) ([]models.RequestRecord, error) {
				return []models.RequestRecord{testRecord("req-1"), testRecord("req-2")}, nil
			},
		}})

		rec := serve(h.Init(), http.MethodGet, "/api/requests/"+testWallet, "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var records []models.RequestRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 2)
	})

	t.Run("no records is an empty array", func(t *testing.T) {
		h := newHandlerWithServices(t, &service.Services{SubmissionService: &mockSubmissionService{
			listByWalletFn: func(context.Context, string) ([]models.RequestRecord, error) {
				return nil, nil
			},
		}})

		rec := serve(h.Init(), http.MethodGet, "/api/requests/"+testWallet, "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}
