package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := utils.NormalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{client: client, logger: logger}, nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// ServerPublicKey implements [ServerAdapter] via GET /api/keys/server.
func (h *httpServerAdapter) ServerPublicKey(ctx context.Context) (string, error) {
	var key models.ServerPublicKey

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&key).
		Get("/api/keys/server")
	if err != nil {
		return "", fmt.Errorf("server key request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if key.PublicKey == "" {
		return "", fmt.Errorf("server key request: empty public key")
	}

	return key.PublicKey, nil
}

// CreateRequest implements [ServerAdapter] via POST /api/requests.
func (h *httpServerAdapter) CreateRequest(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
	var record models.RequestRecord

	resp, err := h.jsonRequest(ctx).
		SetBody(req).
		SetResult(&record).
		Post("/api/requests")
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("create request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RequestRecord{}, err
	}

	return record, nil
}

// UpdateRequest implements [ServerAdapter] via PATCH /api/requests/{wallet}/{id}.
func (h *httpServerAdapter) UpdateRequest(ctx context.Context, req models.SubmitRequest) (models.RequestRecord, error) {
	var record models.RequestRecord

	resp, err := h.jsonRequest(ctx).
		SetBody(req).
		SetResult(&record).
		Patch(requestPath(req.RequesterWallet, req.RequestID))
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("update request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RequestRecord{}, err
	}

	return record, nil
}

// GetRequest implements [ServerAdapter] via GET /api/requests/{wallet}/{id}.
func (h *httpServerAdapter) GetRequest(ctx context.Context, wallet, requestID string) (models.RequestRecord, error) {
	var record models.RequestRecord

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&record).
		Get(requestPath(wallet, requestID))
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("get request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RequestRecord{}, err
	}

	return record, nil
}

// ListRequests implements [ServerAdapter] via GET /api/requests/{wallet}.
func (h *httpServerAdapter) ListRequests(ctx context.Context, wallet string) ([]models.RequestRecord, error) {
	var records []models.RequestRecord

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&records).
		Get("/api/requests/" + url.PathEscape(wallet))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return records, nil
}

// RequestChallenge implements [ServerAdapter] via POST /api/auth/challenge.
func (h *httpServerAdapter) RequestChallenge(ctx context.Context, address string) (models.Challenge, error) {
	var challenge models.Challenge

	resp, err := h.jsonRequest(ctx).
		SetBody(models.ChallengeRequest{Address: address}).
		SetResult(&challenge).
		Post("/api/auth/challenge")
	if err != nil {
		return models.Challenge{}, fmt.Errorf("challenge request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Challenge{}, err
	}

	return challenge, nil
}

// VerifyChallenge implements [ServerAdapter] via POST /api/auth/verify. The
// session token is read from the Authorization response header.
func (h *httpServerAdapter) VerifyChallenge(ctx context.Context, challengeResp models.ChallengeResponse) (models.Session, error) {
	var session models.Session

	resp, err := h.jsonRequest(ctx).
		SetBody(challengeResp).
		SetResult(&session).
		Post("/api/auth/verify")
	if err != nil {
		return models.Session{}, fmt.Errorf("verify challenge request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Session{}, fmt.Errorf("verify challenge parse bearer token: %w", err)
	}

	h.SetToken(token)
	return session, nil
}

// DecryptMetadata implements [ServerAdapter] via POST /api/nft/decrypt-metadata.
func (h *httpServerAdapter) DecryptMetadata(ctx context.Context, req models.DecryptMetadataRequest) (models.DecryptedView, error) {
	token := h.Token()
	if token == "" {
		return models.DecryptedView{}, ErrNoSession
	}

	var view models.DecryptedView

	resp, err := h.jsonRequest(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&view).
		Post("/api/nft/decrypt-metadata")
	if err != nil {
		return models.DecryptedView{}, fmt.Errorf("decrypt metadata request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DecryptedView{}, err
	}

	return view, nil
}

func (h *httpServerAdapter) jsonRequest(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
}

func requestPath(wallet, requestID string) string {
	return "/api/requests/" + url.PathEscape(wallet) + "/" + url.PathEscape(requestID)
}
