package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// IPFSStore talks to an IPFS node through the Kubo RPC API
// (/api/v0/add, /api/v0/cat, /api/v0/pin/rm).
type IPFSStore struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

type ipfsAddResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

type ipfsErrorResponse struct {
	Message string `json:"Message"`
	Code    int    `json:"Code"`
	Type    string `json:"Type"`
}

// NewIPFSStore builds a store for the Kubo RPC endpoint at apiAddress. A
// non-empty authToken is sent as a bearer token, as pinning gateways expect.
func NewIPFSStore(apiAddress, authToken string, timeout time.Duration, log *logger.Logger) (*IPFSStore, error) {
	baseURL, err := utils.NormalizeBaseURL(apiAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid ipfs api address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL).SetTimeout(timeout)
	if authToken != "" {
		client.SetAuthToken(authToken)
	}

	return &IPFSStore{client: client, logger: log}, nil
}

// Pin implements [Store]. Blobs are added as CIDv1 raw leaves and pinned.
func (s *IPFSStore) Pin(ctx context.Context, data []byte) (string, error) {
	var added ipfsAddResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cid-version": "1",
			"raw-leaves":  "true",
			"pin":         "true",
		}).
		SetFileReader("file", "blob", bytes.NewReader(data)).
		SetResult(&added).
		Post("/api/v0/add")
	if err != nil {
		return "", fmt.Errorf("%w: add: %w", ErrUnavailable, err)
	}
	if err = mapIPFSError(resp); err != nil {
		return "", err
	}

	c, err := ParseCID(added.Hash)
	if err != nil {
		return "", fmt.Errorf("%w: add returned %q", ErrUnavailable, added.Hash)
	}

	s.logger.Debug().Str("cid", c).Int("size", len(data)).Msg("blob pinned to ipfs")
	return c, nil
}

// Fetch implements [Store].
func (s *IPFSStore) Fetch(ctx context.Context, c string) ([]byte, error) {
	canonical, err := ParseCID(c)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("arg", canonical).
		Post("/api/v0/cat")
	if err != nil {
		return nil, fmt.Errorf("%w: cat %s: %w", ErrUnavailable, canonical, err)
	}
	if err = mapIPFSError(resp); err != nil {
		return nil, fmt.Errorf("cat %s: %w", canonical, err)
	}

	return resp.Body(), nil
}

// Unpin implements [Store]. A CID that is not pinned counts as unpinned.
func (s *IPFSStore) Unpin(ctx context.Context, c string) error {
	canonical, err := ParseCID(c)
	if err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("arg", canonical).
		Post("/api/v0/pin/rm")
	if err != nil {
		return fmt.Errorf("%w: pin/rm %s: %w", ErrUnavailable, canonical, err)
	}

	err = mapIPFSError(resp)
	if err != nil && strings.Contains(ipfsErrorMessage(resp), "not pinned") {
		return nil
	}
	return err
}

func ipfsErrorMessage(resp *resty.Response) string {
	var body ipfsErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(resp.Body()))
}

func mapIPFSError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	message := ipfsErrorMessage(resp)
	if resp.StatusCode() == http.StatusNotFound ||
		strings.Contains(message, "not found") ||
		strings.Contains(message, "no link named") {
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	}

	return fmt.Errorf("%w: http %d: %s", ErrUnavailable, resp.StatusCode(), message)
}
