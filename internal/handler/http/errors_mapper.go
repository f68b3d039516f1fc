package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// errorResponse is the status and machine code an error is reported with.
type errorResponse struct {
	target error
	status int
	code   string
}

// errorResponseMap is checked in order and the first match wins, so more
// specific sentinels come before the ones that may wrap them.
var errorResponseMap = []errorResponse{
	{service.ErrInvalidSignatureFormat, http.StatusBadRequest, "invalid_signature_format"},
	{service.ErrSignatureMismatch, http.StatusUnauthorized, "signature_mismatch"},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, "invalid_request"},
	{ErrInvalidJSON, http.StatusBadRequest, "invalid_json"},

	{service.ErrNotRequestOwner, http.StatusForbidden, "not_request_owner"},
	{service.ErrUploaderMismatch, http.StatusForbidden, "uploader_mismatch"},
	{service.ErrViewerNotAuthorized, http.StatusForbidden, "viewer_not_authorized"},
	{ErrAdminOnly, http.StatusForbidden, "admin_only"},
	{service.ErrInvalidStatusTransition, http.StatusConflict, "invalid_status_transition"},

	{service.ErrTokenIsExpired, http.StatusUnauthorized, "token_expired"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{service.ErrChallengeInvalid, http.StatusUnauthorized, "challenge_invalid"},
	{service.ErrChallengeReused, http.StatusUnauthorized, "challenge_reused"},
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized, "unauthorized"},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized, "unauthorized"},
	{ErrEmptyToken, http.StatusUnauthorized, "unauthorized"},

	{service.ErrMetadataNotFound, http.StatusNotFound, "metadata_not_found"},
	{service.ErrMetadataHashMismatch, http.StatusConflict, "metadata_hash_mismatch"},
	{service.ErrMetadataMalformed, http.StatusUnprocessableEntity, "metadata_malformed"},

	{store.ErrRequestNotFound, http.StatusNotFound, "request_not_found"},
	{store.ErrRequestAlreadyExists, http.StatusConflict, "request_exists"},

	{crypto.ErrPrivateKeyNotConfigured, http.StatusServiceUnavailable, "server_key_unavailable"},
	{blobstore.ErrUnavailable, http.StatusBadGateway, "storage_unavailable"},
	{service.ErrVersionIsNotSpecified, http.StatusInternalServerError, "version_not_specified"},
}

func responseFromError(err error) (int, string) {
	for _, candidate := range errorResponseMap {
		if errors.Is(err, candidate.target) {
			return candidate.status, candidate.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeServiceError logs err and writes it as an error response. Messages
// of internal errors are not exposed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	log := logger.FromRequest(r)

	status, code := responseFromError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("code", code).Msg(action + " ended with error")
		message = http.StatusText(status)
	} else {
		log.Warn().Err(err).Str("code", code).Msg(action + " rejected")
	}

	utils.WriteError(w, status, code, message)
}
