package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/models"
)

// challenge issues a one-time login challenge for a wallet address.
func (h *Handler) challenge(w http.ResponseWriter, r *http.Request) {
	var req models.ChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "challenge")
		return
	}

	challenge, err := h.services.AuthService.IssueChallenge(r.Context(), req.Address)
	if err != nil {
		writeServiceError(w, r, err, "challenge")
		return
	}

	utils.WriteJSON(w, challenge, http.StatusOK)
}

// verifyChallenge exchanges a signed challenge for a session. The token is
// returned in the Authorization header, the session description in the
// body.
func (h *Handler) verifyChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var resp models.ChallengeResponse
	if err := decodeJSON(r, &resp); err != nil {
		writeServiceError(w, r, err, "challenge verification")
		return
	}
	if err := h.validator.Validate(r.Context(), resp); err != nil {
		writeServiceError(w, r, errInvalid(err), "challenge verification")
		return
	}

	token, session, err := h.services.AuthService.VerifyChallenge(r.Context(), resp)
	if err != nil {
		writeServiceError(w, r, err, "challenge verification")
		return
	}

	log.Debug().Str("wallet", session.Address).Bool("admin", session.IsAdmin).Msg("session issued")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, session, http.StatusOK)
}
