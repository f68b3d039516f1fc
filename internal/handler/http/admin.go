package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/models"
)

// listRequestsByStatus returns the review queue. Without ?status= every
// request is returned.
func (h *Handler) listRequestsByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.RequestStatus(r.URL.Query().Get("status"))

	records, err := h.services.SubmissionService.ListByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err, "review queue listing")
		return
	}

	if records == nil {
		records = []models.RequestRecord{}
	}
	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) setRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "status change")
		return
	}

	record, err := h.services.SubmissionService.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err, "status change")
		return
	}

	admin, _ := utils.GetWalletFromContext(r.Context())
	logger.FromRequest(r).Info().
		Str("admin", admin).
		Str("request_id", record.RequestID).
		Str("status", string(record.Status)).
		Msg("request reviewed")

	utils.WriteJSON(w, record, http.StatusOK)
}

// markRequestMinted removes an approved request once its credential is
// minted.
func (h *Handler) markRequestMinted(w http.ResponseWriter, r *http.Request) {
	if err := h.services.SubmissionService.MarkMinted(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "mint confirmation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
