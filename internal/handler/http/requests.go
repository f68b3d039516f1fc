package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/models"
)

// createRequest registers a new verification request. The uploader
// signature over the envelope hash is the only credential.
func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "request creation")
		return
	}

	record, err := h.services.SubmissionService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "request creation")
		return
	}

	utils.WriteJSON(w, record, http.StatusCreated)
}

// updateRequest replaces the envelope of the request at
// /api/requests/{wallet}/{id}.
func (h *Handler) updateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "request update")
		return
	}

	record, err := h.services.SubmissionService.Update(r.Context(), chi.URLParam(r, "wallet"), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err, "request update")
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	record, err := h.services.SubmissionService.Get(r.Context(), chi.URLParam(r, "wallet"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "request lookup")
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	records, err := h.services.SubmissionService.ListByWallet(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeServiceError(w, r, err, "request listing")
		return
	}

	if records == nil {
		records = []models.RequestRecord{}
	}
	utils.WriteJSON(w, records, http.StatusOK)
}
