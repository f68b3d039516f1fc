package http

import (
	"net/http"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
	"github.com/MKhiriev/go-doc-verify/models"
)

// decryptMetadata returns the decrypted view of an envelope to the session
// wallet that owns it.
func (h *Handler) decryptMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.DecryptMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "metadata decryption")
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		writeServiceError(w, r, errInvalid(err), "metadata decryption")
		return
	}

	wallet, _ := utils.GetWalletFromContext(ctx)
	session := models.Session{Address: wallet, IsAdmin: utils.IsAdminFromContext(ctx)}

	view, err := h.services.DecryptService.DecryptMetadata(ctx, session, req)
	if err != nil {
		writeServiceError(w, r, err, "metadata decryption")
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}
