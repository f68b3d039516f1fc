package http

import (
	"net/http"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// getServerPublicKey publishes the RSA public key clients wrap submission
// keys for.
func (h *Handler) getServerPublicKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.services.KeyService.ServerPublicKey(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "server key lookup")
		return
	}

	utils.WriteJSON(w, key, http.StatusOK)
}
