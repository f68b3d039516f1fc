package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if len(h.allowedOrigins) > 0 {
		router.Use(h.withCORS())
	}
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version/", h.getServerVersion)
		r.Get("/api/keys/server", h.getServerPublicKey)

		r.Post("/api/auth/challenge", h.challenge)
		r.Post("/api/auth/verify", h.verifyChallenge)

		// writes are authenticated by the uploader signature over the
		// envelope hash, not by a session
		r.Post("/api/requests", h.createRequest)
		r.Patch("/api/requests/{wallet}/{id}", h.updateRequest)

		// reads are unauthenticated: a record only holds CIDs, hashes and
		// signatures, and its ciphertext needs the server key
		r.Get("/api/requests/{wallet}", h.listRequests)
		r.Get("/api/requests/{wallet}/{id}", h.getRequest)
	})

	// routes with session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/nft/decrypt-metadata", h.decryptMetadata)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Get("/requests", h.listRequestsByStatus)
			r.Patch("/requests/{id}/status", h.setRequestStatus)
			r.Post("/requests/{id}/minted", h.markRequestMinted)
		})
	})

	hideUnknownRoutes(router)

	return router
}

func (h *Handler) withCORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "Authorization", traceIDHeader},
		ExposedHeaders: []string{"Authorization", traceIDHeader},
	}).Handler
}
