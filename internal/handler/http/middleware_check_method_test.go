// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// buildRouter registers a few static routes without Handler.Init so no
// services are needed.
func buildRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/api/keys/server", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("key"))
	})
	router.Post("/api/requests", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	router.Route("/api/admin", func(r chi.Router) {
		r.Patch("/requests/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	hideUnknownRoutes(router)

	return router
}

func TestHideUnknownRoutes(t *testing.T) {
	router := buildRouter()

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/api/keys/server", http.StatusOK},
		{http.MethodPost, "/api/requests", http.StatusCreated},
		{http.MethodPatch, "/api/admin/requests/req-1/status", http.StatusOK},

		{http.MethodPost, "/api/keys/server", http.StatusNotFound},
		{http.MethodDelete, "/api/requests", http.StatusNotFound},
		{http.MethodGet, "/api/admin/requests/req-1/status", http.StatusNotFound},

		{http.MethodGet, "/api/nonexistent", http.StatusNotFound},
		{http.MethodGet, "/api/admin/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestHideUnknownRoutes_Body(t *testing.T) {
	router := buildRouter()

	for _, method := range []string{http.MethodPut, http.MethodGet} {
		path := "/api/requests"
		if method == http.MethodGet {
			path = "/api/unknown"
		}

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

		var body utils.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, codeRouteNotFound, body.Error)
		assert.Equal(t, "no route for "+method+" "+path, body.Message)
	}
}

func TestHideUnknownRoutes_PassThroughBody(t *testing.T) {
	rr := httptest.NewRecorder()
	buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/keys/server", nil))

	assert.Equal(t, "key", rr.Body.String())
}

func TestHideUnknownRoutes_ConcurrentRequests(t *testing.T) {
	router := buildRouter()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			method, want := http.MethodGet, http.StatusOK
			if i%2 == 0 {
				method, want = http.MethodDelete, http.StatusNotFound
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(method, "/api/keys/server", nil))
			assert.Equal(t, want, rr.Code)
		}(i)
	}
	wg.Wait()
}
