// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

const codeRouteNotFound = "route_not_found"

// hideUnknownRoutes makes chi answer both unknown paths and unsupported
// methods with the same JSON 404. A 405 would tell a caller that the path
// exists.
func hideUnknownRoutes(router *chi.Mux) {
	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, codeRouteNotFound, "no route for "+r.Method+" "+r.URL.Path)
}
