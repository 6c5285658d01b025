/*
This file contains the HTTP handlers for the event collection: listing with
pagination and search, and fetching a single event by id.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/pkg/resp"
)

// HandleListEvents handles GET /events. It supports page, limit, and search
// query parameters and returns a paginated envelope.
func HandleListEvents(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)
		search := r.URL.Query().Get("search")

		resp.Data(w, deps.Store.Events(page, limit, search))
	}
}

// HandleGetEvent handles GET /events/{id}.
func HandleGetEvent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		event, ok := deps.Store.Event(id)
		if !ok {
			resp.Error(w, http.StatusNotFound, "Event not found.", "not_found")
			return
		}

		resp.Data(w, event)
	}
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
