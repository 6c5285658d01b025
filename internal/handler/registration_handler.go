/*
This file contains the HTTP handlers for the registration collection. Creating
a registration decrements the target event's spot counter and rejects sold-out
events with 409, which the client's gateway maps onto its conflict taxonomy.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/pkg/req"
	"eventbook/internal/pkg/resp"

	"eventbook/internal/app/store"
	"eventbook/internal/app/wire"
)

// HandleListRegistrations handles GET /registrations with optional userId and
// eventId filters.
func HandleListRegistrations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		eventID := r.URL.Query().Get("eventId")

		resp.Data(w, deps.Store.Registrations(userID, eventID))
	}
}

// HandleCreateRegistration handles POST /registrations.
func HandleCreateRegistration(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body wire.Registration
		if err := req.BindJSON(r, &body); err != nil {
			resp.Error(w, http.StatusBadRequest, err.Error(), "bad_request")
			return
		}

		if body.UserID == "" || body.EventID == "" {
			resp.Error(w, http.StatusBadRequest, "userId and eventId are required.", "bad_request")
			return
		}

		created, err := deps.Store.CreateRegistration(body)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrEventNotFound):
				resp.Error(w, http.StatusNotFound, "Event not found.", "not_found")
			case errors.Is(err, store.ErrEventFull):
				resp.Error(w, http.StatusConflict, "This event is sold out.", "event_full")
			default:
				resp.Error(w, http.StatusInternalServerError, "Registration failed.", "internal")
			}
			return
		}

		resp.JSON(w, http.StatusCreated, created)
	}
}

// HandleDeleteRegistration handles DELETE /registrations/{id}.
func HandleDeleteRegistration(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		deleted, ok := deps.Store.DeleteRegistration(id)
		if !ok {
			resp.Error(w, http.StatusNotFound, "Registration not found.", "not_found")
			return
		}

		resp.Data(w, deleted)
	}
}
