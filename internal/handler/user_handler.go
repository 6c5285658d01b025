/*
This file contains the HTTP handlers for the user collection: listing with an
optional email filter, creation, lookup by id, and full-record updates.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/pkg/req"
	"eventbook/internal/pkg/resp"

	"eventbook/internal/app/wire"
)

// HandleListUsers handles GET /users. The optional email query parameter
// filters by exact address, which is how the client resolves logins.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")

		resp.Data(w, deps.Store.Users(email))
	}
}

// HandleCreateUser handles POST /users.
func HandleCreateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body wire.User
		if err := req.BindJSON(r, &body); err != nil {
			resp.Error(w, http.StatusBadRequest, err.Error(), "bad_request")
			return
		}

		if body.Email == "" {
			resp.Error(w, http.StatusBadRequest, "Email is required.", "bad_request")
			return
		}

		for _, existing := range deps.Store.Users(body.Email) {
			if existing.Email == body.Email {
				resp.Error(w, http.StatusConflict, "A user with this email already exists.", "already_exists")
				return
			}
		}

		created := deps.Store.CreateUser(body)
		resp.JSON(w, http.StatusCreated, created)
	}
}

// HandleGetUser handles GET /users/{id}.
func HandleGetUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		user, ok := deps.Store.User(id)
		if !ok {
			resp.Error(w, http.StatusNotFound, "User not found.", "not_found")
			return
		}

		resp.Data(w, user)
	}
}

// HandleUpdateUser handles PUT /users/{id}. The client uses this both for
// profile edits and for the mirrored registeredEventIds projection.
func HandleUpdateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body wire.User
		if err := req.BindJSON(r, &body); err != nil {
			resp.Error(w, http.StatusBadRequest, err.Error(), "bad_request")
			return
		}

		updated, ok := deps.Store.UpdateUser(id, body)
		if !ok {
			resp.Error(w, http.StatusNotFound, "User not found.", "not_found")
			return
		}

		resp.Data(w, updated)
	}
}
