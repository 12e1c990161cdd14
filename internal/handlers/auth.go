// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"seobuilder/internal/auth"
	"seobuilder/internal/middleware"
	"seobuilder/internal/models"
	"seobuilder/internal/store"
)

const minPasswordLen = 8

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	users  *store.UserStore
	tokens *auth.TokenStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *auth.TokenStore) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new user account with the owner role.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "a valid email is required", Code: "VALIDATION"})
		return
	}
	if len(req.Password) < minPasswordLen {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "password must be at least 8 characters", Code: "VALIDATION"})
		return
	}

	existing, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, errorBody{Error: "email is already registered", Code: "CONFLICT"})
		return
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Password, req.DisplayName, models.RoleOwner)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login verifies credentials and issues a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		writeError(w, err)
		return
	}

	// Same response for unknown email and wrong password.
	if user == nil || !a.users.VerifyPassword(user, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
		return
	}

	token, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Logout revokes the presented bearer token. Revoking an unknown or
// missing token is not an error.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.tokens.Revoke(r.Context(), middleware.BearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated identity.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	writeJSON(w, http.StatusOK, id)
}
