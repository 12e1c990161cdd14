// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"seobuilder/internal/apperr"
	"seobuilder/internal/archetype"
	"seobuilder/internal/auth"
	"seobuilder/internal/middleware"
	"seobuilder/internal/models"
	"seobuilder/internal/store"
)

const maxProjectNameLen = 200

// Projects groups the project CRUD and archetype handlers.
type Projects struct {
	projects *store.ProjectStore
	catalog  *archetype.Catalog
	applier  *archetype.Applier
}

// NewProjects creates a new Projects handler group.
func NewProjects(projects *store.ProjectStore, catalog *archetype.Catalog, applier *archetype.Applier) *Projects {
	return &Projects{projects: projects, catalog: catalog, applier: applier}
}

type projectRequest struct {
	Name           string            `json:"name"`
	TargetKeywords models.StringList `json:"target_keywords"`
	Settings       models.JSONMap    `json:"settings"`
}

func (req *projectRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("name", "is required")
	}
	if len(req.Name) > maxProjectNameLen {
		return apperr.Validation("name", "is too long (max 200 characters)")
	}
	return nil
}

// loadAuthorized fetches the project and enforces the access policy.
// Denials are indistinguishable from a missing project.
func (h *Projects) loadAuthorized(r *http.Request) (*models.Project, error) {
	id, err := urlUUID(r, "projectID")
	if err != nil {
		return nil, err
	}
	project, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	identity := middleware.IdentityFromCtx(r.Context())
	if err := auth.RequireProjectAccess(identity, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the caller's projects, newest first.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())
	projects, err := h.projects.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create creates a new project owned by the caller.
func (h *Projects) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())
	if !auth.CanCreateProjects(identity) {
		writeError(w, apperr.New(apperr.CodeForbidden, "role cannot create projects"))
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projects.Create(r.Context(), &models.Project{
		UserID:         identity.UserID,
		Name:           req.Name,
		TargetKeywords: req.TargetKeywords,
		Settings:       req.Settings,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("project created", "project_id", project.ID, "user_id", identity.UserID)
	writeJSON(w, http.StatusCreated, project)
}

// Get returns a single project.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Update replaces the project's name, keywords, and settings.
func (h *Projects) Update(w http.ResponseWriter, r *http.Request) {
	project, err := h.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	project.Name = req.Name
	project.TargetKeywords = req.TargetKeywords
	project.Settings = req.Settings
	if err := h.projects.Update(r.Context(), project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete removes a project. Pages and exports cascade in the database.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	project, err := h.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.projects.Delete(r.Context(), project.ID); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("project deleted", "project_id", project.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ListArchetypes returns the available archetype names.
func (h *Projects) ListArchetypes(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalog.Names()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"archetypes": names})
}

type applyArchetypeRequest struct {
	Archetype string `json:"archetype"`
}

// ApplyArchetype scaffolds the project's pages from a named archetype
// blueprint. The Idempotency-Key header is required; replays with the
// same key return the original result without creating pages again.
func (h *Projects) ApplyArchetype(w http.ResponseWriter, r *http.Request) {
	project, err := h.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		writeError(w, apperr.Validation("Idempotency-Key", "header is required"))
		return
	}

	var req applyArchetypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pages, err := h.applier.ApplyToProject(r.Context(), project, req.Archetype, key)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("archetype applied",
		"project_id", project.ID,
		"archetype", req.Archetype,
		"pages", len(pages),
	)
	writeJSON(w, http.StatusOK, pages)
}
