// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"seobuilder/internal/apperr"
	"seobuilder/internal/export"
	"seobuilder/internal/models"
	"seobuilder/internal/store"
)

// Exports groups the export lifecycle handlers.
type Exports struct {
	projects *Projects
	exports  *store.ExportStore
	service  *export.Service
}

// NewExports creates a new Exports handler group.
func NewExports(projects *Projects, exports *store.ExportStore, service *export.Service) *Exports {
	return &Exports{projects: projects, exports: exports, service: service}
}

// exportResponse decorates an export record with a staleness flag so
// clients can prompt for a re-export when page content has moved on.
type exportResponse struct {
	*models.ProjectExport
	Stale bool `json:"stale"`
}

// loadExport fetches an export after authorizing project access and
// verifies it belongs to the project in the URL.
func (h *Exports) loadExport(r *http.Request) (*models.ProjectExport, error) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		return nil, err
	}
	id, err := urlUUID(r, "exportID")
	if err != nil {
		return nil, err
	}
	rec, err := h.exports.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.ProjectID != project.ID {
		return nil, apperr.NotFound("export")
	}
	return rec, nil
}

// List returns the project's exports, newest first.
func (h *Exports) List(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.exports.ListByProject(r.Context(), project.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Create starts a new export. Packaging runs in the background; the
// response is the pending record, returned with 202 Accepted.
func (h *Exports) Create(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.service.Create(r.Context(), project)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("export queued", "export_id", rec.ID, "project_id", project.ID)
	writeJSON(w, http.StatusAccepted, rec)
}

// Get returns a single export with its staleness flag.
func (h *Exports) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.loadExport(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stale, err := h.service.HasChanged(r.Context(), rec)
	if err != nil {
		// Staleness is advisory; the record itself is still valid.
		slog.Warn("staleness check failed", "export_id", rec.ID, "error", err)
		stale = false
	}
	writeJSON(w, http.StatusOK, exportResponse{ProjectExport: rec, Stale: stale})
}

// Download streams the theme archive. Only ready, unexpired exports can
// be downloaded; anything else is a 409.
func (h *Exports) Download(w http.ResponseWriter, r *http.Request) {
	rec, err := h.loadExport(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, filename, err := h.service.Download(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if rec.FileSize != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *rec.FileSize))
	}
	if _, err := io.Copy(w, body); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("stream export failed", "export_id", rec.ID, "error", err)
	}
}

// Delete removes an export record and its stored artifact.
func (h *Exports) Delete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.loadExport(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("export deleted", "export_id", rec.ID)
	w.WriteHeader(http.StatusNoContent)
}
