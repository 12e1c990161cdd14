// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"seobuilder/internal/apperr"
	"seobuilder/internal/archetype"
	"seobuilder/internal/builder"
	"seobuilder/internal/models"
	"seobuilder/internal/store"
)

// Pages groups the page CRUD handlers. All routes are nested under a
// project, so every handler authorizes through the project first.
type Pages struct {
	projects *Projects
	pages    *store.PageStore
	creator  *builder.Creator
}

// NewPages creates a new Pages handler group.
func NewPages(projects *Projects, pages *store.PageStore, creator *builder.Creator) *Pages {
	return &Pages{projects: projects, pages: pages, creator: creator}
}

type pageRequest struct {
	PageType        string               `json:"page_type"`
	Slug            string               `json:"slug"`
	Title           string               `json:"title"`
	MetaDescription string               `json:"meta_description"`
	SEOData         models.JSONMap       `json:"seo_data"`
	Structure       models.PageStructure `json:"page_structure"`
}

// loadPage fetches a page after authorizing project access and verifies
// the page belongs to the project in the URL.
func (h *Pages) loadPage(r *http.Request) (*models.Project, *models.Page, error) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		return nil, nil, err
	}
	id, err := urlUUID(r, "pageID")
	if err != nil {
		return nil, nil, err
	}
	page, err := h.pages.FindByID(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	if page == nil || page.ProjectID != project.ID {
		return nil, nil, apperr.NotFound("page")
	}
	return project, page, nil
}

// List returns all pages of a project in creation order.
func (h *Pages) List(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pages, err := h.pages.ListByProject(r.Context(), project.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// Create adds a single page to the project. Slug normalization, SEO
// defaults, and structure validation all run before anything persists.
func (h *Pages) Create(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.loadAuthorized(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req pageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.creator.CreatePage(r.Context(), project, archetype.PageBlueprint{
		PageType:        req.PageType,
		Slug:            req.Slug,
		Title:           req.Title,
		MetaDescription: req.MetaDescription,
		SEOData:         req.SEOData,
		Structure:       req.Structure,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

// Get returns a single page.
func (h *Pages) Get(w http.ResponseWriter, r *http.Request) {
	_, page, err := h.loadPage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update replaces a page's content under optimistic concurrency. The
// If-Match header must carry the updated_at stamp (RFC 3339 with
// nanoseconds) from the last read; a stale stamp yields 409.
func (h *Pages) Update(w http.ResponseWriter, r *http.Request) {
	project, page, err := h.loadPage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ifMatch := r.Header.Get("If-Match")
	if ifMatch == "" {
		writeError(w, apperr.Validation("If-Match", "header is required"))
		return
	}
	stamp, err := time.Parse(time.RFC3339Nano, ifMatch)
	if err != nil {
		writeError(w, apperr.Validation("If-Match", "must be an RFC 3339 timestamp"))
		return
	}

	var req pageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// page_type is immutable: it anchors the per-type structure rules and
	// is part of the (project, page_type, slug) unique index. Validation
	// must run against the stored type, never a requested one.
	if req.PageType != "" && req.PageType != page.PageType {
		writeError(w, apperr.Validation("page_type", "cannot be changed after creation"))
		return
	}

	built, err := h.creator.Build(project, archetype.PageBlueprint{
		PageType:        page.PageType,
		Slug:            req.Slug,
		Title:           req.Title,
		MetaDescription: req.MetaDescription,
		SEOData:         req.SEOData,
		Structure:       req.Structure,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	page.Slug = built.Slug
	page.Title = built.Title
	page.Structure = built.Structure
	page.SEOData = built.SEOData
	page.MetaDesc = built.MetaDesc

	if err := h.pages.UpdateIfMatch(r.Context(), page, stamp); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Delete removes a page.
func (h *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	_, page, err := h.loadPage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.pages.Delete(r.Context(), page.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
