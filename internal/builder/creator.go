// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package builder turns page blueprints into validated, persisted pages.
// It normalizes slugs, fills SEO defaults, and runs the structure rules
// before anything touches the database.
package builder

import (
	"context"
	"fmt"

	"seobuilder/internal/apperr"
	"seobuilder/internal/archetype"
	"seobuilder/internal/models"
	"seobuilder/internal/slug"
	"seobuilder/internal/structure"
)

// PageStore persists batches of pages. The batch is a single
// transaction: either every page is created or none are.
type PageStore interface {
	CreateBatch(ctx context.Context, pages []*models.Page) error
}

// Creator builds pages from blueprints. It is the persistence gateway
// for the archetype path and for direct page creation.
type Creator struct {
	store     PageStore
	validator structure.Validator
}

// NewCreator returns a Creator using the strict structure rules.
func NewCreator(store PageStore) *Creator {
	return &Creator{store: store}
}

// CreatePage builds and persists a single page from a blueprint.
func (c *Creator) CreatePage(ctx context.Context, project *models.Project, bp archetype.PageBlueprint) (*models.Page, error) {
	page, err := c.Build(project, bp)
	if err != nil {
		return nil, err
	}
	if err := c.store.CreateBatch(ctx, []*models.Page{page}); err != nil {
		return nil, fmt.Errorf("persist page: %w", err)
	}
	return page, nil
}

// CreateFromBlueprints builds every blueprint in order and persists
// them in one transaction. A validation failure on any page leaves
// zero pages created.
func (c *Creator) CreateFromBlueprints(ctx context.Context, project *models.Project, blueprints []archetype.PageBlueprint) ([]*models.Page, error) {
	pages := make([]*models.Page, 0, len(blueprints))
	for _, bp := range blueprints {
		page, err := c.Build(project, bp)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", bp.PageType, err)
		}
		pages = append(pages, page)
	}
	if err := c.store.CreateBatch(ctx, pages); err != nil {
		return nil, fmt.Errorf("persist pages: %w", err)
	}
	return pages, nil
}

// Build validates and normalizes a blueprint into an unpersisted Page.
// Callers doing in-place updates use it to run the same rules without
// touching the store.
func (c *Creator) Build(project *models.Project, bp archetype.PageBlueprint) (*models.Page, error) {
	s := NormalizeSlug(bp.Slug, bp.Title)
	if !slug.Valid(s) {
		return nil, apperr.Validation("slug",
			fmt.Sprintf("slug %q must contain only lowercase letters, digits, and hyphens", bp.Slug))
	}
	if bp.Title == "" {
		return nil, apperr.Validation("title", "title is required")
	}
	if len(bp.MetaDescription) > 160 {
		return nil, apperr.Validation("meta_description",
			"meta_description must be at most 160 characters")
	}

	seo := withSEODefaults(bp.SEOData)

	st := bp.Structure
	if err := c.validator.CheckPage(bp.PageType, &st, seo); err != nil {
		return nil, err
	}

	page := &models.Page{
		ProjectID: project.ID,
		PageType:  bp.PageType,
		Slug:      s,
		Title:     bp.Title,
		Structure: &st,
		SEOData:   seo,
	}
	if bp.MetaDescription != "" {
		md := bp.MetaDescription
		page.MetaDesc = &md
	}
	return page, nil
}

// NormalizeSlug maps the conventional root slug "/" to "home" and
// generates a slug from the title when none is supplied.
func NormalizeSlug(s, title string) string {
	if s == "/" {
		return "home"
	}
	if s == "" {
		return slug.Generate(title)
	}
	return s
}

// withSEODefaults copies the map and fills robots with "index,follow"
// when absent. The blueprint's map is never mutated.
func withSEODefaults(seo models.JSONMap) models.JSONMap {
	out := make(models.JSONMap, len(seo)+1)
	for k, v := range seo {
		out[k] = v
	}
	if _, ok := out["robots"]; !ok {
		out["robots"] = "index,follow"
	}
	return out
}
