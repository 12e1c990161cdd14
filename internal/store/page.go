// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
)

// PageStore handles all page-related database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, project_id, page_type, slug, title, meta_description,
	       page_structure, seo_data, ai_generated_content, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }, p *models.Page) error {
	return row.Scan(
		&p.ID, &p.ProjectID, &p.PageType, &p.Slug, &p.Title, &p.MetaDesc,
		&p.Structure, &p.SEOData, &p.AIContent, &p.CreatedAt, &p.UpdatedAt,
	)
}

// FindByID retrieves a page by its UUID. Returns nil if not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p := &models.Page{}
	err := scanPage(s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+` FROM pages WHERE id = $1
	`, id), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// ListByProject returns a project's pages ordered by id so callers get a
// stable order for rendering and fingerprinting.
func (s *PageStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE project_id = $1
		ORDER BY id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pages by project: %w", err)
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		p := &models.Page{}
		if err := scanPage(rows, p); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CreateBatch inserts pages in a single transaction. Either every page
// is created or none are; the unique (project_id, page_type, slug)
// index surfaces duplicates as a conflict. Generated fields are written
// back into the given structs.
func (s *PageStore) CreateBatch(ctx context.Context, pages []*models.Page) error {
	if len(pages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin page batch: %w", err)
	}
	defer tx.Rollback()

	for _, p := range pages {
		err := scanPage(tx.QueryRowContext(ctx, `
			INSERT INTO pages (project_id, page_type, slug, title, meta_description,
			                   page_structure, seo_data, ai_generated_content)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+pageColumns+`
		`, p.ProjectID, p.PageType, p.Slug, p.Title, p.MetaDesc,
			p.Structure, p.SEOData, p.AIContent), p)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Wrap(apperr.CodeConflict,
					fmt.Sprintf("page %q/%q already exists in project", p.PageType, p.Slug), err)
			}
			return fmt.Errorf("create page %q: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit page batch: %w", err)
	}
	return nil
}

// UpdateIfMatch applies the page's current fields only when the stored
// updated_at still equals ifMatch. A timestamp mismatch means someone
// else saved first and returns a conflict; the caller should reload.
// page_type is deliberately absent from the SET list: it is immutable
// after creation, and callers enforce that before validating.
func (s *PageStore) UpdateIfMatch(ctx context.Context, p *models.Page, ifMatch time.Time) error {
	err := scanPage(s.db.QueryRowContext(ctx, `
		UPDATE pages SET
			slug = $1, title = $2, meta_description = $3,
			page_structure = $4, seo_data = $5, ai_generated_content = $6,
			updated_at = NOW()
		WHERE id = $7 AND updated_at = $8
		RETURNING `+pageColumns+`
	`, p.Slug, p.Title, p.MetaDesc, p.Structure, p.SEOData, p.AIContent,
		p.ID, ifMatch), p)
	if err == sql.ErrNoRows {
		existing, ferr := s.FindByID(ctx, p.ID)
		if ferr != nil {
			return ferr
		}
		if existing == nil {
			return apperr.NotFound("page")
		}
		return apperr.New(apperr.CodeConflict,
			"page was modified by another request, reload and retry")
	}
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

// Delete removes a page.
func (s *PageStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}
