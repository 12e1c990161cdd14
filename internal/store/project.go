// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"seobuilder/internal/models"
)

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p := &models.Project{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_keywords, settings, created_at, updated_at
		FROM projects WHERE id = $1
	`, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.TargetKeywords, &p.Settings,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's projects, newest first.
func (s *ProjectStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_keywords, settings, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects by user: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.TargetKeywords, &p.Settings,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create inserts a new project and returns it with generated fields.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	result := &models.Project{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (user_id, name, target_keywords, settings)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, target_keywords, settings, created_at, updated_at
	`, p.UserID, p.Name, p.TargetKeywords, p.Settings).Scan(
		&result.ID, &result.UserID, &result.Name, &result.TargetKeywords,
		&result.Settings, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return result, nil
}

// Update modifies a project's mutable fields.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			name = $1, target_keywords = $2, settings = $3, updated_at = NOW()
		WHERE id = $4
	`, p.Name, p.TargetKeywords, p.Settings, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project. Pages and exports cascade at the schema level.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
