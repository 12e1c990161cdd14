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

	"seobuilder/internal/models"
)

// ExportStore handles all export-record database operations.
type ExportStore struct {
	db *sql.DB
}

// NewExportStore creates a new ExportStore with the given database connection.
func NewExportStore(db *sql.DB) *ExportStore {
	return &ExportStore{db: db}
}

const exportColumns = `id, project_id, export_type, status, file_path, original_filename,
	       file_size, download_count, last_downloaded_at, expires_at,
	       snapshot_sha, export_metadata, created_at, updated_at`

func scanExport(row interface{ Scan(...any) error }, e *models.ProjectExport) error {
	return row.Scan(
		&e.ID, &e.ProjectID, &e.ExportType, &e.Status, &e.FilePath,
		&e.OriginalFilename, &e.FileSize, &e.DownloadCount,
		&e.LastDownloadedAt, &e.ExpiresAt, &e.SnapshotSHA, &e.Metadata,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// Create inserts a pending export record, writing generated fields back
// into e.
func (s *ExportStore) Create(ctx context.Context, e *models.ProjectExport) error {
	err := scanExport(s.db.QueryRowContext(ctx, `
		INSERT INTO project_exports (project_id, export_type, status, expires_at,
		                             snapshot_sha, export_metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+exportColumns+`
	`, e.ProjectID, e.ExportType, e.Status, e.ExpiresAt, e.SnapshotSHA, e.Metadata), e)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	return nil
}

// GetByID retrieves an export by its UUID. Returns nil if not found.
func (s *ExportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectExport, error) {
	e := &models.ProjectExport{}
	err := scanExport(s.db.QueryRowContext(ctx, `
		SELECT `+exportColumns+` FROM project_exports WHERE id = $1
	`, id), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find export by id: %w", err)
	}
	return e, nil
}

// ListByProject returns a project's exports, newest first.
func (s *ExportStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectExport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exportColumns+` FROM project_exports
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list exports by project: %w", err)
	}
	defer rows.Close()

	var exports []models.ProjectExport
	for rows.Next() {
		var e models.ProjectExport
		if err := scanExport(rows, &e); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// MarkProcessing transitions a pending export to processing.
func (s *ExportStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_exports SET status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}
	return nil
}

// MarkReady transitions a processing export to ready and stores the
// artifact metadata.
func (s *ExportStore) MarkReady(ctx context.Context, id uuid.UUID, filePath, filename string, size *int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_exports SET
			status = 'ready', file_path = $1, original_filename = $2,
			file_size = $3, updated_at = NOW()
		WHERE id = $4
	`, filePath, filename, size, id)
	if err != nil {
		return fmt.Errorf("mark export ready: %w", err)
	}
	return nil
}

// MarkFailed transitions an export to failed. File metadata is left
// untouched; a failed export never references an artifact.
func (s *ExportStore) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_exports SET status = 'failed', updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}

// RecordDownload atomically increments the download counter and stamps
// the download time in one statement.
func (s *ExportStore) RecordDownload(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_exports SET
			download_count = download_count + 1,
			last_downloaded_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("record export download: %w", err)
	}
	return nil
}

// Delete removes an export record.
func (s *ExportStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM project_exports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	return nil
}

// ListOlderThan returns up to limit exports created before cutoff,
// oldest first, for the housekeeping sweep.
func (s *ExportStore) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProjectExport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exportColumns+` FROM project_exports
		WHERE created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale exports: %w", err)
	}
	defer rows.Close()

	var exports []*models.ProjectExport
	for rows.Next() {
		e := &models.ProjectExport{}
		if err := scanExport(rows, e); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
