// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
	"seobuilder/internal/storage"
)

const (
	// retention is how long export records and artifacts are kept.
	retention = 24 * time.Hour

	// sweepBatch bounds how many stale exports one housekeeping pass
	// deletes, so export creation stays fast.
	sweepBatch = 100
)

// Store is the persistence surface for export records.
type Store interface {
	Create(ctx context.Context, e *models.ProjectExport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectExport, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkReady(ctx context.Context, id uuid.UUID, filePath, filename string, size *int64) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	RecordDownload(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProjectExport, error)
}

// PageLister loads a project's pages ordered by id.
type PageLister interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Page, error)
}

// Service owns the export lifecycle: create a pending record, package
// asynchronously, transition to ready or failed, serve downloads, and
// sweep expired records.
type Service struct {
	exports  Store
	pages    PageLister
	packager *Packager
	disk     storage.Disk

	wg sync.WaitGroup
}

// NewService wires an export service.
func NewService(exports Store, pages PageLister, packager *Packager, disk storage.Disk) *Service {
	return &Service{exports: exports, pages: pages, packager: packager, disk: disk}
}

// Create fingerprints the project's current pages, persists a pending
// export, and kicks off packaging in the background. The record returns
// immediately in pending state.
func (s *Service) Create(ctx context.Context, project *models.Project) (*models.ProjectExport, error) {
	// Opportunistic housekeeping. Failures here never block the export.
	s.sweepExpired(ctx)

	pages, err := s.pages.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	sha, err := Snapshot(pages)
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(retention)
	rec := &models.ProjectExport{
		ProjectID:   project.ID,
		ExportType:  models.ExportTypeWordPressTheme,
		Status:      models.ExportPending,
		SnapshotSHA: &sha,
		ExpiresAt:   &expires,
		Metadata:    models.JSONMap{"page_count": len(pages)},
	}
	if err := s.exports.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create export record: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The request context ends when the response is sent; packaging
		// continues on its own context.
		s.Process(context.Background(), rec, project, pages)
	}()

	return rec, nil
}

// Process runs one packaging pass for a pending export and transitions
// the record to ready or failed. Exposed so a job runner can invoke it
// directly.
func (s *Service) Process(ctx context.Context, rec *models.ProjectExport, project *models.Project, pages []*models.Page) {
	if err := s.exports.MarkProcessing(ctx, rec.ID); err != nil {
		slog.Error("export transition to processing failed", "export_id", rec.ID, "error", err)
		return
	}

	key, filename, err := s.packager.GenerateTheme(ctx, project, pages)
	if err != nil {
		slog.Error("export packaging failed",
			"export_id", rec.ID, "project_id", project.ID, "error", err)
		if ferr := s.exports.MarkFailed(ctx, rec.ID); ferr != nil {
			slog.Error("export transition to failed failed", "export_id", rec.ID, "error", ferr)
		}
		return
	}

	var size *int64
	if n, err := s.disk.Size(ctx, key); err == nil {
		size = &n
	} else {
		slog.Warn("export size probe failed", "export_id", rec.ID, "key", key, "error", err)
	}

	if err := s.exports.MarkReady(ctx, rec.ID, key, filename, size); err != nil {
		slog.Error("export transition to ready failed", "export_id", rec.ID, "error", err)
		return
	}
	slog.Info("export ready",
		"export_id", rec.ID, "project_id", project.ID, "file", filename)
}

// Wait blocks until all in-flight packaging runs finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Download opens the export artifact for streaming. Downloads of
// exports that are not ready are conflicts; a ready record whose file
// vanished is not found. The download counter update is best-effort.
func (s *Service) Download(ctx context.Context, rec *models.ProjectExport) (io.ReadCloser, string, error) {
	if !rec.IsReady() {
		return nil, "", apperr.New(apperr.CodeConflict, "export is not ready for download")
	}
	if rec.FilePath == nil {
		return nil, "", apperr.NotFound("export file")
	}

	body, err := s.disk.Open(ctx, *rec.FilePath)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeNotFound, "export file not found", err)
	}

	if err := s.exports.RecordDownload(ctx, rec.ID); err != nil {
		slog.Warn("download bookkeeping failed", "export_id", rec.ID, "error", err)
	}

	return body, rec.DownloadFilename(), nil
}

// HasChanged reports whether the project's pages have changed since the
// export was created. An export with no stored fingerprint is always
// considered changed.
func (s *Service) HasChanged(ctx context.Context, rec *models.ProjectExport) (bool, error) {
	if rec.SnapshotSHA == nil {
		return true, nil
	}
	pages, err := s.pages.ListByProject(ctx, rec.ProjectID)
	if err != nil {
		return false, fmt.Errorf("list pages: %w", err)
	}
	sha, err := Snapshot(pages)
	if err != nil {
		return false, err
	}
	return sha != *rec.SnapshotSHA, nil
}

// Delete removes the artifact first, then the record, so a failed file
// deletion never orphans a blob behind a vanished record. Missing files
// are fine.
func (s *Service) Delete(ctx context.Context, rec *models.ProjectExport) error {
	if rec.FilePath != nil {
		if err := s.disk.Delete(ctx, *rec.FilePath); err != nil {
			return apperr.Wrap(apperr.CodeStorage, "delete export artifact", err)
		}
	}
	if err := s.exports.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete export record: %w", err)
	}
	return nil
}

// SweepExpired deletes exports older than the retention window in
// bounded batches. Used both opportunistically on create and from the
// scheduled cleanup job.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-retention)
	deleted := 0
	for {
		stale, err := s.exports.ListOlderThan(ctx, cutoff, sweepBatch)
		if err != nil {
			return deleted, fmt.Errorf("list stale exports: %w", err)
		}
		progress := 0
		for _, rec := range stale {
			if err := s.Delete(ctx, rec); err != nil {
				slog.Warn("stale export delete failed", "export_id", rec.ID, "error", err)
			} else {
				progress++
			}
		}
		deleted += progress
		// A full batch with zero progress would repeat forever.
		if len(stale) < sweepBatch || progress == 0 {
			return deleted, nil
		}
	}
}

func (s *Service) sweepExpired(ctx context.Context) {
	if n, err := s.SweepExpired(ctx); err != nil {
		slog.Warn("export housekeeping failed", "error", err)
	} else if n > 0 {
		slog.Info("expired exports removed", "count", n)
	}
}
