// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportStatus tracks the lifecycle of an export artifact.
// pending -> processing -> ready | failed. Terminal states only leave
// via deletion.
type ExportStatus string

const (
	ExportPending    ExportStatus = "pending"
	ExportProcessing ExportStatus = "processing"
	ExportReady      ExportStatus = "ready"
	ExportFailed     ExportStatus = "failed"
)

// ExportTypeWordPressTheme is currently the only supported export type.
const ExportTypeWordPressTheme = "wordpress_theme"

// ProjectExport is a generated theme package for a project. FilePath is
// non-nil exactly when Status is ready. SnapshotSHA fingerprints the
// project's page content at creation time so staleness can be detected.
type ProjectExport struct {
	ID               uuid.UUID    `json:"id"`
	ProjectID        uuid.UUID    `json:"project_id"`
	ExportType       string       `json:"export_type"`
	Status           ExportStatus `json:"status"`
	FilePath         *string      `json:"file_path,omitempty"`
	OriginalFilename *string      `json:"original_filename,omitempty"`
	FileSize         *int64       `json:"file_size,omitempty"`
	DownloadCount    int          `json:"download_count"`
	LastDownloadedAt *time.Time   `json:"last_downloaded_at"`
	ExpiresAt        *time.Time   `json:"expires_at"`
	SnapshotSHA      *string      `json:"snapshot_sha,omitempty"`
	Metadata         JSONMap      `json:"export_metadata"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// IsExpired returns true when an expiry is set and has passed.
func (e *ProjectExport) IsExpired() bool {
	return e.ExpiresAt != nil && e.ExpiresAt.Before(time.Now())
}

// IsReady returns true when the artifact can be downloaded.
func (e *ProjectExport) IsReady() bool {
	return e.Status == ExportReady && !e.IsExpired()
}

// DownloadFilename returns the filename sent to the client.
func (e *ProjectExport) DownloadFilename() string {
	if e.OriginalFilename != nil && *e.OriginalFilename != "" {
		return *e.OriginalFilename
	}
	return fmt.Sprintf("project-%s-export.zip", e.ProjectID)
}

// FileSizeFormatted renders the byte size for display ("1.2 MB").
func (e *ProjectExport) FileSizeFormatted() string {
	if e.FileSize == nil || *e.FileSize <= 0 {
		return "Unknown"
	}
	size := float64(*e.FileSize)
	units := []string{"B", "KB", "MB", "GB"}
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
