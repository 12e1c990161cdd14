// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export builds downloadable theme packages and manages their
// lifecycle records: pending, processing, ready, failed.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"seobuilder/internal/models"
)

// snapshotPage is the fixed-order serialization of the fields that make
// an export stale when they change.
type snapshotPage struct {
	ID        uuid.UUID             `json:"id"`
	Title     string                `json:"title"`
	Slug      string                `json:"slug"`
	Structure *models.PageStructure `json:"structure"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Snapshot computes the content fingerprint of a project's pages:
// a SHA-256 over (id, title, slug, structure, updated_at) of every page,
// ordered by id so the digest is stable regardless of input order.
func Snapshot(pages []*models.Page) (string, error) {
	entries := make([]snapshotPage, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, snapshotPage{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Structure: p.Structure,
			UpdatedAt: p.UpdatedAt.UTC(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID.String() < entries[j].ID.String()
	})

	payload, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
