// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Well-known component types. The set is open: any other string is legal
// and renders as a placeholder marker in exported themes.
const (
	ComponentHero    = "Hero"
	ComponentMain    = "Main"
	ComponentSection = "Section"
	ComponentCTA     = "CTA"
)

// Component is a single typed building block inside a page structure.
// Props carries the user-editable content; PromptMetadata carries AI
// generation hints (maxLength, readingLevel) consumed by the content
// generation subsystem, not by the builder itself.
type Component struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Props          JSONMap `json:"props"`
	PromptMetadata JSONMap `json:"prompt_metadata"`
}

// StringProp returns a string prop by name, or "" if absent or not a string.
func (c Component) StringProp(name string) string {
	v, _ := c.Props[name].(string)
	return v
}

// IntProp returns an integer prop by name, or def if absent. JSON numbers
// decode as float64, so both forms are accepted.
func (c Component) IntProp(name string, def int) int {
	switch v := c.Props[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// PageStructure is the ordered component tree stored in the
// pages.page_structure JSONB column.
type PageStructure struct {
	Version    string      `json:"version"`
	Components []Component `json:"components"`
}

// Value marshals the structure for storage.
func (ps PageStructure) Value() (driver.Value, error) {
	return json.Marshal(ps)
}

// Scan unmarshals a JSONB column into the structure.
func (ps *PageStructure) Scan(src any) error {
	if src == nil {
		*ps = PageStructure{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan PageStructure: unexpected type %T", src)
	}
	return json.Unmarshal(b, ps)
}

// Page is a single page of a project: a semantic category (page_type), a
// URL slug unique per project+page_type, and a component tree that must
// satisfy the heading rules whenever present.
type Page struct {
	ID        uuid.UUID      `json:"id"`
	ProjectID uuid.UUID      `json:"project_id"`
	PageType  string         `json:"page_type"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	MetaDesc  *string        `json:"meta_description"`
	Structure *PageStructure `json:"page_structure"`
	SEOData   JSONMap        `json:"seo_data"`
	AIContent JSONMap        `json:"ai_generated_content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsHome returns true for the project's landing page.
func (p *Page) IsHome() bool {
	return p.PageType == "home"
}
