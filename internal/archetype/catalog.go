// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package archetype provides the catalog of business-type starter sites
// and the idempotent bulk operation that instantiates one into a
// project's pages. Blueprints are immutable configuration embedded at
// compile time, the same way migrations are.
package archetype

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"seobuilder/internal/models"
)

//go:embed blueprints/*.json
var blueprintFS embed.FS

// DefaultName is the catch-all archetype used for unknown names.
const DefaultName = "default"

// PageBlueprint is the template data used to instantiate one Page.
type PageBlueprint struct {
	PageType        string               `json:"page_type"`
	Slug            string               `json:"slug"`
	Title           string               `json:"title"`
	MetaDescription string               `json:"meta_description"`
	SEOData         models.JSONMap       `json:"seo_data"`
	Structure       models.PageStructure `json:"page_structure"`
}

// Blueprint is a named, versioned bundle of page blueprints representing
// a business-type starter site.
type Blueprint struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Pages       []PageBlueprint `json:"pages"`
}

// Catalog resolves archetype names to blueprints. Parsed blueprints are
// cached for the process lifetime since the embedded data never changes.
type Catalog struct {
	mu    sync.RWMutex
	cache map[string]*Blueprint
}

// NewCatalog creates an empty catalog; blueprints load lazily on first use.
func NewCatalog() *Catalog {
	return &Catalog{cache: make(map[string]*Blueprint)}
}

// Get resolves an archetype by name. Unknown names fall back to the
// default archetype rather than erroring, matching the product behavior
// of "every business type gets a usable starter site".
func (c *Catalog) Get(name string) (*Blueprint, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	c.mu.RLock()
	bp, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return bp, nil
	}

	bp, err := c.load(name)
	if err != nil {
		if name == DefaultName {
			return nil, err
		}
		return c.Get(DefaultName)
	}

	c.mu.Lock()
	c.cache[name] = bp
	c.mu.Unlock()
	return bp, nil
}

// Names lists the archetypes shipped with the binary, sorted.
func (c *Catalog) Names() ([]string, error) {
	entries, err := blueprintFS.ReadDir("blueprints")
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (c *Catalog) load(name string) (*Blueprint, error) {
	data, err := blueprintFS.ReadFile("blueprints/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read blueprint %q: %w", name, err)
	}
	bp := &Blueprint{}
	if err := json.Unmarshal(data, bp); err != nil {
		return nil, fmt.Errorf("parse blueprint %q: %w", name, err)
	}
	return bp, nil
}
