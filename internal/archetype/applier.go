// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package archetype

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
)

const (
	// resultTTL is how long a completed application is replayable under
	// its idempotency key.
	resultTTL = 24 * time.Hour

	// claimTTL bounds how long an in-flight application holds its claim.
	// If the process dies mid-apply, the key frees itself after this.
	claimTTL = 2 * time.Minute
)

// PageCreator instantiates a batch of page blueprints into persisted
// pages. The whole batch is atomic: a validation failure on any page
// leaves zero pages created.
type PageCreator interface {
	CreateFromBlueprints(ctx context.Context, project *models.Project, blueprints []PageBlueprint) ([]*models.Page, error)
}

// ResultCache is the idempotency store. Claim must be atomic
// (set-if-not-exists) so two concurrent first requests cannot both
// execute.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Applier orchestrates applying a named archetype to a project,
// gated by an idempotency key.
type Applier struct {
	catalog *Catalog
	creator PageCreator
	cache   ResultCache
}

// NewApplier wires an applier from its collaborators.
func NewApplier(catalog *Catalog, creator PageCreator, cache ResultCache) *Applier {
	return &Applier{catalog: catalog, creator: creator, cache: cache}
}

// ApplyToProject instantiates the named archetype into the project's
// pages. Replays under the same (project, idempotencyKey) pair return
// the first invocation's result without creating anything; a concurrent
// duplicate while the first is still running is a conflict.
func (a *Applier) ApplyToProject(ctx context.Context, project *models.Project, name, idempotencyKey string) ([]*models.Page, error) {
	cacheKey := fmt.Sprintf("idempotency:%s:%s", project.ID, idempotencyKey)

	if cached, err := a.cache.Get(ctx, cacheKey); err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	} else if cached != nil {
		var pages []*models.Page
		if err := json.Unmarshal(cached, &pages); err != nil {
			return nil, fmt.Errorf("decode cached result: %w", err)
		}
		slog.Info("idempotent archetype apply replayed",
			"project_id", project.ID, "key", idempotencyKey)
		return pages, nil
	}

	claimed, err := a.cache.Claim(ctx, cacheKey+":claim", claimTTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency claim: %w", err)
	}
	if !claimed {
		return nil, apperr.New(apperr.CodeConflict,
			"an identical request is already in progress")
	}

	pages, err := a.apply(ctx, project, name)
	if err != nil {
		// Free the claim so the caller can retry after fixing the input.
		if relErr := a.cache.Release(ctx, cacheKey+":claim"); relErr != nil {
			slog.Warn("idempotency claim release failed", "key", cacheKey, "error", relErr)
		}
		return nil, err
	}

	payload, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("encode result for cache: %w", err)
	}
	if err := a.cache.Put(ctx, cacheKey, payload, resultTTL); err != nil {
		// The pages exist; a replay will re-create nothing because the
		// unique index rejects duplicates. Log and return the result.
		slog.Warn("idempotency result store failed", "key", cacheKey, "error", err)
	}

	return pages, nil
}

func (a *Applier) apply(ctx context.Context, project *models.Project, name string) ([]*models.Page, error) {
	bp, err := a.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateBlueprint(bp); err != nil {
		return nil, err
	}

	pages, err := a.creator.CreateFromBlueprints(ctx, project, bp.Pages)
	if err != nil {
		return nil, err
	}

	slog.Info("archetype applied",
		"project_id", project.ID, "archetype", name, "pages", len(pages))
	return pages, nil
}

// ValidateBlueprint checks a blueprint's overall shape, aggregating every
// offending field into one validation error. Built-in archetypes always
// pass; this guards custom or future blueprint sources.
func ValidateBlueprint(bp *Blueprint) error {
	fields := map[string][]string{}
	add := func(path, msg string) { fields[path] = append(fields[path], msg) }

	if bp.Name == "" {
		add("name", "name is required")
	}
	if bp.Description == "" {
		add("description", "description is required")
	}
	if len(bp.Pages) == 0 {
		add("pages", "at least one page is required")
	}

	for i, p := range bp.Pages {
		prefix := fmt.Sprintf("pages.%d", i)
		if p.PageType == "" {
			add(prefix+".page_type", "page_type is required")
		}
		if p.Slug == "" {
			add(prefix+".slug", "slug is required")
		}
		if p.Title == "" {
			add(prefix+".title", "title is required")
		}
		if p.MetaDescription == "" {
			add(prefix+".meta_description", "meta_description is required")
		} else if len(p.MetaDescription) > 160 {
			add(prefix+".meta_description", "meta_description must be at most 160 characters")
		}
		if p.SEOData == nil {
			add(prefix+".seo_data", "seo_data is required")
		} else {
			if _, ok := p.SEOData["schema"]; !ok {
				add(prefix+".seo_data.schema", "seo_data.schema is required")
			}
			if _, ok := p.SEOData["keywords"]; !ok {
				add(prefix+".seo_data.keywords", "seo_data.keywords is required")
			}
		}
		if p.Structure.Version == "" {
			add(prefix+".page_structure.version", "page_structure.version is required")
		}
		if len(p.Structure.Components) == 0 {
			add(prefix+".page_structure.components", "at least one component is required")
		}
		for j, c := range p.Structure.Components {
			cPrefix := fmt.Sprintf("%s.page_structure.components.%d", prefix, j)
			if c.ID == "" {
				add(cPrefix+".id", "component id is required")
			}
			if c.Type == "" {
				add(cPrefix+".type", "component type is required")
			}
			if c.Props == nil {
				add(cPrefix+".props", "component props are required")
			} else if v, _ := c.Props["aria_label"].(string); v == "" {
				add(cPrefix+".props.aria_label", "aria_label is required")
			}
			if c.PromptMetadata == nil {
				add(cPrefix+".prompt_metadata", "prompt_metadata must be present")
			}
		}
	}

	if len(fields) > 0 {
		return apperr.ValidationFields("archetype blueprint is malformed", fields)
	}
	return nil
}
