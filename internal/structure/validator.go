// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package structure validates page component trees against the semantic
// HTML and SEO invariants: a single H1-equivalent heading, a gap-free
// heading hierarchy, and per-page-type Hero constraints on the archetype
// creation path.
package structure

import (
	"fmt"

	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
)

// Validator holds the rule toggles. The zero value is the strict default:
// structures without any heading are rejected, consistent with the
// exactly-one-H1 invariant.
type Validator struct {
	// AllowEmpty accepts structures that contain no headings at all.
	// Off by default; some imported content predates the H1 rule.
	AllowEmpty bool

	// RequireMain additionally demands a Main landmark component.
	// Off by default: archetype home pages use Hero + section components
	// without a literal Main block.
	RequireMain bool
}

// headingLevels extracts the ordered heading levels from a structure.
// A Hero with a non-empty headline contributes a level-1 heading; a
// Section with a non-empty heading contributes its heading_level prop
// (default 2). h1Count is the number of level-1 entries regardless of
// which component type produced them, so a Section at heading_level 1
// satisfies the H1 rule the same way a Hero does.
func headingLevels(ps *models.PageStructure) (levels []int, h1Count int, hasMain bool) {
	if ps == nil {
		return nil, 0, false
	}
	for _, c := range ps.Components {
		switch c.Type {
		case models.ComponentHero:
			if c.StringProp("headline") != "" {
				levels = append(levels, 1)
			}
		case models.ComponentSection:
			if c.StringProp("heading") != "" {
				levels = append(levels, c.IntProp("heading_level", 2))
			}
		case models.ComponentMain:
			hasMain = true
		}
	}
	for _, l := range levels {
		if l == 1 {
			h1Count++
		}
	}
	return levels, h1Count, hasMain
}

// hierarchyValid checks that levels start at 1 and never skip downward:
// a heading may be at most one level deeper than its predecessor.
// Repeats and jumps back up are fine.
func hierarchyValid(levels []int) bool {
	if len(levels) == 0 {
		return true
	}
	if levels[0] != 1 {
		return false
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] > levels[i-1]+1 {
			return false
		}
	}
	return true
}

// Validate reports whether a component tree satisfies the heading rules.
// Used on the generic page create/update path where a boolean verdict
// is enough.
func (v Validator) Validate(ps *models.PageStructure) bool {
	levels, h1Count, hasMain := headingLevels(ps)
	if v.AllowEmpty && len(levels) == 0 {
		return !v.RequireMain || hasMain
	}
	if h1Count != 1 {
		return false
	}
	if !hierarchyValid(levels) {
		return false
	}
	if v.RequireMain && !hasMain {
		return false
	}
	return true
}

// CheckPage enforces the full archetype-path rule set for a page being
// created from a blueprint, returning field-scoped validation errors.
// Beyond Validate, this adds the Hero-count rule (home pages need exactly
// one Hero, others at most one) and the seo_data schema/keywords
// requirement. The AllowEmpty and RequireMain toggles apply here the
// same way they do in Validate.
func (v Validator) CheckPage(pageType string, ps *models.PageStructure, seo models.JSONMap) error {
	levels, h1Count, hasMain := headingLevels(ps)

	if h1Count != 1 && !(v.AllowEmpty && len(levels) == 0) {
		return apperr.Validation("page_structure.components",
			fmt.Sprintf("page must contain exactly one H1 heading, found %d", h1Count))
	}
	if !hierarchyValid(levels) {
		return apperr.Validation("page_structure.components",
			"heading levels must start at 1 and not skip levels")
	}
	if v.RequireMain && !hasMain {
		return apperr.Validation("page_structure.components",
			"page must contain a Main component")
	}

	heroCount := 0
	if ps != nil {
		for _, c := range ps.Components {
			if c.Type == models.ComponentHero {
				heroCount++
			}
		}
	}
	if pageType == "home" && heroCount != 1 {
		return apperr.Validation("page_structure.components",
			fmt.Sprintf("home page must contain exactly one Hero component, found %d", heroCount))
	}
	if pageType != "home" && heroCount > 1 {
		return apperr.Validation("page_structure.components",
			fmt.Sprintf("page may contain at most one Hero component, found %d", heroCount))
	}

	if _, ok := seo["schema"]; !ok {
		return apperr.Validation("seo_data.schema", "seo_data.schema is required")
	}
	if _, ok := seo["keywords"]; !ok {
		return apperr.Validation("seo_data.keywords", "seo_data.keywords is required")
	}

	return nil
}
