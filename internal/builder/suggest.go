// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"strings"

	"seobuilder/internal/models"
)

// SuggestLayout proposes a starting component tree for a page targeting
// the given keywords. The result is a suggestion only: it is not
// validated or persisted, and unknown keyword sets yield an empty tree
// the caller can build on.
func SuggestLayout(keywords []string) models.PageStructure {
	st := models.PageStructure{Version: "1.0"}
	if !hasKeyword(keywords, "business valuation") {
		return st
	}
	st.Components = []models.Component{
		{
			ID:   "hero-1",
			Type: models.ComponentHero,
			Props: models.JSONMap{
				"headline": "Expert Business Valuations",
				"sub":      "USPAP-compliant reports",
				"cta":      "Get a Quote",
			},
		},
		{
			ID:    "main-1",
			Type:  models.ComponentMain,
			Props: models.JSONMap{"content": "Main content section"},
		},
		{
			ID:   "services-1",
			Type: "ServicesGrid",
			Props: models.JSONMap{
				"heading": "Valuation Services",
				"items": []models.JSONMap{
					{"title": "M&A Valuations"},
					{"title": "Gift & Estate"},
				},
			},
		},
		{
			ID:    "cta-1",
			Type:  models.ComponentCTA,
			Props: models.JSONMap{"text": "Schedule a Call"},
		},
	}
	return st
}

func hasKeyword(keywords []string, want string) bool {
	for _, k := range keywords {
		if strings.EqualFold(strings.TrimSpace(k), want) {
			return true
		}
	}
	return false
}
