package builder

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"seobuilder/internal/apperr"
	"seobuilder/internal/archetype"
	"seobuilder/internal/models"
)

type memStore struct {
	batches [][]*models.Page
	fail    error
}

func (m *memStore) CreateBatch(_ context.Context, pages []*models.Page) error {
	if m.fail != nil {
		return m.fail
	}
	m.batches = append(m.batches, pages)
	return nil
}

func heroTree() models.PageStructure {
	return models.PageStructure{
		Version: "1.0",
		Components: []models.Component{{
			ID:   "hero-1",
			Type: models.ComponentHero,
			Props: models.JSONMap{
				"headline":   "Welcome",
				"aria_label": "Hero",
			},
			PromptMetadata: models.JSONMap{},
		}},
	}
}

func blueprint() archetype.PageBlueprint {
	return archetype.PageBlueprint{
		PageType:        "home",
		Slug:            "/",
		Title:           "Home",
		MetaDescription: "Landing page",
		SEOData:         models.JSONMap{"schema": "WebPage", "keywords": []any{"welcome"}},
		Structure:       heroTree(),
	}
}

func TestCreatePageNormalizesRootSlug(t *testing.T) {
	store := &memStore{}
	page, err := NewCreator(store).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, blueprint())
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.Slug != "home" {
		t.Errorf("slug = %q, want %q", page.Slug, "home")
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 1 {
		t.Fatalf("expected one persisted page, got %v", store.batches)
	}
}

func TestCreatePageGeneratesSlugFromTitle(t *testing.T) {
	bp := blueprint()
	bp.PageType = "services"
	bp.Slug = ""
	bp.Title = "Our Services & Rates"

	page, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.Slug != "our-services-rates" {
		t.Errorf("slug = %q, want %q", page.Slug, "our-services-rates")
	}
}

func TestCreatePageRejectsBadSlug(t *testing.T) {
	for _, bad := range []string{"Hello", "two words", "snake_case", "a/b"} {
		bp := blueprint()
		bp.Slug = bad
		_, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
		if !apperr.IsValidation(err) {
			t.Errorf("slug %q: expected validation error, got %v", bad, err)
		}
	}
}

func TestCreatePageDefaultsRobots(t *testing.T) {
	bp := blueprint()
	page, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if got := page.SEOData["robots"]; got != "index,follow" {
		t.Errorf("robots = %v, want index,follow", got)
	}
	if _, mutated := bp.SEOData["robots"]; mutated {
		t.Error("blueprint seo_data was mutated")
	}
}

func TestCreatePageKeepsExplicitRobots(t *testing.T) {
	bp := blueprint()
	bp.SEOData["robots"] = "noindex"
	page, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if got := page.SEOData["robots"]; got != "noindex" {
		t.Errorf("robots = %v, want noindex", got)
	}
}

func TestCreatePageValidatesStructure(t *testing.T) {
	bp := blueprint()
	bp.Structure.Components = append(bp.Structure.Components, models.Component{
		ID:   "hero-2",
		Type: models.ComponentHero,
		Props: models.JSONMap{
			"headline":   "Second",
			"aria_label": "Hero",
		},
		PromptMetadata: models.JSONMap{},
	})

	store := &memStore{}
	_, err := NewCreator(store).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Error("invalid page must not be persisted")
	}
}

func TestCreatePageRequiresSEOKeywords(t *testing.T) {
	bp := blueprint()
	delete(bp.SEOData, "keywords")
	_, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePageMetaDescriptionLimit(t *testing.T) {
	bp := blueprint()
	long := make([]byte, 161)
	for i := range long {
		long[i] = 'a'
	}
	bp.MetaDescription = string(long)
	_, err := NewCreator(&memStore{}).CreatePage(context.Background(), &models.Project{ID: uuid.New()}, bp)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateFromBlueprintsSingleBatch(t *testing.T) {
	catalog := archetype.NewCatalog()
	bp, err := catalog.Get("services")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	store := &memStore{}
	project := &models.Project{ID: uuid.New()}
	pages, err := NewCreator(store).CreateFromBlueprints(context.Background(), project, bp.Pages)
	if err != nil {
		t.Fatalf("CreateFromBlueprints: %v", err)
	}
	if len(pages) != len(bp.Pages) {
		t.Fatalf("got %d pages, want %d", len(pages), len(bp.Pages))
	}
	if len(store.batches) != 1 {
		t.Fatalf("expected one transaction batch, got %d", len(store.batches))
	}
	for _, p := range pages {
		if p.ProjectID != project.ID {
			t.Errorf("page %q not scoped to project", p.PageType)
		}
	}
	if pages[0].Slug != "home" {
		t.Errorf("home slug = %q, want %q", pages[0].Slug, "home")
	}
}

func TestCreateFromBlueprintsFailsAtomically(t *testing.T) {
	catalog := archetype.NewCatalog()
	bp, err := catalog.Get("services")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	pages := append([]archetype.PageBlueprint(nil), bp.Pages...)
	pages[2].Structure = models.PageStructure{Version: "1.0"}

	store := &memStore{}
	_, err = NewCreator(store).CreateFromBlueprints(context.Background(), &models.Project{ID: uuid.New()}, pages)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Error("no batch may be written when any page fails validation")
	}
}
