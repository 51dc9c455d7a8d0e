package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/cache"
	"searchbar/internal/config"
	"searchbar/internal/metrics"
	"searchbar/internal/models"
	"searchbar/internal/searchbar"
)

// SearchHandler renders pages with their search block and redirects form submissions.
type SearchHandler struct {
	store   Store
	cache   *cache.BlockCache
	builder *searchbar.Builder
	cfg     *config.Config
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(store Store, blockCache *cache.BlockCache, cfg *config.Config) *SearchHandler {
	return &SearchHandler{
		store:   store,
		cache:   blockCache,
		builder: searchbar.NewBuilder(searchbar.NewSiteURLs(cfg.BasePath)),
		cfg:     cfg,
	}
}

// loadPage finds the page at the request path.
func (h *SearchHandler) loadPage(c fiber.Ctx) (*models.Page, error) {
	page, err := h.store.GetPageByPath(c.Context(), c.Path())
	if err != nil {
		return nil, notFound(err, "Page not found")
	}
	return page, nil
}

// Show renders the page at the request path with its search block, if any.
func (h *SearchHandler) Show(c fiber.Ctx) error {
	page, err := h.loadPage(c)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":           page.Title,
		"Page":            page,
		"FormID":          searchbar.FormID,
		"SearchTermField": searchbar.SearchTermField,
		"FormAction":      h.cfg.BasePath + c.Path(),
	}

	if page.BlockSlug != nil {
		defaults, err := LoadFormDefaults(c.Context(), h.store, h.cache, *page.BlockSlug)
		if err != nil {
			return notFound(err, "Search block not found")
		}
		data["Search"] = &defaults
	}

	return c.Render("page", MergeBranding(data, h.cfg))
}

// Submit handles a search form submission and redirects to the configured destination.
//
// The redirect is trusted: only the search term is read from the request.
// Parameter names, the facet, the custom parameter and the destination are
// re-derived from the stored block.
func (h *SearchHandler) Submit(c fiber.Ctx) error {
	page, err := h.loadPage(c)
	if err != nil {
		return err
	}
	if page.BlockSlug == nil {
		return fiber.NewError(fiber.StatusNotFound, "No search block on this page")
	}
	slug := *page.BlockSlug

	defaults, err := LoadFormDefaults(c.Context(), h.store, h.cache, slug)
	if err != nil {
		return notFound(err, "Search block not found")
	}

	q := defaults.Submit(c.FormValue(searchbar.SearchTermField))
	target, err := h.builder.Build(q, searchbar.PathContext(page.CanonicalPath()))
	if err != nil {
		log.Printf("Search block %s: %v", slug, err)
		metrics.RecordSearchRedirect(slug, models.DestinationUnresolvable)
		return fiber.NewError(fiber.StatusBadGateway, "Search destination could not be resolved")
	}

	kind := models.DestinationInternal
	if target.Absolute {
		kind = models.DestinationAbsolute
	}
	metrics.RecordSearchRedirect(slug, kind)

	return c.Redirect().Status(fiber.StatusFound).To(target.URL)
}
