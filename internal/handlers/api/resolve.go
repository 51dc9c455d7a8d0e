package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/cache"
	"searchbar/internal/config"
	"searchbar/internal/db"
	"searchbar/internal/handlers"
	"searchbar/internal/models"
	"searchbar/internal/searchbar"
	"searchbar/internal/validation"
)

// ResolveHandler computes search redirect targets via JSON API.
type ResolveHandler struct {
	store   handlers.Store
	cache   *cache.BlockCache
	builder *searchbar.Builder
}

// NewResolveHandler creates a new API resolve handler.
func NewResolveHandler(store handlers.Store, blockCache *cache.BlockCache, cfg *config.Config) *ResolveHandler {
	return &ResolveHandler{
		store:   store,
		cache:   blockCache,
		builder: searchbar.NewBuilder(searchbar.NewSiteURLs(cfg.BasePath)),
	}
}

// Resolve returns where a search for q on page would redirect, without redirecting.
// page defaults to "/" and is replaced by its alias when it names a known page.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))
	if !validation.ValidateSlug(slug) {
		return jsonError(c, fiber.StatusBadRequest, "invalid block slug")
	}

	pagePath := c.Query("page", "/")
	if valid, msg := validation.ValidatePagePath(pagePath); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if page, err := h.store.GetPageByPath(c.Context(), pagePath); err == nil {
		pagePath = page.CanonicalPath()
	} else if !errors.Is(err, db.ErrPageNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load page")
	}

	defaults, err := handlers.LoadFormDefaults(c.Context(), h.store, h.cache, slug)
	if err != nil {
		if errors.Is(err, db.ErrBlockNotFound) {
			return jsonError(c, fiber.StatusNotFound, "block not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load block")
	}

	target, err := h.builder.Build(defaults.Submit(c.Query("q")), searchbar.PathContext(pagePath))
	if err != nil {
		log.Printf("Search block %s: %v", slug, err)
		return jsonError(c, fiber.StatusBadGateway, "search destination could not be resolved")
	}

	return jsonSuccess(c, models.ResolveResponse{
		Block:    slug,
		Page:     pagePath,
		URL:      target.URL,
		Absolute: target.Absolute,
	})
}
