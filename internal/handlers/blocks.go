package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/cache"
	"searchbar/internal/config"
	"searchbar/internal/db"
	"searchbar/internal/middleware"
	"searchbar/internal/models"
	"searchbar/internal/searchbar"
	"searchbar/internal/validation"
)

// BlockHandler handles search block administration.
type BlockHandler struct {
	store Store
	cache *cache.BlockCache
	cfg   *config.Config
}

// NewBlockHandler creates a new block admin handler.
func NewBlockHandler(store Store, blockCache *cache.BlockCache, cfg *config.Config) *BlockHandler {
	return &BlockHandler{store: store, cache: blockCache, cfg: cfg}
}

// Index lists all search blocks with their destination health.
func (h *BlockHandler) Index(c fiber.Ctx) error {
	blocks, err := h.store.ListBlocks(c.Context())
	if err != nil {
		return err
	}

	return c.Render("admin/blocks", MergeBranding(fiber.Map{
		"Title":  "Search blocks",
		"Blocks": blocks,
		"Admin":  middleware.AdminEmail(c),
	}, h.cfg))
}

// New renders the create block form.
func (h *BlockHandler) New(c fiber.Ctx) error {
	return c.Render("admin/block_new", MergeBranding(fiber.Map{
		"Title": "New search block",
		"Admin": middleware.AdminEmail(c),
	}, h.cfg))
}

// Create adds a block with an empty configuration and opens its edit form.
func (h *BlockHandler) Create(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.FormValue("slug"))
	if !validation.ValidateSlug(slug) {
		return fiber.NewError(fiber.StatusBadRequest, "Slug must contain only lowercase letters, numbers, hyphens and underscores")
	}

	block := &models.Block{
		Slug:  slug,
		Label: c.FormValue("label"),
	}
	if err := h.store.CreateBlock(c.Context(), block); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return fiber.NewError(fiber.StatusConflict, "A block with this slug already exists")
		}
		return err
	}

	log.Printf("Block %s created by %s", block.Slug, middleware.AdminEmail(c))
	return c.Redirect().To(h.cfg.BasePath + "/admin/blocks/" + block.ID.String() + "/edit")
}

// Edit renders the configuration form of a block.
func (h *BlockHandler) Edit(c fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	block, err := h.store.GetBlockByID(c.Context(), id)
	if err != nil {
		return notFound(err, "Block not found")
	}

	form := block.BlockConfiguration
	if form.SearchParam == "" {
		form.SearchParam = searchbar.DefaultSearchParam
	}

	return c.Render("admin/block_edit", MergeBranding(fiber.Map{
		"Title": "Edit " + block.Label,
		"Block": block,
		"Form":  form,
		"Admin": middleware.AdminEmail(c),
	}, h.cfg))
}

// Update writes every configuration field back as submitted.
func (h *BlockHandler) Update(c fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	block, err := h.store.GetBlockByID(c.Context(), id)
	if err != nil {
		return notFound(err, "Block not found")
	}

	cfg := models.BlockConfiguration{
		SearchPage:             c.FormValue("search_page"),
		SearchParam:            c.FormValue("search_param"),
		SearchFacetName:        c.FormValue("search_facet_name"),
		SearchFacet:            c.FormValue("search_facet"),
		SearchCustomParam:      c.FormValue("search_custom_param"),
		SearchCustomParamValue: c.FormValue("search_custom_param_value"),
		SearchPlaceholder:      c.FormValue("search_placeholder"),
		SearchTitle:            c.FormValue("search_title"),
	}
	if err := h.store.UpdateBlockConfiguration(c.Context(), id, cfg); err != nil {
		return notFound(err, "Block not found")
	}
	h.cache.InvalidateAfterWrite(block.Slug)

	log.Printf("Block %s updated by %s", block.Slug, middleware.AdminEmail(c))
	return c.Redirect().To(h.cfg.BasePath + "/admin/blocks")
}

// Delete removes a block. Pages carrying it keep rendering without a search form.
func (h *BlockHandler) Delete(c fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	block, err := h.store.GetBlockByID(c.Context(), id)
	if err != nil {
		return notFound(err, "Block not found")
	}

	if err := h.store.DeleteBlock(c.Context(), id); err != nil {
		return notFound(err, "Block not found")
	}
	h.cache.InvalidateAfterWrite(block.Slug)

	log.Printf("Block %s deleted by %s", block.Slug, middleware.AdminEmail(c))
	return c.Redirect().To(h.cfg.BasePath + "/admin/blocks")
}
