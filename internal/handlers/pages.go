package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/config"
	"searchbar/internal/db"
	"searchbar/internal/middleware"
	"searchbar/internal/models"
	"searchbar/internal/validation"
)

// PageHandler handles page administration.
type PageHandler struct {
	store Store
	cfg   *config.Config
}

// NewPageHandler creates a new page admin handler.
func NewPageHandler(store Store, cfg *config.Config) *PageHandler {
	return &PageHandler{store: store, cfg: cfg}
}

// Index lists pages and the blocks that can be placed on them.
func (h *PageHandler) Index(c fiber.Ctx) error {
	pages, err := h.store.ListPages(c.Context())
	if err != nil {
		return err
	}
	blocks, err := h.store.ListBlocks(c.Context())
	if err != nil {
		return err
	}

	return c.Render("admin/pages", MergeBranding(fiber.Map{
		"Title":  "Pages",
		"Pages":  pages,
		"Blocks": blocks,
		"Admin":  middleware.AdminEmail(c),
	}, h.cfg))
}

// Create adds a page, optionally placing a block on it.
func (h *PageHandler) Create(c fiber.Ctx) error {
	systemPath := c.FormValue("system_path")
	if valid, msg := validation.ValidatePagePath(systemPath); !valid {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	page := &models.Page{
		SystemPath: systemPath,
		Title:      c.FormValue("title"),
	}

	if alias := c.FormValue("alias"); alias != "" {
		if valid, msg := validation.ValidatePagePath(alias); !valid {
			return fiber.NewError(fiber.StatusBadRequest, "Alias: "+msg)
		}
		page.Alias = &alias
	}

	if slug := c.FormValue("block"); slug != "" {
		block, err := h.store.GetBlockBySlug(c.Context(), slug)
		if err != nil {
			if errors.Is(err, db.ErrBlockNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown search block")
			}
			return err
		}
		page.BlockID = &block.ID
	}

	if err := h.store.CreatePage(c.Context(), page); err != nil {
		if errors.Is(err, db.ErrDuplicatePath) {
			return fiber.NewError(fiber.StatusConflict, "A page with this path or alias already exists")
		}
		return err
	}

	return c.Redirect().To(h.cfg.BasePath + "/admin/pages")
}

// Delete removes a page.
func (h *PageHandler) Delete(c fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.store.DeletePage(c.Context(), id); err != nil {
		return notFound(err, "Page not found")
	}

	return c.Redirect().To(h.cfg.BasePath + "/admin/pages")
}
