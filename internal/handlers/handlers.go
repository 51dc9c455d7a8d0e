package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"searchbar/internal/cache"
	"searchbar/internal/db"
	"searchbar/internal/models"
	"searchbar/internal/searchbar"
)

// Store is the persistence the HTTP handlers need. *db.DB implements it.
type Store interface {
	CreateBlock(ctx context.Context, b *models.Block) error
	GetBlockByID(ctx context.Context, id uuid.UUID) (*models.Block, error)
	GetBlockBySlug(ctx context.Context, slug string) (*models.Block, error)
	ListBlocks(ctx context.Context) ([]models.Block, error)
	UpdateBlockConfiguration(ctx context.Context, id uuid.UUID, cfg models.BlockConfiguration) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error

	CreatePage(ctx context.Context, p *models.Page) error
	GetPageByPath(ctx context.Context, path string) (*models.Page, error)
	ListPages(ctx context.Context) ([]models.Page, error)
	DeletePage(ctx context.Context, id uuid.UUID) error
}

// LoadFormDefaults returns the resolved form defaults of the block with slug,
// reading through the block cache.
func LoadFormDefaults(ctx context.Context, store Store, blockCache *cache.BlockCache, slug string) (searchbar.FormDefaults, error) {
	if d, ok := blockCache.Get(slug); ok {
		return d, nil
	}

	block, err := store.GetBlockBySlug(ctx, slug)
	if err != nil {
		return searchbar.FormDefaults{}, err
	}

	d := searchbar.Resolve(block.BlockConfiguration)
	blockCache.Set(slug, d)
	return d, nil
}

// parseID parses the :id route parameter.
func parseID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// notFound maps db not-found sentinels to a 404, passing other errors through.
func notFound(err error, message string) error {
	if errors.Is(err, db.ErrBlockNotFound) || errors.Is(err, db.ErrPageNotFound) {
		return fiber.NewError(fiber.StatusNotFound, message)
	}
	return err
}
