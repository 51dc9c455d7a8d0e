package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"searchbar/internal/config"
	"searchbar/internal/models"
)

// Seeder writes config-declared blocks and pages.
type Seeder interface {
	UpsertBlock(ctx context.Context, b *models.Block) error
	UpsertPage(ctx context.Context, p *models.Page) error
}

// BlockInvalidator drops cached state for a block slug.
type BlockInvalidator interface {
	Invalidate(slug string)
}

// SyncYAMLConfig upserts the blocks and pages declared in the YAML config
// and invalidates the cached form defaults of every synced block.
func (d *DB) SyncYAMLConfig(ctx context.Context, cfg *config.YAMLConfig, inv BlockInvalidator) error {
	return SyncYAMLConfig(ctx, d, cfg, inv)
}

// SyncYAMLConfig writes cfg through s. Blocks are written first so pages can
// reference them by slug. inv may be nil.
func SyncYAMLConfig(ctx context.Context, s Seeder, cfg *config.YAMLConfig, inv BlockInvalidator) error {
	if cfg == nil {
		return nil
	}

	ids := make(map[string]uuid.UUID, len(cfg.Blocks))
	for _, bc := range cfg.Blocks {
		b := &models.Block{
			Slug:               bc.Slug,
			Label:              bc.Label,
			BlockConfiguration: bc.BlockConfiguration,
		}
		if err := s.UpsertBlock(ctx, b); err != nil {
			return fmt.Errorf("failed to sync block %s: %w", bc.Slug, err)
		}
		if inv != nil {
			inv.Invalidate(b.Slug)
		}
		ids[b.Slug] = b.ID
	}

	for _, pc := range cfg.Pages {
		p := &models.Page{SystemPath: pc.Path, Title: pc.Title}
		if pc.Alias != "" {
			alias := pc.Alias
			p.Alias = &alias
		}
		if pc.Block != "" {
			id, ok := ids[pc.Block]
			if !ok {
				return fmt.Errorf("page %s references unknown block %s", pc.Path, pc.Block)
			}
			p.BlockID = &id
		}
		if err := s.UpsertPage(ctx, p); err != nil {
			return fmt.Errorf("failed to sync page %s: %w", pc.Path, err)
		}
	}

	return nil
}
