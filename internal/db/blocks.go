package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"searchbar/internal/models"
)

const blockColumns = `
	id, slug, label, search_page, search_param, search_facet_name, search_facet,
	search_custom_param, search_custom_param_value, search_placeholder, search_title,
	destination_status, destination_checked_at, destination_error, created_at, updated_at
`

func scanBlock(row pgx.Row) (*models.Block, error) {
	var b models.Block
	err := row.Scan(
		&b.ID, &b.Slug, &b.Label, &b.SearchPage, &b.SearchParam, &b.SearchFacetName, &b.SearchFacet,
		&b.SearchCustomParam, &b.SearchCustomParamValue, &b.SearchPlaceholder, &b.SearchTitle,
		&b.DestinationStatus, &b.DestinationCheckedAt, &b.DestinationError, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBlock creates a new block.
func (d *DB) CreateBlock(ctx context.Context, b *models.Block) error {
	query := `
		INSERT INTO blocks (slug, label, search_page, search_param, search_facet_name, search_facet,
			search_custom_param, search_custom_param_value, search_placeholder, search_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, destination_status, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		b.Slug, b.Label, b.SearchPage, b.SearchParam, b.SearchFacetName, b.SearchFacet,
		b.SearchCustomParam, b.SearchCustomParamValue, b.SearchPlaceholder, b.SearchTitle,
	).Scan(&b.ID, &b.DestinationStatus, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// UpsertBlock creates a block or overwrites the configuration of the block with the same slug.
func (d *DB) UpsertBlock(ctx context.Context, b *models.Block) error {
	query := `
		INSERT INTO blocks (slug, label, search_page, search_param, search_facet_name, search_facet,
			search_custom_param, search_custom_param_value, search_placeholder, search_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO UPDATE SET
			label = EXCLUDED.label,
			search_page = EXCLUDED.search_page,
			search_param = EXCLUDED.search_param,
			search_facet_name = EXCLUDED.search_facet_name,
			search_facet = EXCLUDED.search_facet,
			search_custom_param = EXCLUDED.search_custom_param,
			search_custom_param_value = EXCLUDED.search_custom_param_value,
			search_placeholder = EXCLUDED.search_placeholder,
			search_title = EXCLUDED.search_title,
			updated_at = NOW()
		RETURNING id, destination_status, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		b.Slug, b.Label, b.SearchPage, b.SearchParam, b.SearchFacetName, b.SearchFacet,
		b.SearchCustomParam, b.SearchCustomParamValue, b.SearchPlaceholder, b.SearchTitle,
	).Scan(&b.ID, &b.DestinationStatus, &b.CreatedAt, &b.UpdatedAt)
}

// GetBlockByID retrieves a block by ID.
func (d *DB) GetBlockByID(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	b, err := scanBlock(d.Pool.QueryRow(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	return b, err
}

// GetBlockBySlug retrieves a block by its slug.
func (d *DB) GetBlockBySlug(ctx context.Context, slug string) (*models.Block, error) {
	b, err := scanBlock(d.Pool.QueryRow(ctx, `SELECT `+blockColumns+` FROM blocks WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	return b, err
}

// ListBlocks returns all blocks ordered by slug.
func (d *DB) ListBlocks(ctx context.Context) ([]models.Block, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+blockColumns+` FROM blocks ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// UpdateBlockConfiguration overwrites a block's configuration fields exactly as given.
func (d *DB) UpdateBlockConfiguration(ctx context.Context, id uuid.UUID, cfg models.BlockConfiguration) error {
	query := `
		UPDATE blocks SET
			search_page = $1, search_param = $2, search_facet_name = $3, search_facet = $4,
			search_custom_param = $5, search_custom_param_value = $6,
			search_placeholder = $7, search_title = $8,
			destination_status = 'unknown', destination_checked_at = NULL, destination_error = NULL,
			updated_at = NOW()
		WHERE id = $9
	`
	tag, err := d.Pool.Exec(ctx, query,
		cfg.SearchPage, cfg.SearchParam, cfg.SearchFacetName, cfg.SearchFacet,
		cfg.SearchCustomParam, cfg.SearchCustomParamValue, cfg.SearchPlaceholder, cfg.SearchTitle,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// DeleteBlock deletes a block. Pages carrying it keep rendering without a form (ON DELETE SET NULL).
func (d *DB) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// GetBlocksNeedingDestinationCheck returns blocks with an absolute or scheme-relative
// destination whose last check is older than maxAge (or that were never checked).
func (d *DB) GetBlocksNeedingDestinationCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks
		WHERE search_page ~* '^([a-z][a-z0-9+.-]*:)?//'
		  AND (destination_checked_at IS NULL OR destination_checked_at < $1)
		ORDER BY destination_checked_at ASC NULLS FIRST
		LIMIT $2`

	rows, err := d.Pool.Query(ctx, query, time.Now().Add(-maxAge), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// UpdateBlockDestinationStatus records the result of a destination check.
func (d *DB) UpdateBlockDestinationStatus(ctx context.Context, id uuid.UUID, status string, errorMsg *string) error {
	query := `
		UPDATE blocks SET destination_status = $1, destination_error = $2, destination_checked_at = NOW()
		WHERE id = $3
	`
	_, err := d.Pool.Exec(ctx, query, status, errorMsg, id)
	return err
}
