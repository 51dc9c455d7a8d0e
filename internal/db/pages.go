package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"searchbar/internal/models"
)

// CreatePage creates a new page.
func (d *DB) CreatePage(ctx context.Context, p *models.Page) error {
	query := `
		INSERT INTO pages (system_path, alias, title, block_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, p.SystemPath, p.Alias, p.Title, p.BlockID).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePath
	}
	return err
}

// UpsertPage creates a page or updates the page with the same system path.
func (d *DB) UpsertPage(ctx context.Context, p *models.Page) error {
	query := `
		INSERT INTO pages (system_path, alias, title, block_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (system_path) DO UPDATE SET
			alias = EXCLUDED.alias,
			title = EXCLUDED.title,
			block_id = EXCLUDED.block_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, p.SystemPath, p.Alias, p.Title, p.BlockID).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePath
	}
	return err
}

// GetPageByPath retrieves the page whose system path or alias equals path.
// An alias match wins over a system path match. BlockSlug is filled from the
// placed block.
func (d *DB) GetPageByPath(ctx context.Context, path string) (*models.Page, error) {
	query := `
		SELECT p.id, p.system_path, p.alias, p.title, p.block_id, b.slug, p.created_at, p.updated_at
		FROM pages p
		LEFT JOIN blocks b ON b.id = p.block_id
		WHERE p.alias = $1 OR p.system_path = $1
		ORDER BY (p.alias = $1) DESC NULLS LAST
		LIMIT 1
	`

	var p models.Page
	err := d.Pool.QueryRow(ctx, query, path).Scan(
		&p.ID, &p.SystemPath, &p.Alias, &p.Title, &p.BlockID, &p.BlockSlug, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPages returns all pages ordered by system path, with their block slugs.
func (d *DB) ListPages(ctx context.Context) ([]models.Page, error) {
	query := `
		SELECT p.id, p.system_path, p.alias, p.title, p.block_id, b.slug, p.created_at, p.updated_at
		FROM pages p
		LEFT JOIN blocks b ON b.id = p.block_id
		ORDER BY p.system_path ASC
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.SystemPath, &p.Alias, &p.Title, &p.BlockID, &p.BlockSlug, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// DeletePage deletes a page.
func (d *DB) DeletePage(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}
