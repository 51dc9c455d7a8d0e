package db

import (
	"context"

	"searchbar/internal/models"
)

// IncrementSearchRedirect upserts a per-block redirect count by destination kind.
func (d *DB) IncrementSearchRedirect(ctx context.Context, blockSlug, destination string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO search_redirects (block_slug, destination, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (block_slug, destination) DO UPDATE
		SET count = search_redirects.count + 1, last_seen_at = NOW()
	`, blockSlug, destination)
	return err
}

// GetAllSearchRedirects returns all redirect count rows for metrics export.
func (d *DB) GetAllSearchRedirects(ctx context.Context) ([]models.SearchRedirect, error) {
	rows, err := d.Pool.Query(ctx, `SELECT block_slug, destination, count, last_seen_at FROM search_redirects`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redirects []models.SearchRedirect
	for rows.Next() {
		var r models.SearchRedirect
		if err := rows.Scan(&r.BlockSlug, &r.Destination, &r.Count, &r.LastSeenAt); err != nil {
			return nil, err
		}
		redirects = append(redirects, r)
	}
	return redirects, rows.Err()
}
