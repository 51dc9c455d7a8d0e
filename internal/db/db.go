package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"searchbar/internal/models"
	"searchbar/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevBlocks inserts a sample block and page for development. Existing rows are overwritten.
func (d *DB) SeedDevBlocks(ctx context.Context, inv BlockInvalidator) error {
	block := &models.Block{
		Slug:  "digital-search",
		Label: "Digital collections search",
		BlockConfiguration: models.BlockConfiguration{
			SearchPage:      "/search",
			SearchFacetName: "digital_collection",
			SearchFacet:     "Prange",
		},
	}
	if err := d.UpsertBlock(ctx, block); err != nil {
		return fmt.Errorf("failed to seed block %s: %w", block.Slug, err)
	}
	if inv != nil {
		inv.Invalidate(block.Slug)
	}

	alias := "/scores"
	page := &models.Page{
		SystemPath: "/node/1",
		Alias:      &alias,
		Title:      "Scores",
		BlockID:    &block.ID,
	}
	if err := d.UpsertPage(ctx, page); err != nil {
		return fmt.Errorf("failed to seed page %s: %w", page.SystemPath, err)
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
