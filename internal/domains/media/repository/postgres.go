package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realty-backend/internal/domains/media/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) MediaRepository {
	return &postgresRepository{pool: pool}
}

const mediaColumns = `id, listing_id, collection, tier, path, url, bytes,
	width, height, format, quality, progressive, sort_order, created_at`

// RegisterSet inserts all items in one transaction. Runs after every
// object is already on storage; a failure here triggers storage cleanup
// in the service.
func (r *postgresRepository) RegisterSet(ctx context.Context, items []*model.MediaItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin register set: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO listing_media (listing_id, collection, tier, path, url, bytes,
            width, height, format, quality, progressive, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at
    `

	for _, item := range items {
		err := tx.QueryRow(ctx, query,
			item.ListingID,
			item.Collection,
			item.Tier,
			item.Path,
			item.URL,
			item.Bytes,
			item.Width,
			item.Height,
			item.Format,
			item.Quality,
			item.Progressive,
			item.SortOrder,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert media item %s: %w", item.Path, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) GetByListing(ctx context.Context, listingID uuid.UUID) ([]*model.MediaItem, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM listing_media
        WHERE listing_id = $1
        ORDER BY collection, sort_order, tier
    `, mediaColumns)

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("query listing media: %w", err)
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

func (r *postgresRepository) GetByPath(ctx context.Context, path string) (*model.MediaItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM listing_media WHERE path = $1`, mediaColumns)

	item, err := scanMediaItem(r.pool.QueryRow(ctx, query, path))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query media by path: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) DeleteByPath(ctx context.Context, path string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listing_media WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("delete media by path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMediaNotFound
	}
	return nil
}

// DeleteByListing removes all records for a listing and returns the
// storage paths so the service can clean the backend (cascade delete).
func (r *postgresRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM listing_media WHERE listing_id = $1 RETURNING path`, listingID)
	if err != nil {
		return nil, fmt.Errorf("delete listing media: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func scanMediaItem(row pgx.Row) (*model.MediaItem, error) {
	var m model.MediaItem
	err := row.Scan(
		&m.ID, &m.ListingID, &m.Collection, &m.Tier, &m.Path, &m.URL, &m.Bytes,
		&m.Width, &m.Height, &m.Format, &m.Quality, &m.Progressive, &m.SortOrder, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMediaItems(rows pgx.Rows) ([]*model.MediaItem, error) {
	var items []*model.MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
