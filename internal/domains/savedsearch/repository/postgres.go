package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realty-backend/internal/domains/savedsearch/model"
)

type SavedSearchRepository interface {
	Create(ctx context.Context, s *model.SavedSearch) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SavedSearch, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.SavedSearch, error)
	Update(ctx context.Context, s *model.SavedSearch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) SavedSearchRepository {
	return &postgresRepository{pool: pool}
}

// Filters go into a jsonb column; pgx marshals the map both ways.
func (r *postgresRepository) Create(ctx context.Context, s *model.SavedSearch) error {
	query := `
        INSERT INTO saved_searches (user_id, name, filters)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `

	err := r.pool.QueryRow(ctx, query, s.UserID, s.Name, s.Filters).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert saved search: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SavedSearch, error) {
	query := `
        SELECT id, user_id, name, filters, created_at, updated_at
        FROM saved_searches WHERE id = $1
    `

	var s model.SavedSearch
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.UserID, &s.Name, &s.Filters, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSearchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query saved search: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.SavedSearch, error) {
	query := `
        SELECT id, user_id, name, filters, created_at, updated_at
        FROM saved_searches WHERE user_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	defer rows.Close()

	var searches []*model.SavedSearch
	for rows.Next() {
		var s model.SavedSearch
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Filters, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, &s)
	}
	return searches, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, s *model.SavedSearch) error {
	query := `
        UPDATE saved_searches
        SET name = $2, filters = $3, updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `

	err := r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Filters).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrSearchNotFound
	}
	if err != nil {
		return fmt.Errorf("update saved search: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSearchNotFound
	}
	return nil
}
