package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"realty-backend/internal/domains/taxonomy/model"
)

// tableFor maps a taxonomy kind to its table. The three vocabularies
// share one schema, so one repository serves them all.
func tableFor(kind model.Kind) (string, error) {
	switch kind {
	case model.KindFeature:
		return "features", nil
	case model.KindUtility:
		return "utilities", nil
	case model.KindPriceType:
		return "price_types", nil
	default:
		return "", model.ErrUnknownKind
	}
}

type termRepository struct {
	pool *pgxpool.Pool
}

func NewTermRepository(pool *pgxpool.Pool) TermRepository {
	return &termRepository{pool: pool}
}

func (r *termRepository) Create(ctx context.Context, kind model.Kind, t *model.Term) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (name_en, name_ar, slug)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `, table)

	err = r.pool.QueryRow(ctx, query, t.NameEn, t.NameAr, t.Slug).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTerm
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *termRepository) GetByID(ctx context.Context, kind model.Kind, id uuid.UUID) (*model.Term, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, name_en, name_ar, slug, created_at, updated_at FROM %s WHERE id = $1`, table)

	var t model.Term
	err = r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.NameEn, &t.NameAr, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrTermNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return &t, nil
}

func (r *termRepository) List(ctx context.Context, kind model.Kind) ([]*model.Term, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, name_en, name_ar, slug, created_at, updated_at FROM %s ORDER BY name_en`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var terms []*model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.NameEn, &t.NameAr, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, &t)
	}
	return terms, rows.Err()
}

func (r *termRepository) Update(ctx context.Context, kind model.Kind, t *model.Term) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
        UPDATE %s SET name_en = $2, name_ar = $3, slug = $4, updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `, table)

	err = r.pool.QueryRow(ctx, query, t.ID, t.NameEn, t.NameAr, t.Slug).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrTermNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTerm
		}
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func (r *termRepository) Delete(ctx context.Context, kind model.Kind, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTermNotFound
	}
	return nil
}

type locationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

const locationColumns = `id, parent_id, name_en, name_ar, slug, created_at, updated_at`

func (r *locationRepository) Create(ctx context.Context, l *model.Location) error {
	query := `
        INSERT INTO locations (parent_id, name_en, name_ar, slug)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err := r.pool.QueryRow(ctx, query, l.ParentID, l.NameEn, l.NameAr, l.Slug).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTerm
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1`, locationColumns)

	var l model.Location
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&l.ID, &l.ParentID, &l.NameEn, &l.NameAr, &l.Slug, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query location: %w", err)
	}
	return &l, nil
}

func (r *locationRepository) List(ctx context.Context) ([]*model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations ORDER BY name_en`, locationColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.ParentID, &l.NameEn, &l.NameAr, &l.Slug, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *locationRepository) Update(ctx context.Context, l *model.Location) error {
	query := `
        UPDATE locations
        SET parent_id = $2, name_en = $3, name_ar = $4, slug = $5, updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `

	err := r.pool.QueryRow(ctx, query, l.ID, l.ParentID, l.NameEn, l.NameAr, l.Slug).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrLocationNotFound
	}
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLocationNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
