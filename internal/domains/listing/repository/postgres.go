package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"realty-backend/internal/domains/listing/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) ListingRepository {
	return &postgresRepository{pool: pool}
}

const listingColumns = `id, user_id, title, title_ar, slug, description, price,
	price_type_id, location_id, status, bedrooms, bathrooms, area_sqm,
	featured, views, favorites, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, l *model.Listing) error {
	query := `
        INSERT INTO listings (user_id, title, title_ar, slug, description, price,
            price_type_id, location_id, status, bedrooms, bathrooms, area_sqm, featured)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, views, favorites, created_at, updated_at
    `

	err := r.pool.QueryRow(ctx, query,
		l.UserID, l.Title, l.TitleAr, l.Slug, l.Description, l.Price,
		l.PriceTypeID, l.LocationID, l.Status, l.Bedrooms, l.Bathrooms,
		l.AreaSqm, l.Featured,
	).Scan(&l.ID, &l.Views, &l.Favorites, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1 AND deleted_at IS NULL`, listingColumns)
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE slug = $1 AND deleted_at IS NULL`, listingColumns)
	return r.getOne(ctx, query, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query listing: %w", err)
	}

	if err := r.loadRelations(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *postgresRepository) Update(ctx context.Context, l *model.Listing) error {
	query := `
        UPDATE listings
        SET title = $2, title_ar = $3, slug = $4, description = $5, price = $6,
            price_type_id = $7, location_id = $8, status = $9, bedrooms = $10,
            bathrooms = $11, area_sqm = $12, featured = $13, updated_at = now()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING updated_at
    `

	err := r.pool.QueryRow(ctx, query,
		l.ID, l.Title, l.TitleAr, l.Slug, l.Description, l.Price,
		l.PriceTypeID, l.LocationID, l.Status, l.Bedrooms, l.Bathrooms,
		l.AreaSqm, l.Featured,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrListingNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// Delete soft-deletes; the row stays for audit, queries filter it out.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listings SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Listing, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := `SELECT count(*) FROM listings ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM listings %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, where, orderBy(f.Sort), len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// Search runs full-text search over title and description with
// websearch syntax, ranked by relevance then popularity.
func (r *postgresRepository) Search(ctx context.Context, query string, limit int) ([]*model.Listing, error) {
	q := fmt.Sprintf(`
        SELECT %s FROM listings
        WHERE deleted_at IS NULL
          AND status = 'published'
          AND search_vector @@ websearch_to_tsquery('simple', $1)
        ORDER BY ts_rank_cd(search_vector, websearch_to_tsquery('simple', $1), 32) DESC,
                 views DESC
        LIMIT $2
    `, listingColumns)

	rows, err := r.pool.Query(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

func (r *postgresRepository) IncrementViews(ctx context.Context, id uuid.UUID, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE listings SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *postgresRepository) IncrementFavorites(ctx context.Context, id uuid.UUID, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE listings SET favorites = greatest(favorites + $2, 0) WHERE id = $1`, id, delta)
	return err
}

// SetRelations replaces the feature and utility links in one
// transaction.
func (r *postgresRepository) SetRelations(ctx context.Context, id uuid.UUID, featureIDs, utilityIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set relations: %w", err)
	}
	defer tx.Rollback(ctx)

	for table, ids := range map[string][]uuid.UUID{
		"listing_features":  featureIDs,
		"listing_utilities": utilityIDs,
	} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE listing_id = $1`, table), id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}

		column := strings.TrimSuffix(strings.TrimPrefix(table, "listing_"), "s") + "_id"
		for _, rel := range ids {
			if _, err := tx.Exec(ctx,
				fmt.Sprintf(`INSERT INTO %s (listing_id, %s) VALUES ($1, $2)`, table, column),
				id, rel); err != nil {
				return fmt.Errorf("link %s: %w", table, err)
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) loadRelations(ctx context.Context, l *model.Listing) error {
	var err error
	l.FeatureIDs, err = r.relationIDs(ctx,
		`SELECT feature_id FROM listing_features WHERE listing_id = $1`, l.ID)
	if err != nil {
		return err
	}
	l.UtilityIDs, err = r.relationIDs(ctx,
		`SELECT utility_id FROM listing_utilities WHERE listing_id = $1`, l.ID)
	return err
}

func (r *postgresRepository) relationIDs(ctx context.Context, query string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var rel uuid.UUID
		if err := rows.Scan(&rel); err != nil {
			return nil, err
		}
		ids = append(ids, rel)
	}
	return ids, rows.Err()
}

func buildWhere(f model.Filter) (string, []interface{}) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	} else {
		conditions = append(conditions, "status = 'published'")
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.PriceType != "" {
		add("price_type_id = $%d", f.PriceType)
	}
	if f.PriceMin != "" {
		add("price >= $%d", f.PriceMin)
	}
	if f.PriceMax != "" {
		add("price <= $%d", f.PriceMax)
	}
	if f.Bedrooms != "" {
		add("bedrooms >= $%d", f.Bedrooms)
	}
	if f.Featured != "" {
		add("featured = $%d", f.Featured == "true")
	}
	if f.Search != "" {
		add("search_vector @@ websearch_to_tsquery('simple', $%d)", f.Search)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "oldest":
		return "created_at ASC"
	case "popular":
		return "views DESC"
	default:
		return "created_at DESC"
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var l model.Listing
	err := row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.TitleAr, &l.Slug, &l.Description, &l.Price,
		&l.PriceTypeID, &l.LocationID, &l.Status, &l.Bedrooms, &l.Bathrooms,
		&l.AreaSqm, &l.Featured, &l.Views, &l.Favorites, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListings(rows pgx.Rows) ([]*model.Listing, error) {
	var listings []*model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
