package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// BusinessRepository is the secondary adapter for tenant persistence.
type BusinessRepository struct {
	pool *pgxpool.Pool
}

// Ensure BusinessRepository implements the ports.BusinessRepository interface.
var _ ports.BusinessRepository = (*BusinessRepository)(nil)

// NewBusinessRepository creates a new business repository.
func NewBusinessRepository(pool *pgxpool.Pool) ports.BusinessRepository {
	return &BusinessRepository{pool: pool}
}

const businessColumns = `id, name, slug, description, address, city, state, zip,
phone, email, website, vertical, logo, theme, custom_domain, settings,
created_at, updated_at`

// scanBusiness maps a single row onto the domain model.
func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var (
		b            domain.Business
		description  pgtype.Text
		address      pgtype.Text
		city         pgtype.Text
		state        pgtype.Text
		zip          pgtype.Text
		phone        pgtype.Text
		email        pgtype.Text
		website      pgtype.Text
		logo         pgtype.Text
		customDomain pgtype.Text
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &description, &address, &city, &state, &zip,
		&phone, &email, &website, &b.Vertical, &logo, &b.Theme, &customDomain,
		&b.Settings, &b.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Description = textOrEmpty(description)
	b.Address = textOrEmpty(address)
	b.City = textOrEmpty(city)
	b.State = textOrEmpty(state)
	b.Zip = textOrEmpty(zip)
	b.Phone = textOrEmpty(phone)
	b.Email = textOrEmpty(email)
	b.Website = textOrEmpty(website)
	b.Logo = textOrEmpty(logo)
	b.CustomDomain = textOrEmpty(customDomain)
	b.UpdatedAt = timeOrNil(updatedAt)
	return &b, nil
}

// Create persists a new business entity.
func (r *BusinessRepository) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	const query = `
INSERT INTO businesses (name, slug, description, address, city, state, zip,
  phone, email, website, vertical, logo, theme, custom_domain, settings)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + businessColumns

	theme := business.Theme
	if theme == nil {
		theme = map[string]any{}
	}
	settings := business.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		business.Name, business.Slug,
		textOrNull(business.Description), textOrNull(business.Address),
		textOrNull(business.City), textOrNull(business.State),
		textOrNull(business.Zip), textOrNull(business.Phone),
		textOrNull(business.Email), textOrNull(business.Website),
		string(business.Vertical), textOrNull(business.Logo),
		theme, textOrNull(business.CustomDomain), settings,
	)
	return scanBusiness(row)
}

// GetByID retrieves a single business by its ID.
func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	const query = `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	business, err := scanBusiness(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// GetBySlug retrieves a single business by its public slug.
func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	const query = `SELECT ` + businessColumns + ` FROM businesses WHERE slug = $1`

	business, err := scanBusiness(GetDBTX(ctx, r.pool).QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// Update persists changes to an existing business entity.
func (r *BusinessRepository) Update(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	const query = `
UPDATE businesses
SET name = $2, description = $3, address = $4, city = $5, state = $6,
    zip = $7, phone = $8, email = $9, website = $10, vertical = $11,
    logo = $12, theme = $13, custom_domain = $14, settings = $15,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + businessColumns

	theme := business.Theme
	if theme == nil {
		theme = map[string]any{}
	}
	settings := business.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		business.ID, business.Name,
		textOrNull(business.Description), textOrNull(business.Address),
		textOrNull(business.City), textOrNull(business.State),
		textOrNull(business.Zip), textOrNull(business.Phone),
		textOrNull(business.Email), textOrNull(business.Website),
		string(business.Vertical), textOrNull(business.Logo),
		theme, textOrNull(business.CustomDomain), settings,
	)
	updated, err := scanBusiness(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, err
	}
	return updated, nil
}

// List retrieves every business, newest first.
func (r *BusinessRepository) List(ctx context.Context) ([]*domain.Business, error) {
	const query = `SELECT ` + businessColumns + ` FROM businesses ORDER BY created_at DESC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := make([]*domain.Business, 0)
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return businesses, nil
}
