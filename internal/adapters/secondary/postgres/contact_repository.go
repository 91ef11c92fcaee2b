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

// ContactRepository is the secondary adapter for customer records.
type ContactRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ContactRepository = (*ContactRepository)(nil)

// NewContactRepository creates a new contact repository.
func NewContactRepository(pool *pgxpool.Pool) ports.ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, business_id, first_name, last_name, email, phone,
address, city, state, zip, notes, created_at, updated_at`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var (
		c         domain.Contact
		email     pgtype.Text
		phone     pgtype.Text
		address   pgtype.Text
		city      pgtype.Text
		state     pgtype.Text
		zip       pgtype.Text
		notes     pgtype.Text
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.FirstName, &c.LastName, &email, &phone,
		&address, &city, &state, &zip, &notes, &c.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Email = textOrEmpty(email)
	c.Phone = textOrEmpty(phone)
	c.Address = textOrEmpty(address)
	c.City = textOrEmpty(city)
	c.State = textOrEmpty(state)
	c.Zip = textOrEmpty(zip)
	c.Notes = textOrEmpty(notes)
	c.UpdatedAt = timeOrNil(updatedAt)
	return &c, nil
}

// Create persists a new contact entity.
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	const query = `
INSERT INTO contacts (business_id, first_name, last_name, email, phone,
  address, city, state, zip, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + contactColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		contact.BusinessID, contact.FirstName, contact.LastName,
		textOrNull(contact.Email), textOrNull(contact.Phone),
		textOrNull(contact.Address), textOrNull(contact.City),
		textOrNull(contact.State), textOrNull(contact.Zip),
		textOrNull(contact.Notes),
	)
	return scanContact(row)
}

// GetByID retrieves a single contact by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

// Update persists changes to an existing contact entity.
func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	const query = `
UPDATE contacts
SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
    city = $7, state = $8, zip = $9, notes = $10, updated_at = NOW()
WHERE id = $1
RETURNING ` + contactColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		contact.ID, contact.FirstName, contact.LastName,
		textOrNull(contact.Email), textOrNull(contact.Phone),
		textOrNull(contact.Address), textOrNull(contact.City),
		textOrNull(contact.State), textOrNull(contact.Zip),
		textOrNull(contact.Notes),
	)
	updated, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListByBusiness retrieves every contact for one business, newest first.
func (r *ContactRepository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts
WHERE business_id = $1 ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}
