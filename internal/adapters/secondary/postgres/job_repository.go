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

// JobRepository is the secondary adapter for scheduled work.
type JobRepository struct {
	pool *pgxpool.Pool
}

var _ ports.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new job repository.
func NewJobRepository(pool *pgxpool.Pool) ports.JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, business_id, contact_id, equipment_id, technician_id,
title, description, start_time, end_time, status, notes, price,
created_at, updated_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		j            domain.Job
		equipmentID  pgtype.Int8
		technicianID pgtype.Int8
		description  pgtype.Text
		notes        pgtype.Text
		price        pgtype.Text
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(
		&j.ID, &j.BusinessID, &j.ContactID, &equipmentID, &technicianID,
		&j.Title, &description, &j.StartTime, &j.EndTime, &j.Status,
		&notes, &price, &j.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.EquipmentID = int8OrNil(equipmentID)
	j.TechnicianID = int8OrNil(technicianID)
	j.Description = textOrEmpty(description)
	j.Notes = textOrEmpty(notes)
	j.Price = textOrEmpty(price)
	j.UpdatedAt = timeOrNil(updatedAt)
	return &j, nil
}

// Create persists a new job entity.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	const query = `
INSERT INTO jobs (business_id, contact_id, equipment_id, technician_id,
  title, description, start_time, end_time, status, notes, price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + jobColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		job.BusinessID, job.ContactID,
		int8OrNull(job.EquipmentID), int8OrNull(job.TechnicianID),
		job.Title, textOrNull(job.Description),
		job.StartTime, job.EndTime, string(job.Status),
		textOrNull(job.Notes), textOrNull(job.Price),
	)
	return scanJob(row)
}

// GetByID retrieves a single job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update persists changes to an existing job entity.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	const query = `
UPDATE jobs
SET equipment_id = $2, technician_id = $3, title = $4, description = $5,
    start_time = $6, end_time = $7, status = $8, notes = $9, price = $10,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + jobColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		job.ID,
		int8OrNull(job.EquipmentID), int8OrNull(job.TechnicianID),
		job.Title, textOrNull(job.Description),
		job.StartTime, job.EndTime, string(job.Status),
		textOrNull(job.Notes), textOrNull(job.Price),
	)
	updated, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListByBusiness retrieves jobs for one business, soonest first. When
// contactID is non-nil the result is narrowed to that contact.
func (r *JobRepository) ListByBusiness(ctx context.Context, businessID int64, contactID *int64, limit, offset int) ([]*domain.Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs
WHERE business_id = $1
  AND ($2::bigint IS NULL OR contact_id = $2)
ORDER BY start_time ASC, id ASC
LIMIT $3 OFFSET $4`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, businessID, int8OrNull(contactID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
