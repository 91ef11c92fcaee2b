package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ReviewRepository is the secondary adapter for discovered reviews.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new review repository.
func NewReviewRepository(pool *pgxpool.Pool) ports.ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, business_id, platform, rating, content,
reviewer_name, review_date, url, is_responded, response, created_at, updated_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var (
		rv           domain.Review
		content      pgtype.Text
		reviewerName pgtype.Text
		url          pgtype.Text
		response     pgtype.Text
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(
		&rv.ID, &rv.BusinessID, &rv.Platform, &rv.Rating, &content,
		&reviewerName, &rv.ReviewDate, &url, &rv.IsResponded, &response,
		&rv.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rv.Content = textOrEmpty(content)
	rv.ReviewerName = textOrEmpty(reviewerName)
	rv.URL = textOrEmpty(url)
	rv.Response = textOrEmpty(response)
	rv.UpdatedAt = timeOrNil(updatedAt)
	return &rv, nil
}

// Create persists a new review entity.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	const query = `
INSERT INTO reviews (business_id, platform, rating, content, reviewer_name,
  review_date, url, is_responded, response)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + reviewColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		review.BusinessID, review.Platform, review.Rating,
		textOrNull(review.Content), textOrNull(review.ReviewerName),
		review.ReviewDate, textOrNull(review.URL),
		review.IsResponded, textOrNull(review.Response),
	)
	return scanReview(row)
}

// ListByBusiness retrieves every review for one business, newest first.
func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews
WHERE business_id = $1 ORDER BY review_date DESC, id DESC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
