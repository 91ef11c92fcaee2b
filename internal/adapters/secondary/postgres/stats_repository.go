package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// StatsRepository aggregates the dashboard snapshot for one business. The
// counts span several tables, so they are read inside a read-only
// transaction for a consistent snapshot.
type StatsRepository struct {
	pool      *pgxpool.Pool
	txManager *TransactionManager
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool, txManager *TransactionManager) ports.StatsRepository {
	return &StatsRepository{pool: pool, txManager: txManager}
}

// GetBusinessStats returns the live dashboard counters for a business.
func (r *StatsRepository) GetBusinessStats(ctx context.Context, businessID int64) (domain.BusinessStats, error) {
	const countsQuery = `
SELECT
  (SELECT COUNT(*) FROM contacts WHERE business_id = $1),
  (SELECT COUNT(*) FROM jobs WHERE business_id = $1 AND status = 'scheduled'),
  (SELECT COUNT(*)
     FROM messages m
     JOIN conversations c ON m.conversation_id = c.id
    WHERE c.business_id = $1
      AND m.is_from_business = FALSE
      AND m.status = 'unread')`

	const avgReviewQuery = `
SELECT AVG(rating)::float8 FROM reviews WHERE business_id = $1`

	var stats domain.BusinessStats
	err := r.txManager.WithReadOnlyTransaction(ctx, func(ctx context.Context) error {
		db := GetDBTX(ctx, r.pool)

		err := db.QueryRow(ctx, countsQuery, businessID).
			Scan(&stats.ActiveCustomers, &stats.ScheduledJobs, &stats.NewMessages)
		if err != nil {
			return err
		}

		var avgReview pgtype.Float8
		if err := db.QueryRow(ctx, avgReviewQuery, businessID).Scan(&avgReview); err != nil {
			return err
		}
		if avgReview.Valid {
			stats.AvgReview = avgReview.Float64
		}
		return nil
	})
	if err != nil {
		return domain.BusinessStats{}, err
	}
	return stats, nil
}
