package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// DemoTokenRepository is the secondary adapter for demo access tokens.
type DemoTokenRepository struct {
	pool *pgxpool.Pool
}

var _ ports.DemoTokenRepository = (*DemoTokenRepository)(nil)

// NewDemoTokenRepository creates a new demo token repository.
func NewDemoTokenRepository(pool *pgxpool.Pool) ports.DemoTokenRepository {
	return &DemoTokenRepository{pool: pool}
}

// Create persists a new demo token.
func (r *DemoTokenRepository) Create(ctx context.Context, token *domain.DemoToken) (*domain.DemoToken, error) {
	const query = `
INSERT INTO demo_tokens (token, business_id, expires_at)
VALUES ($1, $2, $3)
RETURNING id, token, business_id, expires_at, created_at`

	var created domain.DemoToken
	err := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		token.Token, token.BusinessID, token.ExpiresAt,
	).Scan(&created.ID, &created.Token, &created.BusinessID, &created.ExpiresAt, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByToken retrieves a demo token by its opaque token string.
func (r *DemoTokenRepository) GetByToken(ctx context.Context, token string) (*domain.DemoToken, error) {
	const query = `
SELECT id, token, business_id, expires_at, created_at
FROM demo_tokens
WHERE token = $1`

	var found domain.DemoToken
	err := GetDBTX(ctx, r.pool).QueryRow(ctx, query, token).
		Scan(&found.ID, &found.Token, &found.BusinessID, &found.ExpiresAt, &found.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDemoTokenNotFound
		}
		return nil, err
	}
	return &found, nil
}
