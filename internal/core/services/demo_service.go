package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/home-services-backend/internal/auth"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// DemoTokenService issues shareable demo links and exchanges them for
// short-lived JWT access tokens. Demo tokens are opaque UUIDs stored
// server-side; the JWT only exists after a successful exchange.
type DemoTokenService struct {
	demoTokenRepo ports.DemoTokenRepository
	businessRepo  ports.BusinessRepository
	tokenManager  *auth.TokenManager
	tokenTTL      time.Duration
}

var _ ports.DemoTokenService = (*DemoTokenService)(nil)

// NewDemoTokenService creates a new demo token service. tokenTTL bounds how
// long an unexchanged demo link stays usable.
func NewDemoTokenService(
	demoTokenRepo ports.DemoTokenRepository,
	businessRepo ports.BusinessRepository,
	tokenManager *auth.TokenManager,
	tokenTTL time.Duration,
) *DemoTokenService {
	return &DemoTokenService{
		demoTokenRepo: demoTokenRepo,
		businessRepo:  businessRepo,
		tokenManager:  tokenManager,
		tokenTTL:      tokenTTL,
	}
}

// IssueToken creates a new demo token for a business.
func (s *DemoTokenService) IssueToken(ctx context.Context, businessID int64) (*domain.DemoToken, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, err
	}

	token := &domain.DemoToken{
		Token:      uuid.NewString(),
		BusinessID: businessID,
		ExpiresAt:  time.Now().Add(s.tokenTTL),
	}
	return s.demoTokenRepo.Create(ctx, token)
}

// ValidateToken exchanges a demo token for a JWT access token bound to the
// token's business.
func (s *DemoTokenService) ValidateToken(ctx context.Context, token string) (*ports.DemoAccess, error) {
	demoToken, err := s.demoTokenRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if demoToken.IsExpired(time.Now()) {
		return nil, apperrors.ErrDemoTokenExpired
	}

	business, err := s.businessRepo.GetByID(ctx, demoToken.BusinessID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokenManager.GenerateToken(business.ID)
	if err != nil {
		return nil, err
	}

	return &ports.DemoAccess{
		Business:    business,
		Token:       demoToken.Token,
		AccessToken: accessToken,
		ExpiresAt:   demoToken.ExpiresAt,
	}, nil
}
