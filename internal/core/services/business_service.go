package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// BusinessService implements tenant management and the dashboard stats
// snapshot.
type BusinessService struct {
	businessRepo ports.BusinessRepository
	statsRepo    ports.StatsRepository
}

var _ ports.BusinessService = (*BusinessService)(nil)

// NewBusinessService creates a new business service.
func NewBusinessService(businessRepo ports.BusinessRepository, statsRepo ports.StatsRepository) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		statsRepo:    statsRepo,
	}
}

// CreateBusiness validates and persists a new tenant. Slugs are unique
// across the platform.
func (s *BusinessService) CreateBusiness(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	if business.Name == "" {
		return nil, apperrors.ErrBusinessNameRequired
	}
	if business.Slug == "" {
		return nil, apperrors.ErrSlugRequired
	}
	if !slugPattern.MatchString(business.Slug) {
		return nil, apperrors.ErrInvalidSlug
	}
	if !business.Vertical.IsValid() {
		return nil, apperrors.ErrInvalidVertical
	}

	if _, err := s.businessRepo.GetBySlug(ctx, business.Slug); err == nil {
		return nil, apperrors.ErrSlugTaken
	} else if !errors.Is(err, apperrors.ErrBusinessNotFound) {
		return nil, err
	}

	return s.businessRepo.Create(ctx, business)
}

// GetBusiness retrieves a tenant by ID.
func (s *BusinessService) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	return s.businessRepo.GetByID(ctx, id)
}

// GetBusinessBySlug retrieves a tenant by its URL slug.
func (s *BusinessService) GetBusinessBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return s.businessRepo.GetBySlug(ctx, slug)
}

// UpdateBusiness applies an edit to an existing tenant.
func (s *BusinessService) UpdateBusiness(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	existing, err := s.businessRepo.GetByID(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	if business.Slug != existing.Slug {
		// Slugs are referenced by demo links and custom domains.
		return nil, apperrors.ErrSlugImmutable
	}
	if !business.Vertical.IsValid() {
		return nil, apperrors.ErrInvalidVertical
	}
	return s.businessRepo.Update(ctx, business)
}

// ListBusinesses returns all tenants.
func (s *BusinessService) ListBusinesses(ctx context.Context) ([]*domain.Business, error) {
	return s.businessRepo.List(ctx)
}

// GetStats aggregates the dashboard snapshot for one business and fills the
// website analytics placeholders.
func (s *BusinessService) GetStats(ctx context.Context, businessID int64) (domain.BusinessStats, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return domain.BusinessStats{}, err
	}
	stats, err := s.statsRepo.GetBusinessStats(ctx, businessID)
	if err != nil {
		return domain.BusinessStats{}, err
	}
	return stats.WithWebsitePlaceholders(), nil
}
