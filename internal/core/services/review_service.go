package services

import (
	"context"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ReviewService implements review ingestion. New reviews are broadcast so
// open dashboards update without a refresh.
type ReviewService struct {
	reviewRepo  ports.ReviewRepository
	broadcaster ports.EventBroadcaster
}

var _ ports.ReviewService = (*ReviewService)(nil)

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo ports.ReviewRepository, broadcaster ports.EventBroadcaster) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		broadcaster: broadcaster,
	}
}

// CreateReview validates and persists a discovered review, then broadcasts
// it to the business's subscribers.
func (s *ReviewService) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if review.Platform == "" {
		return nil, apperrors.ErrPlatformRequired
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	_ = s.broadcaster.Broadcast(domain.NewReviewEvent(created))
	return created, nil
}

// ListReviews returns all reviews for a business.
func (s *ReviewService) ListReviews(ctx context.Context, businessID int64) ([]*domain.Review, error) {
	return s.reviewRepo.ListByBusiness(ctx, businessID)
}
