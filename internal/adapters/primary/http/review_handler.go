package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/home-services-backend/internal/adapters/primary/validation"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	reviewService ports.ReviewService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService ports.ReviewService, errorHandler *ErrorHandler, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "review"),
	}
}

// Router sets up a new chi Router for all review routes.
func (h *ReviewHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all review endpoints.
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListReviews)
	r.Post("/", h.HandleCreateReview)
}

// --- Request/Response DTOs ---

// CreateReviewRequest defines the expected JSON body for recording a review
type CreateReviewRequest struct {
	Platform     string `json:"platform"`
	Rating       int32  `json:"rating"`
	Content      string `json:"content"`
	ReviewerName string `json:"reviewerName"`
	ReviewDate   string `json:"reviewDate"`
	URL          string `json:"url"`
}

// Validate validates the create review request
func (r *CreateReviewRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("platform", r.Platform)
	v.Range("rating", int(r.Rating), 1, 5)

	if r.ReviewDate != "" {
		if _, err := time.Parse(time.RFC3339, r.ReviewDate); err != nil {
			v.Custom("reviewDate", false, "Must be an RFC 3339 timestamp")
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ReviewDTO defines the JSON response for reviews.
type ReviewDTO struct {
	ID           int64  `json:"id"`
	BusinessID   int64  `json:"businessId"`
	Platform     string `json:"platform"`
	Rating       int32  `json:"rating"`
	Content      string `json:"content,omitempty"`
	ReviewerName string `json:"reviewerName,omitempty"`
	ReviewDate   string `json:"reviewDate"`
	URL          string `json:"url,omitempty"`
	IsResponded  bool   `json:"isResponded"`
	Response     string `json:"response,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func toReviewDTO(review *domain.Review) ReviewDTO {
	return ReviewDTO{
		ID:           review.ID,
		BusinessID:   review.BusinessID,
		Platform:     review.Platform,
		Rating:       review.Rating,
		Content:      review.Content,
		ReviewerName: review.ReviewerName,
		ReviewDate:   review.ReviewDate.Format(time.RFC3339),
		URL:          review.URL,
		IsResponded:  review.IsResponded,
		Response:     review.Response,
		CreatedAt:    review.CreatedAt.Format(time.RFC3339),
	}
}

func toReviewDTOs(reviews []*domain.Review) []ReviewDTO {
	response := make([]ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, toReviewDTO(review))
	}
	return response
}

// --- Handlers ---

// HandleListReviews handles GET /businesses/{businessID}/reviews
func (h *ReviewHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	reviews, err := h.reviewService.ListReviews(r.Context(), businessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toReviewDTOs(reviews))
}

// HandleCreateReview handles POST /businesses/{businessID}/reviews
func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateReviewRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	reviewDate := time.Now()
	if req.ReviewDate != "" {
		reviewDate, _ = time.Parse(time.RFC3339, req.ReviewDate)
	}

	review := &domain.Review{
		BusinessID:   businessID,
		Platform:     req.Platform,
		Rating:       req.Rating,
		Content:      req.Content,
		ReviewerName: req.ReviewerName,
		ReviewDate:   reviewDate,
		URL:          req.URL,
	}

	created, err := h.reviewService.CreateReview(r.Context(), review)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("review recorded",
		"review_id", created.ID,
		"business_id", businessID,
		"platform", created.Platform,
	)

	WriteCreated(w, toReviewDTO(created))
}
