package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/home-services-backend/internal/adapters/primary/validation"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// JobHandler handles HTTP requests for jobs
type JobHandler struct {
	jobService   ports.JobService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService ports.JobService, errorHandler *ErrorHandler, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobService:   jobService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "job"),
	}
}

// Router sets up a new chi Router for all job routes.
func (h *JobHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all job endpoints.
func (h *JobHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListJobs)
	r.Post("/", h.HandleCreateJob)

	r.Route("/{jobID}", func(r chi.Router) {
		r.Get("/", h.HandleGetJob)
		r.Patch("/", h.HandleUpdateJob)
	})
}

// --- Request/Response DTOs ---

// CreateJobRequest defines the expected JSON body for creating a job
type CreateJobRequest struct {
	ContactID    int64  `json:"contactId"`
	EquipmentID  *int64 `json:"equipmentId"`
	TechnicianID *int64 `json:"technicianId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Notes        string `json:"notes"`
	Price        string `json:"price"`
}

// Validate validates the create job request
func (r *CreateJobRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, 200)

	v.Custom("contactId", r.ContactID > 0, "Must be a positive integer")

	v.Required("startTime", r.StartTime)
	v.Required("endTime", r.EndTime)

	if r.StartTime != "" {
		if _, err := time.Parse(time.RFC3339, r.StartTime); err != nil {
			v.Custom("startTime", false, "Must be an RFC 3339 timestamp")
		}
	}
	if r.EndTime != "" {
		if _, err := time.Parse(time.RFC3339, r.EndTime); err != nil {
			v.Custom("endTime", false, "Must be an RFC 3339 timestamp")
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateJobRequest defines the expected JSON body for partial job updates.
// Absent fields are left untouched.
type UpdateJobRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	TechnicianID *int64  `json:"technicianId"`
	Notes        *string `json:"notes"`
	Price        *string `json:"price"`
}

// Validate validates the update job request
func (r *UpdateJobRequest) Validate() error {
	v := validation.NewValidator()

	if r.Status != nil {
		v.OneOf("status", *r.Status, []string{
			"scheduled", "in_progress", "completed", "cancelled",
		})
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// JobDTO defines the JSON response for jobs.
type JobDTO struct {
	ID           int64   `json:"id"`
	BusinessID   int64   `json:"businessId"`
	ContactID    int64   `json:"contactId"`
	EquipmentID  *int64  `json:"equipmentId,omitempty"`
	TechnicianID *int64  `json:"technicianId,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	Price        string  `json:"price,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt,omitempty"`
}

func toJobDTO(job *domain.Job) JobDTO {
	var updatedAt *string
	if job.UpdatedAt != nil {
		value := job.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return JobDTO{
		ID:           job.ID,
		BusinessID:   job.BusinessID,
		ContactID:    job.ContactID,
		EquipmentID:  job.EquipmentID,
		TechnicianID: job.TechnicianID,
		Title:        job.Title,
		Description:  job.Description,
		StartTime:    job.StartTime.Format(time.RFC3339),
		EndTime:      job.EndTime.Format(time.RFC3339),
		Status:       string(job.Status),
		Notes:        job.Notes,
		Price:        job.Price,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toJobDTOs(jobs []*domain.Job) []JobDTO {
	response := make([]JobDTO, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, toJobDTO(job))
	}
	return response
}

// --- Handlers ---

// HandleListJobs handles GET /businesses/{businessID}/jobs
func (h *JobHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var contactID *int64
	if raw := r.URL.Query().Get("contactId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid contact ID"))
			return
		}
		contactID = &parsed
	}

	page := validation.ParsePagination(r, maxPageSize)

	jobs, err := h.jobService.ListJobs(r.Context(), businessID, contactID, page.Limit, page.Offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toJobDTOs(jobs))
}

// HandleCreateJob handles POST /businesses/{businessID}/jobs
func (h *JobHandler) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateJobRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	params := domain.JobParams{
		BusinessID:   businessID,
		ContactID:    req.ContactID,
		EquipmentID:  req.EquipmentID,
		TechnicianID: req.TechnicianID,
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    startTime,
		EndTime:      endTime,
		Notes:        req.Notes,
		Price:        req.Price,
	}

	job, err := h.jobService.CreateJob(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("job created",
		"job_id", job.ID,
		"business_id", businessID,
	)

	WriteCreated(w, toJobDTO(job))
}

// HandleGetJob handles GET /businesses/{businessID}/jobs/{jobID}
func (h *JobHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.parseJobID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toJobDTO(job))
}

// HandleUpdateJob handles PATCH /businesses/{businessID}/jobs/{jobID}
func (h *JobHandler) HandleUpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.parseJobID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateJobRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateJobParams{
		ID:           jobID,
		Title:        req.Title,
		Description:  req.Description,
		TechnicianID: req.TechnicianID,
		Notes:        req.Notes,
		Price:        req.Price,
	}
	if req.Status != nil {
		status := domain.JobStatus(*req.Status)
		params.Status = &status
	}

	job, err := h.jobService.UpdateJob(r.Context(), params)
	if err != nil && job == nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err != nil {
		// The job row is updated; only the automation pass failed. Surface
		// the partial failure without hiding the committed write.
		h.logger.Error("automation evaluation failed after job update",
			"job_id", job.ID,
			"error", err,
		)
	}

	WriteJSON(w, http.StatusOK, toJobDTO(job))
}

func (h *JobHandler) parseJobID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "jobID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(err, "Invalid job ID")
	}
	return id, nil
}
