package services

import (
	"context"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// JobService implements business logic for scheduled work. A status change
// to completed drives the job_completed automation trigger, and every update
// is broadcast to the business's realtime subscribers.
type JobService struct {
	jobRepo       ports.JobRepository
	automationSvc ports.AutomationService
	broadcaster   ports.EventBroadcaster
}

var _ ports.JobService = (*JobService)(nil)

// NewJobService creates a new job service.
func NewJobService(
	jobRepo ports.JobRepository,
	automationSvc ports.AutomationService,
	broadcaster ports.EventBroadcaster,
) *JobService {
	return &JobService{
		jobRepo:       jobRepo,
		automationSvc: automationSvc,
		broadcaster:   broadcaster,
	}
}

// CreateJob validates and persists a new job, then fires the
// appointment_scheduled trigger.
func (s *JobService) CreateJob(ctx context.Context, params domain.JobParams) (*domain.Job, error) {
	job, err := domain.NewJob(params)
	if err != nil {
		return nil, err
	}

	created, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	// The domain write already committed; automation failures must not undo
	// it. The caller decides how loudly to report them.
	autoErr := s.automationSvc.EvaluateAndFire(ctx, created.BusinessID, domain.TriggerAppointmentScheduled, domain.TriggerContext{
		"jobId":     created.ID,
		"contactId": created.ContactID,
	})
	if autoErr != nil {
		return created, autoErr
	}

	return created, nil
}

// GetJob retrieves a job by ID.
func (s *JobService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// UpdateJob applies a partial edit. When the status transitions to
// completed, job_completed automations are evaluated before the status
// broadcast goes out, mirroring the mutation path the dashboard depends on.
// The returned error never indicates a failed write: once the job row is
// updated, only automation-evaluation errors can surface, and the broadcast
// always happens.
func (s *JobService) UpdateJob(ctx context.Context, params ports.UpdateJobParams) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	wasCompleted := job.Status == domain.JobCompleted

	if params.Title != nil {
		if *params.Title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		job.Title = *params.Title
	}
	if params.Description != nil {
		job.Description = *params.Description
	}
	if params.TechnicianID != nil {
		job.TechnicianID = params.TechnicianID
	}
	if params.Notes != nil {
		job.Notes = *params.Notes
	}
	if params.Price != nil {
		job.Price = *params.Price
	}
	if params.Status != nil {
		if err := job.UpdateStatus(*params.Status); err != nil {
			return nil, err
		}
	}

	updated, err := s.jobRepo.Update(ctx, job)
	if err != nil {
		return nil, err
	}

	var autoErr error
	if !wasCompleted && updated.Status == domain.JobCompleted {
		autoErr = s.automationSvc.EvaluateAndFire(ctx, updated.BusinessID, domain.TriggerJobCompleted, domain.TriggerContext{
			"jobId":     updated.ID,
			"contactId": updated.ContactID,
		})
	}

	_ = s.broadcaster.Broadcast(domain.NewJobStatusEvent(updated))

	return updated, autoErr
}

// ListJobs returns a page of jobs for a business, optionally narrowed to
// one contact.
func (s *JobService) ListJobs(ctx context.Context, businessID int64, contactID *int64, limit, offset int) ([]*domain.Job, error) {
	return s.jobRepo.ListByBusiness(ctx, businessID, contactID, limit, offset)
}
