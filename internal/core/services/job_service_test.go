package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/mocks"
	"github.com/lorrc/home-services-backend/internal/core/ports"
	"github.com/lorrc/home-services-backend/internal/core/services"
)

func scheduledJob(id int64) *domain.Job {
	return &domain.Job{
		ID:         id,
		BusinessID: 1,
		ContactID:  2,
		Title:      "Furnace tune-up",
		StartTime:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		Status:     domain.JobScheduled,
	}
}

func TestJobService_CreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("creates job and fires appointment trigger", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		created := scheduledJob(7)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Job")).Return(created, nil)
		mockAuto.On("EvaluateAndFire", ctx, int64(1), domain.TriggerAppointmentScheduled, mock.Anything).Return(nil)

		job, err := svc.CreateJob(ctx, domain.JobParams{
			BusinessID: 1,
			ContactID:  2,
			Title:      "Furnace tune-up",
			StartTime:  created.StartTime,
			EndTime:    created.EndTime,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), job.ID)
		assert.Equal(t, domain.JobScheduled, job.Status)
		mockAuto.AssertExpectations(t)
	})

	t.Run("validation failure skips persistence", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		_, err := svc.CreateJob(ctx, domain.JobParams{BusinessID: 1, ContactID: 2})

		assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("automation failure does not undo the write", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		created := scheduledJob(7)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Job")).Return(created, nil)
		mockAuto.On("EvaluateAndFire", ctx, int64(1), domain.TriggerAppointmentScheduled, mock.Anything).
			Return(errors.New("rule store down"))

		job, err := svc.CreateJob(ctx, domain.JobParams{
			BusinessID: 1,
			ContactID:  2,
			Title:      "Furnace tune-up",
			StartTime:  created.StartTime,
			EndTime:    created.EndTime,
		})

		assert.Error(t, err)
		assert.NotNil(t, job)
	})
}

func TestJobService_UpdateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("completion fires job_completed then broadcasts", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		job := scheduledJob(7)
		mockRepo.On("GetByID", ctx, int64(7)).Return(job, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.Status == domain.JobCompleted
		})).Return(job, nil)
		mockAuto.On("EvaluateAndFire", ctx, int64(1), domain.TriggerJobCompleted, mock.MatchedBy(func(tc domain.TriggerContext) bool {
			return tc["jobId"] == int64(7)
		})).Return(nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventJobStatusChange && e.BusinessID == 1
		})).Return(nil)

		status := domain.JobCompleted
		updated, err := svc.UpdateJob(ctx, ports.UpdateJobParams{ID: 7, Status: &status})

		require.NoError(t, err)
		assert.Equal(t, domain.JobCompleted, updated.Status)
		mockAuto.AssertExpectations(t)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("non-status edits broadcast without firing automations", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		job := scheduledJob(7)
		mockRepo.On("GetByID", ctx, int64(7)).Return(job, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Job")).Return(job, nil)
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		notes := "customer prefers mornings"
		_, err := svc.UpdateJob(ctx, ports.UpdateJobParams{ID: 7, Notes: &notes})

		require.NoError(t, err)
		mockAuto.AssertNotCalled(t, "EvaluateAndFire")
		mockBroadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})

	t.Run("automation failure surfaces but job stays updated", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		job := scheduledJob(7)
		mockRepo.On("GetByID", ctx, int64(7)).Return(job, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Job")).Return(job, nil)
		mockAuto.On("EvaluateAndFire", ctx, int64(1), domain.TriggerJobCompleted, mock.Anything).
			Return(errors.New("rule store down"))
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		status := domain.JobCompleted
		updated, err := svc.UpdateJob(ctx, ports.UpdateJobParams{ID: 7, Status: &status})

		assert.Error(t, err)
		assert.NotNil(t, updated)
		mockBroadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})

	t.Run("terminal job rejects reopening", func(t *testing.T) {
		mockRepo := mocks.NewMockJobRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewJobService(mockRepo, mockAuto, mockBroadcaster)

		job := scheduledJob(7)
		job.Status = domain.JobCompleted
		mockRepo.On("GetByID", ctx, int64(7)).Return(job, nil)

		status := domain.JobScheduled
		_, err := svc.UpdateJob(ctx, ports.UpdateJobParams{ID: 7, Status: &status})

		assert.ErrorIs(t, err, apperrors.ErrJobAlreadyClosed)
		mockRepo.AssertNotCalled(t, "Update")
	})
}
