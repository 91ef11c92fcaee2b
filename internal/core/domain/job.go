package domain

import (
	"time"

	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
)

// JobStatus is the lifecycle state of a scheduled job.
type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// IsValid reports whether the status is a known lifecycle state.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobScheduled, JobInProgress, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// Job is a scheduled piece of work for a contact.
type Job struct {
	ID           int64      `json:"id"`
	BusinessID   int64      `json:"businessId"`
	ContactID    int64      `json:"contactId"`
	EquipmentID  *int64     `json:"equipmentId,omitempty"`
	TechnicianID *int64     `json:"technicianId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      time.Time  `json:"endTime"`
	Status       JobStatus  `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	Price        string     `json:"price,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// JobParams is the input for creating a job.
type JobParams struct {
	BusinessID   int64
	ContactID    int64
	EquipmentID  *int64
	TechnicianID *int64
	Title        string
	Description  string
	StartTime    time.Time
	EndTime      time.Time
	Notes        string
	Price        string
}

// NewJob validates the params and builds a job in the scheduled state.
func NewJob(params JobParams) (*Job, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if params.ContactID == 0 {
		return nil, apperrors.ErrContactIDRequired
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return nil, apperrors.ErrJobTimeRequired
	}
	if params.EndTime.Before(params.StartTime) {
		return nil, apperrors.ErrJobTimeInverted
	}

	return &Job{
		BusinessID:   params.BusinessID,
		ContactID:    params.ContactID,
		EquipmentID:  params.EquipmentID,
		TechnicianID: params.TechnicianID,
		Title:        params.Title,
		Description:  params.Description,
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
		Status:       JobScheduled,
		Notes:        params.Notes,
		Price:        params.Price,
	}, nil
}

// UpdateStatus transitions the job to a new status. Completed and cancelled
// jobs are terminal.
func (j *Job) UpdateStatus(status JobStatus) error {
	if !status.IsValid() {
		return apperrors.ErrInvalidJobStatus
	}
	if j.Status == JobCompleted || j.Status == JobCancelled {
		if j.Status != status {
			return apperrors.ErrJobAlreadyClosed
		}
		return nil
	}

	j.Status = status
	now := time.Now()
	j.UpdatedAt = &now
	return nil
}
