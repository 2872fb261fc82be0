package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"labor-board/internal/domain/profile"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Job is a posted work opportunity. Poster and Applications are read-time
// joins and are never persisted on write.
type Job struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Description string
	Category    string
	Location    string
	Budget      *float64
	Status      Status
	CreatedAt   time.Time

	Poster       *profile.Profile
	Applications []Application
}

// Application is a laborer's request to be considered for a job.
type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Applicant *profile.Profile
}

// NewJob validates the posting fields and returns an open job owned by
// clientID. The store assigns ID and CreatedAt.
func NewJob(clientID uuid.UUID, title, description, category, location string, budget *float64) (Job, error) {
	if clientID == uuid.Nil {
		return Job{}, fmt.Errorf("%w: missing client id", ErrValidation)
	}
	fields := []struct {
		name  string
		value string
	}{
		{"title", title},
		{"description", description},
		{"category", category},
		{"location", location},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Job{}, fmt.Errorf("%w: empty %s", ErrValidation, f.name)
		}
	}
	if budget != nil && *budget < 0 {
		return Job{}, fmt.Errorf("%w: negative budget", ErrValidation)
	}

	return Job{
		ClientID:    clientID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Location:    strings.TrimSpace(location),
		Budget:      budget,
		Status:      StatusOpen,
	}, nil
}

// NewApplication validates the referential fields of an application. The
// store assigns ID and timestamps.
func NewApplication(jobID, applicantID uuid.UUID) (Application, error) {
	if jobID == uuid.Nil {
		return Application{}, fmt.Errorf("%w: missing job id", ErrValidation)
	}
	if applicantID == uuid.Nil {
		return Application{}, fmt.Errorf("%w: missing applicant id", ErrValidation)
	}
	return Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      ApplicationPending,
	}, nil
}

// StripJoins clears the read-only join fields before a write.
func (j Job) StripJoins() Job {
	j.Poster = nil
	j.Applications = nil
	return j
}

// HasApplicationFrom reports whether the loaded applications contain one
// from the given applicant, in any status.
func (j Job) HasApplicationFrom(applicantID uuid.UUID) bool {
	for _, a := range j.Applications {
		if a.ApplicantID == applicantID {
			return true
		}
	}
	return false
}
