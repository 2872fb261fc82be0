package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The transition functions validate a requested change and return the
// intended next state. They never touch storage; persistence is the
// service's job.

// ToggleStatus flips a job between open and completed on behalf of the
// requester. Only the posting owner may toggle.
func ToggleStatus(j Job, requesterID uuid.UUID) (Job, error) {
	if j.ID == uuid.Nil {
		return Job{}, fmt.Errorf("%w: job has no id", ErrNotFound)
	}
	if requesterID != j.ClientID {
		return Job{}, ErrForbidden
	}

	if j.Status == StatusCompleted {
		j.Status = StatusOpen
	} else {
		j.Status = StatusCompleted
	}
	return j, nil
}

// ApplyToJob produces the pending application applicantID would hold on j,
// or rejects the attempt. A second application from the same applicant is a
// conflict regardless of the first one's status.
func ApplyToJob(j Job, applicantID uuid.UUID) (Application, error) {
	if j.HasApplicationFrom(applicantID) {
		return Application{}, ErrDuplicateApplication
	}
	if j.Status != StatusOpen {
		return Application{}, ErrJobNotOpen
	}
	return NewApplication(j.ID, applicantID)
}

// Decide approves or rejects a pending application on behalf of the job
// owner. Approved and rejected are terminal.
func Decide(app Application, decision ApplicationStatus, requesterID, jobOwnerID uuid.UUID, now time.Time) (Application, error) {
	if decision != ApplicationApproved && decision != ApplicationRejected {
		return Application{}, fmt.Errorf("%w: decision %q", ErrValidation, decision)
	}
	if requesterID != jobOwnerID {
		return Application{}, ErrForbidden
	}
	if app.Status != ApplicationPending {
		return Application{}, ErrNotPending
	}

	app.Status = decision
	app.UpdatedAt = now.UTC()
	return app, nil
}
