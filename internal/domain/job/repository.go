package job

import (
	"context"

	"github.com/google/uuid"
)

// Repository loads jobs with their poster and application joins hydrated
// and persists the write shapes the service produces.
type Repository interface {
	// ListAll returns every job, newest first, with joins.
	ListAll(ctx context.Context) ([]Job, error)
	// ListByClient returns the jobs posted by clientID, newest first, with joins.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Job, error)
	// GetByID returns one job with joins.
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	// Insert persists a new job (joins stripped) and returns it with the
	// store-assigned id and created_at.
	Insert(ctx context.Context, j Job) (Job, error)
	// UpdateStatus persists a status toggle as a single-column change.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type ApplicationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	// Insert persists a new pending application. A duplicate
	// (job_id, applicant_id) pair surfaces as ErrDuplicateApplication.
	Insert(ctx context.Context, a Application) (Application, error)
	// UpdateStatus persists a decision: status plus updated_at.
	UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) error
}
