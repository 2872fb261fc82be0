package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"labor-board/internal/domain/job"
	"labor-board/internal/domain/profile"
)

// Notifier is the channel presentation subscribes to; it only learns that
// the board changed and re-queries for the actual state.
type Notifier interface {
	BoardChanged()
}

type PostJobInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Budget      *float64
}

type BoardUsecase interface {
	ListJobs(ctx context.Context, role profile.Role) ([]job.Job, error)
	MyJobs(ctx context.Context) ([]job.Job, error)
	PostJob(ctx context.Context, in PostJobInput) (job.Job, []job.Job, error)
	ToggleJobStatus(ctx context.Context, jobID uuid.UUID) ([]job.Job, error)
	Apply(ctx context.Context, jobID uuid.UUID) ([]job.Job, error)
	DecideApplication(ctx context.Context, applicationID uuid.UUID, decision job.ApplicationStatus) ([]job.Job, error)
}

// Board orchestrates every job and application operation:
// fetch → policy filter → transition → persist → re-fetch. Mutations never
// patch local state; the fresh snapshot after persisting is the only thing
// presentation ever sees.
type Board struct {
	jobs     job.Repository
	apps     job.ApplicationRepository
	profiles profile.Repository
	identity Identity
	notifier Notifier
	now      func() time.Time
}

func NewBoard(jobs job.Repository, apps job.ApplicationRepository, profiles profile.Repository, identity Identity, notifier Notifier) *Board {
	return &Board{
		jobs:     jobs,
		apps:     apps,
		profiles: profiles,
		identity: identity,
		notifier: notifier,
		now:      time.Now,
	}
}

// ListJobs returns the jobs the current viewer may see as the given role.
// The superset fetched from the store is already role-shaped: laborers
// need every job, owners only their own rows; the policy then narrows.
func (b *Board) ListJobs(ctx context.Context, role profile.Role) ([]job.Job, error) {
	viewerID, ok := b.identity.CurrentUserID(ctx)

	var viewer *uuid.UUID
	if ok {
		viewer = &viewerID
	}

	var (
		fetched []job.Job
		err     error
	)
	switch {
	case role == profile.RoleLaborer:
		fetched, err = b.jobs.ListAll(ctx)
	case role.PostsJobs():
		if viewer == nil {
			return []job.Job{}, nil
		}
		fetched, err = b.jobs.ListByClient(ctx, *viewer)
	default:
		return nil, fmt.Errorf("%w: %q", job.ErrUnknownRole, role)
	}
	if err != nil {
		return nil, storageErr("list jobs", err)
	}

	return job.VisibleJobs(role, viewer, fetched)
}

// MyJobs lists the postings owned by the current viewer.
func (b *Board) MyJobs(ctx context.Context) ([]job.Job, error) {
	viewerID, ok := b.identity.CurrentUserID(ctx)
	if !ok {
		return []job.Job{}, nil
	}
	jobs, err := b.jobs.ListByClient(ctx, viewerID)
	if err != nil {
		return nil, storageErr("list my jobs", err)
	}
	return jobs, nil
}

func (b *Board) PostJob(ctx context.Context, in PostJobInput) (job.Job, []job.Job, error) {
	actor, err := b.actor(ctx)
	if err != nil {
		return job.Job{}, nil, err
	}
	if !actor.Role.PostsJobs() {
		return job.Job{}, nil, job.ErrForbidden
	}

	j, err := job.NewJob(actor.ID, in.Title, in.Description, in.Category, in.Location, in.Budget)
	if err != nil {
		return job.Job{}, nil, err
	}

	created, err := b.jobs.Insert(ctx, j)
	if err != nil {
		return job.Job{}, nil, storageErr("insert job", err)
	}

	snapshot, err := b.refresh(ctx, actor.Role)
	if err != nil {
		return job.Job{}, nil, err
	}
	return created, snapshot, nil
}

func (b *Board) ToggleJobStatus(ctx context.Context, jobID uuid.UUID) ([]job.Job, error) {
	actor, err := b.actor(ctx)
	if err != nil {
		return nil, err
	}

	j, err := b.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, storageErr("load job", err)
	}

	next, err := job.ToggleStatus(j, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := b.jobs.UpdateStatus(ctx, next.ID, next.Status); err != nil {
		return nil, storageErr("update job status", err)
	}
	return b.refresh(ctx, actor.Role)
}

func (b *Board) Apply(ctx context.Context, jobID uuid.UUID) ([]job.Job, error) {
	actor, err := b.actor(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role != profile.RoleLaborer {
		return nil, job.ErrForbidden
	}

	j, err := b.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, storageErr("load job", err)
	}

	app, err := job.ApplyToJob(j, actor.ID)
	if err != nil {
		return nil, err
	}

	// The engine's duplicate check ran against the loaded snapshot; the
	// store's unique constraint closes the race with a concurrent apply
	// and comes back as the same conflict error.
	if _, err := b.apps.Insert(ctx, app); err != nil {
		return nil, storageErr("insert application", err)
	}
	return b.refresh(ctx, actor.Role)
}

func (b *Board) DecideApplication(ctx context.Context, applicationID uuid.UUID, decision job.ApplicationStatus) ([]job.Job, error) {
	actor, err := b.actor(ctx)
	if err != nil {
		return nil, err
	}

	app, err := b.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storageErr("load application", err)
	}
	j, err := b.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, storageErr("load job", err)
	}

	next, err := job.Decide(app, decision, actor.ID, j.ClientID, b.now())
	if err != nil {
		return nil, err
	}

	if err := b.apps.UpdateStatus(ctx, next.ID, next.Status); err != nil {
		return nil, storageErr("update application status", err)
	}
	return b.refresh(ctx, actor.Role)
}

// actor loads the acting user's profile. No identity, or no registered
// profile, means the caller has no standing to mutate the board.
func (b *Board) actor(ctx context.Context) (profile.Profile, error) {
	viewerID, ok := b.identity.CurrentUserID(ctx)
	if !ok {
		return profile.Profile{}, job.ErrForbidden
	}
	p, err := b.profiles.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, job.ErrForbidden
		}
		return profile.Profile{}, storageErr("load profile", err)
	}
	if !p.Registered() {
		return profile.Profile{}, job.ErrForbidden
	}
	return p, nil
}

// refresh re-runs the role's listing after a mutation and wakes the
// notification channel. Correctness over latency: the caller always gets
// the store's view, not a speculative local patch.
func (b *Board) refresh(ctx context.Context, role profile.Role) ([]job.Job, error) {
	snapshot, err := b.ListJobs(ctx, role)
	if err != nil {
		return nil, err
	}
	if b.notifier != nil {
		b.notifier.BoardChanged()
	}
	return snapshot, nil
}

// storageErr wraps infrastructure failures as ErrStorage while letting
// domain sentinels pass through untouched.
func storageErr(op string, err error) error {
	for _, sentinel := range []error{
		job.ErrNotFound,
		job.ErrApplicationNotFound,
		job.ErrDuplicateApplication,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %v", job.ErrStorage, op, err)
}
