package repository

import (
	"context"
	"errors"
	"fmt"

	"labor-board/internal/database"
	"labor-board/internal/domain/job"
	"labor-board/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobWithPosterColumns = `
	j.id, j.client_id, j.title, j.description, j.category, j.location,
	j.budget, j.status, j.created_at,
	p.id, p.email, p.full_name, p.role, p.phone_number, p.skills, p.daily_rate, p.business_name`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobWithPosterColumns+`
		 FROM jobs j
		 LEFT JOIN profiles p ON p.id = j.client_id
		 ORDER BY j.created_at DESC`,
	)
}

func (r *PostgresJobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobWithPosterColumns+`
		 FROM jobs j
		 LEFT JOIN profiles p ON p.id = j.client_id
		 WHERE j.client_id = $1
		 ORDER BY j.created_at DESC`,
		clientID,
	)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobWithPosterColumns+`
		 FROM jobs j
		 LEFT JOIN profiles p ON p.id = j.client_id
		 WHERE j.id = $1`,
		id,
	)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	if err := r.attachApplications(ctx, []*job.Job{&j}); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Insert(ctx context.Context, j job.Job) (job.Job, error) {
	j = j.StripJoins()
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (client_id, title, description, category, location, budget, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		j.ClientID, j.Title, j.Description, j.Category, j.Location, j.Budget, string(j.Status),
	)
	if err := row.Scan(&j.ID, &j.CreatedAt); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $1 WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*job.Job, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachApplications(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// attachApplications hydrates the applications join (with applicant
// profiles) for the given jobs in one query, preserving creation order.
func (r *PostgresJobRepository) attachApplications(ctx context.Context, jobs []*job.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(jobs))
	byID := make(map[uuid.UUID]*job.Job, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
		byID[j.ID] = j
	}

	rows, err := r.db.Query(ctx,
		`SELECT
		   a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
		   p.id, p.email, p.full_name, p.role, p.phone_number, p.skills, p.daily_rate, p.business_name
		 FROM job_applications a
		 LEFT JOIN profiles p ON p.id = a.applicant_id
		 WHERE a.job_id = ANY($1)
		 ORDER BY a.created_at ASC`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return err
		}
		j, ok := byID[a.JobID]
		if !ok {
			return fmt.Errorf("application %s references unknown job %s", a.ID, a.JobID)
		}
		j.Applications = append(j.Applications, a)
	}
	return rows.Err()
}

func scanJob(row scannable) (job.Job, error) {
	var (
		j      job.Job
		status string
	)
	var joined profileColumns
	dest := []any{
		&j.ID, &j.ClientID, &j.Title, &j.Description, &j.Category, &j.Location,
		&j.Budget, &status, &j.CreatedAt,
	}
	dest = append(dest, joined.dest()...)
	if err := row.Scan(dest...); err != nil {
		return job.Job{}, err
	}
	j.Status = job.Status(status)
	j.Poster = joined.profile()
	return j, nil
}

func scanApplication(row scannable) (job.Application, error) {
	var (
		a      job.Application
		status string
	)
	var joined profileColumns
	dest := []any{&a.ID, &a.JobID, &a.ApplicantID, &status, &a.CreatedAt, &a.UpdatedAt}
	dest = append(dest, joined.dest()...)
	if err := row.Scan(dest...); err != nil {
		return job.Application{}, err
	}
	a.Status = job.ApplicationStatus(status)
	a.Applicant = joined.profile()
	return a, nil
}

// profileColumns scans a LEFT JOINed profiles row that may be all NULLs.
type profileColumns struct {
	id       *uuid.UUID
	email    *string
	fullName *string
	role     *string
	phone    *string
	skills   []string
	rate     *float64
	business *string
}

func (c *profileColumns) dest() []any {
	return []any{&c.id, &c.email, &c.fullName, &c.role, &c.phone, &c.skills, &c.rate, &c.business}
}

func (c *profileColumns) profile() *profile.Profile {
	if c.id == nil {
		return nil
	}
	p := &profile.Profile{
		ID:           *c.id,
		Email:        c.email,
		PhoneNumber:  c.phone,
		Skills:       c.skills,
		DailyRate:    c.rate,
		BusinessName: c.business,
	}
	if c.fullName != nil {
		p.FullName = *c.fullName
	}
	if c.role != nil {
		p.Role = profile.Role(*c.role)
	}
	return p
}
