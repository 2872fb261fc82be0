package repository

import (
	"context"
	"errors"

	"labor-board/internal/database"
	"labor-board/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT
		   a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
		   p.id, p.email, p.full_name, p.role, p.phone_number, p.skills, p.daily_rate, p.business_name
		 FROM job_applications a
		 LEFT JOIN profiles p ON p.id = a.applicant_id
		 WHERE a.id = $1`,
		id,
	)

	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Application{}, job.ErrApplicationNotFound
		}
		return job.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) Insert(ctx context.Context, a job.Application) (job.Application, error) {
	a.Applicant = nil
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, applicant_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		a.JobID, a.ApplicantID, string(a.Status),
	)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		// The store's uniqueness constraint is the last line of defense
		// against a concurrent duplicate apply.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return job.Application{}, job.ErrDuplicateApplication
		}
		return job.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status job.ApplicationStatus) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return job.ErrApplicationNotFound
	}
	return nil
}
