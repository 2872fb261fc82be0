package repository

import (
	"context"
	"errors"

	"labor-board/internal/database"
	"labor-board/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, full_name, role, phone_number, skills, daily_rate, business_name
		 FROM profiles
		 WHERE id = $1`,
		id,
	)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	// Role is set once at registration; a later upsert keeps the stored role.
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, email, full_name, role, phone_number, skills, daily_rate, business_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email,
		   full_name = EXCLUDED.full_name,
		   phone_number = EXCLUDED.phone_number,
		   skills = EXCLUDED.skills,
		   daily_rate = EXCLUDED.daily_rate,
		   business_name = EXCLUDED.business_name`,
		p.ID, p.Email, p.FullName, string(p.Role), p.PhoneNumber, p.Skills, p.DailyRate, p.BusinessName,
	)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (profile.Profile, error) {
	var (
		p    profile.Profile
		role string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &role, &p.PhoneNumber, &p.Skills, &p.DailyRate, &p.BusinessName); err != nil {
		return profile.Profile{}, err
	}
	p.Role = profile.Role(role)
	return p, nil
}
