package repository

import (
	"context"
	"errors"

	"labor-board/internal/database"
	"labor-board/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, phone, password_hash)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.Phone, u.PasswordHash,
	)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *PostgresUserRepository) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	return r.get(ctx, `WHERE phone = $1`, phone)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) get(ctx context.Context, where string, arg any) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, phone, COALESCE(password_hash, ''), created_at, updated_at
		 FROM users `+where,
		arg,
	)

	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
