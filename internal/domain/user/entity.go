package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity-provider account: the stable key behind sessions,
// independent of profile completeness. Phone-only accounts carry no
// password hash.
type User struct {
	ID           uuid.UUID
	Email        *string
	Phone        *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
