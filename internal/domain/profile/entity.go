package profile

import (
	"github.com/google/uuid"
)

// Role determines which jobs a user may see and which actions they may take.
type Role string

const (
	RoleLaborer    Role = "laborer"
	RoleContractor Role = "contractor"
	RoleClient     Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleLaborer, RoleContractor, RoleClient:
		return true
	default:
		return false
	}
}

// PostsJobs reports whether the role owns job postings.
func (r Role) PostsJobs() bool {
	return r == RoleClient || r == RoleContractor
}

// Profile is the role-specific record linked to an identity. A blank
// FullName means registration has not completed.
type Profile struct {
	ID           uuid.UUID
	Email        *string
	FullName     string
	Role         Role
	PhoneNumber  *string
	Skills       []string
	DailyRate    *float64
	BusinessName *string
}

func (p Profile) Registered() bool {
	return p.FullName != ""
}
