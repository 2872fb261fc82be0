package usecase

import (
	"context"
	"errors"
	"strings"

	"labor-board/internal/domain/profile"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidProfile    = errors.New("invalid profile input")
	ErrNeedsRegistration = errors.New("registration incomplete")
)

type RegisterProfileInput struct {
	Email        *string
	FullName     string
	Role         profile.Role
	PhoneNumber  *string
	Skills       []string
	DailyRate    *float64
	BusinessName *string
}

type ProfileUsecase interface {
	GetMe(ctx context.Context) (profile.Profile, error)
	Register(ctx context.Context, in RegisterProfileInput) (profile.Profile, error)
}

// Profiles completes and serves registration. A profile with a blank full
// name does not exist as far as the rest of the system is concerned.
type Profiles struct {
	profiles profile.Repository
	identity Identity
}

func NewProfiles(profiles profile.Repository, identity Identity) *Profiles {
	return &Profiles{profiles: profiles, identity: identity}
}

func (s *Profiles) GetMe(ctx context.Context) (profile.Profile, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return profile.Profile{}, ErrUnauthorized
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	if !p.Registered() {
		return profile.Profile{}, ErrNeedsRegistration
	}
	return p, nil
}

// Register upserts the caller's profile. The role is set once: when a
// profile row already exists its stored role wins over the payload.
func (s *Profiles) Register(ctx context.Context, in RegisterProfileInput) (profile.Profile, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return profile.Profile{}, ErrUnauthorized
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return profile.Profile{}, ErrInvalidProfile
	}
	if !in.Role.Valid() {
		return profile.Profile{}, ErrInvalidProfile
	}
	if in.DailyRate != nil && *in.DailyRate < 0 {
		return profile.Profile{}, ErrInvalidProfile
	}

	role := in.Role
	if existing, err := s.profiles.GetByID(ctx, userID); err == nil && existing.Role.Valid() {
		role = existing.Role
	}

	p := profile.Profile{
		ID:           userID,
		Email:        in.Email,
		FullName:     fullName,
		Role:         role,
		PhoneNumber:  in.PhoneNumber,
		Skills:       in.Skills,
		DailyRate:    in.DailyRate,
		BusinessName: in.BusinessName,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return profile.Profile{}, ErrInternal
	}

	saved, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return saved, nil
}
