package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"labor-board/internal/domain/user"
	"labor-board/internal/pkg/jwt"
	ucauth "labor-board/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

// SessionEvent is the identity provider's push signal: a session became
// authenticated for a user, or stopped being authenticated.
type SessionEvent struct {
	UserID        uuid.UUID
	Authenticated bool
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, string, string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, string, error)
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (user.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	Events() <-chan SessionEvent
}

// Auth wraps the credential service with token issuance and the
// session-event stream.
type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service

	mu     sync.Mutex
	events []chan SessionEvent
}

func NewAuthUsecase(authSvc *ucauth.Service, users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: authSvc, users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, string, string, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, "", "", err
	}
	return u.issue(usr)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, string, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, "", "", err
	}
	return u.issue(usr)
}

func (u *Auth) SendOTP(ctx context.Context, phone string) error {
	return u.authSvc.SendOTP(ctx, phone)
}

func (u *Auth) VerifyOTP(ctx context.Context, phone, code string) (user.User, string, string, error) {
	usr, err := u.authSvc.VerifyOTP(ctx, phone, code)
	if err != nil {
		return user.User{}, "", "", err
	}
	return u.issue(usr)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	newRefresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, newRefresh, nil
}

// SignOut invalidates nothing server-side (tokens are short-lived HMAC);
// it exists to emit the not-authenticated session event so subscribed
// session machines drop back to idle.
func (u *Auth) SignOut(_ context.Context, userID uuid.UUID) error {
	u.emit(SessionEvent{UserID: userID, Authenticated: false})
	return nil
}

// Events subscribes to session-status changes. The channel is buffered;
// a slow consumer loses events rather than blocking sign-in.
func (u *Auth) Events() <-chan SessionEvent {
	ch := make(chan SessionEvent, 16)
	u.mu.Lock()
	u.events = append(u.events, ch)
	u.mu.Unlock()
	return ch
}

func (u *Auth) issue(usr user.User) (user.User, string, string, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}

	u.emit(SessionEvent{UserID: usr.ID, Authenticated: true})
	return usr, access, refresh, nil
}

func (u *Auth) emit(ev SessionEvent) {
	u.mu.Lock()
	subs := make([]chan SessionEvent, len(u.events))
	copy(subs, u.events)
	u.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
