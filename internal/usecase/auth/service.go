package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"labor-board/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidOTP             = errors.New("invalid or expired otp")
	ErrOTPUnavailable         = errors.New("otp sign-in unavailable")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// OTPStore holds one short-lived code per phone number; TakeCode must
// delete on read so a code verifies at most once.
type OTPStore interface {
	SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error
	TakeCode(ctx context.Context, phone string) (string, error)
}

// SMSSender delivers an OTP code to a phone. The default logs the code,
// which is what local and CI environments want.
type SMSSender func(phone, code string) error

// Service is the credential half of the identity provider: email/password
// accounts plus phone OTP sign-in. Token issuance sits one layer up.
type Service struct {
	users  user.Repository
	otp    OTPStore
	otpTTL time.Duration
	sms    SMSSender
	logger *log.Logger
}

func NewService(users user.Repository, otp OTPStore, otpTTL time.Duration, logger *log.Logger) *Service {
	s := &Service{users: users, otp: otp, otpTTL: otpTTL, logger: logger}
	s.sms = func(phone, code string) error {
		if s.logger != nil {
			s.logger.Printf("[Auth] OTP issued | phone=%s code=%s", phone, code)
		}
		return nil
	}
	return s
}

// WithSMSSender swaps in a real delivery channel.
func (s *Service) WithSMSSender(send SMSSender) *Service {
	if send != nil {
		s.sms = send
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        &email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, u); err != nil {
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if u.PasswordHash == "" {
		// Phone-only account; no password to check against.
		return user.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func (s *Service) SendOTP(ctx context.Context, phone string) error {
	phone = normalizePhone(phone)
	if phone == "" {
		return ErrInvalidInput
	}

	code, err := generateCode()
	if err != nil {
		return ErrInternal
	}
	if err := s.otp.SaveCode(ctx, phone, code, s.otpTTL); err != nil {
		return ErrOTPUnavailable
	}
	if err := s.sms(phone, code); err != nil {
		return ErrInternal
	}
	return nil
}

// VerifyOTP checks the code and signs the phone in, creating the account on
// first use: OTP sign-in doubles as sign-up.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (user.User, error) {
	phone = normalizePhone(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return user.User{}, ErrInvalidInput
	}

	stored, err := s.otp.TakeCode(ctx, phone)
	if err != nil {
		return user.User{}, ErrOTPUnavailable
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return user.User{}, ErrInvalidOTP
	}

	u, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return sanitizeUser(u), nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInternal
	}

	u = user.User{
		ID:    uuid.New(),
		Phone: &phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, ErrInternal
	}
	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	if phone == "" || len(phone) < 7 {
		return ""
	}
	return phone
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
