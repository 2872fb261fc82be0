// Package session tracks the authentication lifecycle for one user
// session: signed out, mid-flight, waiting on an OTP, authenticated but
// unregistered, or fully authenticated with a profile. It is the identity
// gate for every role-dependent operation — while the machine is not
// authenticated, the rest of the system sees no user at all.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"labor-board/internal/domain/profile"
)

type Status string

const (
	StatusIdle              Status = "idle"
	StatusLoading           Status = "loading"
	StatusOtpSent           Status = "otp_sent"
	StatusNeedsRegistration Status = "needs_registration"
	StatusAuthenticated     Status = "authenticated"
	StatusError             Status = "error"
)

// State is one emission of the machine. Profile is set only when
// authenticated; Err only on error.
type State struct {
	Status  Status
	Profile *profile.Profile
	Err     string
}

// Event mirrors the identity provider's session-status push stream.
type Event struct {
	UserID        uuid.UUID
	Authenticated bool
}

// Provider is the slice of the identity provider the machine drives.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) error
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) error
	SignOut(ctx context.Context) error
}

// ProfileSource resolves a profile for an identity; profile.Repository
// satisfies it.
type ProfileSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
}

// RegistrationInput completes a profile for a fresh identity.
type RegistrationInput struct {
	Email        *string
	FullName     string
	Role         profile.Role
	PhoneNumber  *string
	Skills       []string
	DailyRate    *float64
	BusinessName *string
}

type ProfileStore interface {
	ProfileSource
	Upsert(ctx context.Context, p profile.Profile) error
}

// Machine is the auth/session state machine. All methods are safe for
// concurrent use. Error is never terminal: the next command re-enters
// loading and proceeds.
type Machine struct {
	provider Provider
	profiles ProfileStore

	mu     sync.Mutex
	state  State
	userID *uuid.UUID
	// epoch increments on every session-source change; an in-flight
	// profile fetch that resolves under an older epoch is discarded so a
	// sign-out mid-request can never leak another identity's data.
	epoch uint64

	subs []chan State
}

func NewMachine(provider Provider, profiles ProfileStore) *Machine {
	return &Machine{
		provider: provider,
		profiles: profiles,
		state:    State{Status: StatusIdle},
	}
}

// Run consumes the provider's session-status stream until ctx ends or the
// stream closes.
func (m *Machine) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.HandleSessionEvent(ctx, ev)
		}
	}
}

// HandleSessionEvent re-derives the session state from a provider push:
// authenticated sessions load the profile, everything else lands on idle.
func (m *Machine) HandleSessionEvent(ctx context.Context, ev Event) {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch

	if !ev.Authenticated {
		m.userID = nil
		m.setStateLocked(State{Status: StatusIdle})
		m.mu.Unlock()
		return
	}

	id := ev.UserID
	m.userID = &id
	m.setStateLocked(State{Status: StatusLoading})
	m.mu.Unlock()

	m.loadProfile(ctx, id, epoch)
}

// CurrentUserID yields the session's identity only while authenticated;
// every other state reports no identity.
func (m *Machine) CurrentUserID(_ context.Context) (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Status != StatusAuthenticated || m.userID == nil {
		return uuid.Nil, false
	}
	return *m.userID, true
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel emitting every state change. Slow consumers
// miss states rather than blocking transitions.
func (m *Machine) Subscribe() <-chan State {
	ch := make(chan State, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Machine) SignIn(ctx context.Context, email, password string) {
	m.command(func() error { return m.provider.SignIn(ctx, email, password) }, nil)
}

func (m *Machine) SignUp(ctx context.Context, email, password string) {
	m.command(func() error { return m.provider.SignUp(ctx, email, password) }, nil)
}

func (m *Machine) SendOTP(ctx context.Context, phone string) {
	otpSent := State{Status: StatusOtpSent}
	m.command(func() error { return m.provider.SendOTP(ctx, phone) }, &otpSent)
}

func (m *Machine) VerifyOTP(ctx context.Context, phone, code string) {
	m.command(func() error { return m.provider.VerifyOTP(ctx, phone, code) }, nil)
}

// Register completes the profile for the session's identity and lands on
// authenticated.
func (m *Machine) Register(ctx context.Context, in RegistrationInput) {
	m.mu.Lock()
	if m.userID == nil {
		m.setStateLocked(State{Status: StatusError, Err: "no session"})
		m.mu.Unlock()
		return
	}
	id := *m.userID
	epoch := m.epoch
	m.setStateLocked(State{Status: StatusLoading})
	m.mu.Unlock()

	p := profile.Profile{
		ID:           id,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		PhoneNumber:  in.PhoneNumber,
		Skills:       in.Skills,
		DailyRate:    in.DailyRate,
		BusinessName: in.BusinessName,
	}
	if err := m.profiles.Upsert(ctx, p); err != nil {
		m.setStateIfCurrent(epoch, State{Status: StatusError, Err: err.Error()})
		return
	}
	m.setStateIfCurrent(epoch, State{Status: StatusAuthenticated, Profile: &p})
}

func (m *Machine) SignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.mu.Lock()
		m.setStateLocked(State{Status: StatusError, Err: err.Error()})
		m.mu.Unlock()
		return
	}
	// The provider's not-authenticated event completes the transition to
	// idle; nothing more to do here.
}

// command runs a provider call through loading. Success either lands on an
// explicit next state (OTP sent) or waits for the provider's session event
// to finish the transition.
func (m *Machine) command(call func() error, onSuccess *State) {
	m.mu.Lock()
	epoch := m.epoch
	m.setStateLocked(State{Status: StatusLoading})
	m.mu.Unlock()

	if err := call(); err != nil {
		m.setStateIfCurrent(epoch, State{Status: StatusError, Err: err.Error()})
		return
	}
	if onSuccess != nil {
		m.setStateIfCurrent(epoch, *onSuccess)
	}
}

// loadProfile resolves the post-authentication state: a missing profile or
// a blank full name means registration has not completed, while a store
// failure is an error — never an invitation to re-register.
func (m *Machine) loadProfile(ctx context.Context, id uuid.UUID, epoch uint64) {
	p, err := m.profiles.GetByID(ctx, id)
	switch {
	case err == nil && p.Registered():
		m.setStateIfCurrent(epoch, State{Status: StatusAuthenticated, Profile: &p})
	case err == nil || errors.Is(err, profile.ErrNotFound):
		m.setStateIfCurrent(epoch, State{Status: StatusNeedsRegistration})
	default:
		m.setStateIfCurrent(epoch, State{Status: StatusError, Err: err.Error()})
	}
}

func (m *Machine) setStateIfCurrent(epoch uint64, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		// A newer session event superseded this result; drop it.
		return
	}
	m.setStateLocked(s)
}

func (m *Machine) setStateLocked(s State) {
	m.state = s
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
