package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"labor-board/internal/domain/profile"
)

type fakeProvider struct {
	signInErr  error
	sendOTPErr error
	verifyErr  error
	signOutErr error

	signedOut bool
}

func (f *fakeProvider) SignUp(context.Context, string, string) error  { return nil }
func (f *fakeProvider) SignIn(context.Context, string, string) error  { return f.signInErr }
func (f *fakeProvider) SendOTP(context.Context, string) error         { return f.sendOTPErr }
func (f *fakeProvider) VerifyOTP(context.Context, string, string) error {
	return f.verifyErr
}
func (f *fakeProvider) SignOut(context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = true
	return nil
}

type fakeProfiles struct {
	byID   map[uuid.UUID]profile.Profile
	getErr error
	upErr  error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[uuid.UUID]profile.Profile{}}
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	if f.getErr != nil {
		return profile.Profile{}, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p profile.Profile) error {
	if f.upErr != nil {
		return f.upErr
	}
	f.byID[p.ID] = p
	return nil
}

func TestMachine_StartsIdle(t *testing.T) {
	m := NewMachine(&fakeProvider{}, newFakeProfiles())
	if got := m.State().Status; got != StatusIdle {
		t.Fatalf("expected idle, got %s", got)
	}
	if _, ok := m.CurrentUserID(context.Background()); ok {
		t.Fatalf("idle machine should expose no identity")
	}
}

func TestMachine_AuthenticatedEventLoadsProfile(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, FullName: "Ada", Role: profile.RoleLaborer}

	m := NewMachine(&fakeProvider{}, profiles)
	m.HandleSessionEvent(context.Background(), Event{UserID: id, Authenticated: true})

	s := m.State()
	if s.Status != StatusAuthenticated {
		t.Fatalf("expected authenticated, got %s", s.Status)
	}
	if s.Profile == nil || s.Profile.ID != id {
		t.Fatalf("profile not attached to state")
	}
	got, ok := m.CurrentUserID(context.Background())
	if !ok || got != id {
		t.Fatalf("identity not exposed while authenticated")
	}
}

func TestMachine_MissingProfileNeedsRegistration(t *testing.T) {
	m := NewMachine(&fakeProvider{}, newFakeProfiles())
	id := uuid.New()
	m.HandleSessionEvent(context.Background(), Event{UserID: id, Authenticated: true})

	if got := m.State().Status; got != StatusNeedsRegistration {
		t.Fatalf("expected needs_registration, got %s", got)
	}
	// Not authenticated yet, so no identity.
	if _, ok := m.CurrentUserID(context.Background()); ok {
		t.Fatalf("needs_registration must not expose an identity")
	}
}

func TestMachine_ProfileStoreFailureLandsError(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.getErr = errors.New("connection refused")

	m := NewMachine(&fakeProvider{}, profiles)
	m.HandleSessionEvent(context.Background(), Event{UserID: uuid.New(), Authenticated: true})

	s := m.State()
	if s.Status != StatusError {
		t.Fatalf("store outage must not look like a missing profile, got %s", s.Status)
	}
	if s.Err != "connection refused" {
		t.Fatalf("error message not carried: %q", s.Err)
	}
}

func TestMachine_BlankFullNameNeedsRegistration(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, Role: profile.RoleClient}

	m := NewMachine(&fakeProvider{}, profiles)
	m.HandleSessionEvent(context.Background(), Event{UserID: id, Authenticated: true})

	if got := m.State().Status; got != StatusNeedsRegistration {
		t.Fatalf("expected needs_registration, got %s", got)
	}
}

func TestMachine_SignOutEventLandsIdle(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, FullName: "Ada", Role: profile.RoleLaborer}

	m := NewMachine(&fakeProvider{}, profiles)
	ctx := context.Background()
	m.HandleSessionEvent(ctx, Event{UserID: id, Authenticated: true})
	m.HandleSessionEvent(ctx, Event{Authenticated: false})

	if got := m.State().Status; got != StatusIdle {
		t.Fatalf("expected idle, got %s", got)
	}
	if _, ok := m.CurrentUserID(ctx); ok {
		t.Fatalf("signed-out machine should expose no identity")
	}
}

func TestMachine_SendOTPLandsOtpSent(t *testing.T) {
	m := NewMachine(&fakeProvider{}, newFakeProfiles())
	m.SendOTP(context.Background(), "+4712345678")
	if got := m.State().Status; got != StatusOtpSent {
		t.Fatalf("expected otp_sent, got %s", got)
	}
}

func TestMachine_CommandFailureLandsError(t *testing.T) {
	m := NewMachine(&fakeProvider{signInErr: errors.New("bad credentials")}, newFakeProfiles())
	m.SignIn(context.Background(), "a@example.com", "pw")

	s := m.State()
	if s.Status != StatusError {
		t.Fatalf("expected error, got %s", s.Status)
	}
	if s.Err != "bad credentials" {
		t.Fatalf("error message not carried: %q", s.Err)
	}
}

func TestMachine_ErrorIsNotTerminal(t *testing.T) {
	p := &fakeProvider{sendOTPErr: errors.New("sms down")}
	m := NewMachine(p, newFakeProfiles())

	m.SendOTP(context.Background(), "+4712345678")
	if m.State().Status != StatusError {
		t.Fatalf("expected error state first")
	}

	p.sendOTPErr = nil
	m.SendOTP(context.Background(), "+4712345678")
	if got := m.State().Status; got != StatusOtpSent {
		t.Fatalf("machine stuck after error, got %s", got)
	}
}

func TestMachine_RegisterCompletesProfile(t *testing.T) {
	profiles := newFakeProfiles()
	m := NewMachine(&fakeProvider{}, profiles)
	id := uuid.New()
	m.HandleSessionEvent(context.Background(), Event{UserID: id, Authenticated: true})

	m.Register(context.Background(), RegistrationInput{
		FullName: "Ada Lovelace",
		Role:     profile.RoleContractor,
	})

	s := m.State()
	if s.Status != StatusAuthenticated {
		t.Fatalf("expected authenticated after registration, got %s", s.Status)
	}
	stored := profiles.byID[id]
	if stored.FullName != "Ada Lovelace" || stored.Role != profile.RoleContractor {
		t.Fatalf("profile not persisted: %+v", stored)
	}
	got, ok := m.CurrentUserID(context.Background())
	if !ok || got != id {
		t.Fatalf("identity not exposed after registration")
	}
}

func TestMachine_RegisterWithoutSessionErrors(t *testing.T) {
	m := NewMachine(&fakeProvider{}, newFakeProfiles())
	m.Register(context.Background(), RegistrationInput{FullName: "Ada", Role: profile.RoleLaborer})
	if got := m.State().Status; got != StatusError {
		t.Fatalf("expected error, got %s", got)
	}
}

func TestMachine_StaleProfileResultDropped(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, FullName: "Ada", Role: profile.RoleLaborer}

	m := NewMachine(&fakeProvider{}, profiles)
	ctx := context.Background()

	// Capture the epoch of the first sign-in, then supersede it with a
	// sign-out before its profile result lands.
	m.mu.Lock()
	m.epoch++
	stale := m.epoch
	m.userID = &id
	m.setStateLocked(State{Status: StatusLoading})
	m.mu.Unlock()

	m.HandleSessionEvent(ctx, Event{Authenticated: false})

	m.loadProfile(ctx, id, stale)

	if got := m.State().Status; got != StatusIdle {
		t.Fatalf("stale profile result overwrote the signed-out state: %s", got)
	}
	if _, ok := m.CurrentUserID(ctx); ok {
		t.Fatalf("stale result leaked an identity")
	}
}

func TestMachine_SubscribeSeesTransitions(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, FullName: "Ada", Role: profile.RoleLaborer}

	m := NewMachine(&fakeProvider{}, profiles)
	sub := m.Subscribe()

	m.HandleSessionEvent(context.Background(), Event{UserID: id, Authenticated: true})

	seen := []Status{}
	for len(sub) > 0 {
		seen = append(seen, (<-sub).Status)
	}
	if len(seen) != 2 || seen[0] != StatusLoading || seen[1] != StatusAuthenticated {
		t.Fatalf("unexpected transition sequence: %v", seen)
	}
}

func TestMachine_RunConsumesStream(t *testing.T) {
	profiles := newFakeProfiles()
	id := uuid.New()
	profiles.byID[id] = profile.Profile{ID: id, FullName: "Ada", Role: profile.RoleLaborer}

	m := NewMachine(&fakeProvider{}, profiles)
	events := make(chan Event, 2)
	events <- Event{UserID: id, Authenticated: true}
	events <- Event{Authenticated: false}
	close(events)

	m.Run(context.Background(), events)

	if got := m.State().Status; got != StatusIdle {
		t.Fatalf("expected idle after stream drained, got %s", got)
	}
}
