package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"labor-board/internal/delivery/http/dto"
	"labor-board/internal/domain/profile"
	"labor-board/internal/session"
)

type staticProfiles struct {
	byID map[uuid.UUID]profile.Profile
}

func (s *staticProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := s.byID[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (s *staticProfiles) Upsert(_ context.Context, p profile.Profile) error {
	s.byID[p.ID] = p
	return nil
}

type sessionEnvelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Data    dto.SessionResponse `json:"data"`
}

func newSessionApp(machine *session.Machine) *fiber.App {
	app := fiber.New()
	h := NewSessionHandler(machine)
	h.RegisterRoutes(app.Group("/api/v1/session"))
	return app
}

func getSession(t *testing.T, app *fiber.App) sessionEnvelope {
	t.Helper()

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request session state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env sessionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	return env
}

func TestSessionHandler_IdleByDefault(t *testing.T) {
	machine := session.NewMachine(nil, &staticProfiles{byID: map[uuid.UUID]profile.Profile{}})
	app := newSessionApp(machine)

	env := getSession(t, app)
	if env.Data.Status != string(session.StatusIdle) {
		t.Fatalf("session status = %q, want %q", env.Data.Status, session.StatusIdle)
	}
	if env.Data.Profile != nil {
		t.Fatalf("idle session carries profile %+v", env.Data.Profile)
	}
}

func TestSessionHandler_AuthenticatedExposesProfile(t *testing.T) {
	userID := uuid.New()
	profiles := &staticProfiles{byID: map[uuid.UUID]profile.Profile{
		userID: {ID: userID, FullName: "Sari Wulandari", Role: profile.RoleLaborer},
	}}
	machine := session.NewMachine(nil, profiles)
	machine.HandleSessionEvent(context.Background(), session.Event{UserID: userID, Authenticated: true})

	app := newSessionApp(machine)
	env := getSession(t, app)

	if env.Data.Status != string(session.StatusAuthenticated) {
		t.Fatalf("session status = %q, want %q", env.Data.Status, session.StatusAuthenticated)
	}
	if env.Data.Profile == nil {
		t.Fatal("authenticated session carries no profile")
	}
	if env.Data.Profile.FullName != "Sari Wulandari" {
		t.Fatalf("profile full_name = %q, want %q", env.Data.Profile.FullName, "Sari Wulandari")
	}
	if env.Data.Profile.Role != string(profile.RoleLaborer) {
		t.Fatalf("profile role = %q, want %q", env.Data.Profile.Role, profile.RoleLaborer)
	}
}
