package handler

import (
	"labor-board/internal/delivery/http/dto"
	"labor-board/internal/pkg/response"
	"labor-board/internal/session"

	"github.com/gofiber/fiber/v3"
)

// SessionSource is the read side of the session machine.
type SessionSource interface {
	State() session.State
}

// SessionHandler exposes the machine's current state so presentation can
// render the auth lifecycle (idle, otp_sent, needs_registration, ...)
// without re-deriving it from token contents.
type SessionHandler struct {
	machine SessionSource
}

func NewSessionHandler(machine SessionSource) *SessionHandler {
	return &SessionHandler{machine: machine}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.State)
}

func (h *SessionHandler) State(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromSessionState(h.machine.State()))
}
