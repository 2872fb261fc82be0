package routes

import (
	"labor-board/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the wired handlers and middleware the registry mounts.
type Deps struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Profiles *handler.ProfileHandler
	Jobs     *handler.JobHandler
	Session  *handler.SessionHandler

	RequireAuth  fiber.Handler
	OptionalAuth fiber.Handler
	BoardWS      fiber.Handler
}

type Registry struct {
	deps Deps
}

func NewRegistry(deps Deps) *Registry {
	if deps.Health == nil {
		deps.Health = handler.NewHealthHandler()
	}
	return &Registry{deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.deps.Health.RegisterRoutes(app)

	if r.deps.BoardWS != nil {
		app.Get("/ws/board", r.deps.BoardWS)
	}

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps)
}
