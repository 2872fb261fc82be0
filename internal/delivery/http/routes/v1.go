package routes

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(r.Group("/auth"))
	}

	if deps.Session != nil {
		deps.Session.RegisterRoutes(r.Group("/session"))
	}

	if deps.Jobs != nil && deps.OptionalAuth != nil {
		// Listing is readable without a session; the policy decides what
		// an anonymous viewer sees.
		deps.Jobs.RegisterRoutes(r.Group("/jobs", deps.OptionalAuth))
	}

	if deps.RequireAuth == nil {
		return
	}
	protected := r.Group("", deps.RequireAuth)

	if deps.Auth != nil {
		deps.Auth.RegisterProtectedRoutes(protected.Group("/auth"))
	}
	if deps.Profiles != nil {
		deps.Profiles.RegisterRoutes(protected.Group("/profiles"))
	}
	if deps.Jobs != nil {
		deps.Jobs.RegisterProtectedRoutes(protected.Group("/jobs"))
		protected.Patch("/applications/:id", deps.Jobs.DecideApplication)
	}
}
