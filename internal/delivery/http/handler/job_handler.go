package handler

import (
	"errors"

	"labor-board/internal/delivery/http/dto"
	"labor-board/internal/delivery/http/middleware"
	"labor-board/internal/domain/job"
	"labor-board/internal/domain/profile"
	"labor-board/internal/pkg/response"
	"labor-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	board    usecase.BoardUsecase
	profiles usecase.ProfileUsecase
}

type postJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Budget      *float64 `json:"budget"`
}

type decideApplicationRequest struct {
	Status string `json:"status"`
}

func NewJobHandler(board usecase.BoardUsecase, profiles usecase.ProfileUsecase) *JobHandler {
	return &JobHandler{board: board, profiles: profiles}
}

// RegisterRoutes mounts the read side; listing works for anonymous
// callers too (an anonymous laborer view shows open jobs).
func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
}

func (h *JobHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/mine", h.Mine)
	r.Post("/", h.Post)
	r.Patch("/:id/status", h.ToggleStatus)
	r.Post("/:id/applications", h.Apply)
}

// List returns the board as seen by the caller. The viewing role comes
// from the caller's profile; anonymous callers browse as laborers, and a
// role query parameter covers the unauthenticated owner-role case, which
// is by policy an empty board.
func (h *JobHandler) List(c fiber.Ctx) error {
	role := h.viewRole(c)

	jobs, err := h.board.ListJobs(c.Context(), role)
	if err != nil {
		return mapBoardError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromJobs(jobs))
}

func (h *JobHandler) Mine(c fiber.Ctx) error {
	jobs, err := h.board.MyJobs(c.Context())
	if err != nil {
		return mapBoardError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromJobs(jobs))
}

func (h *JobHandler) Post(c fiber.Ctx) error {
	var req postJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, snapshot, err := h.board.PostJob(c.Context(), usecase.PostJobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Budget:      req.Budget,
	})
	if err != nil {
		return mapBoardError(err)
	}

	data := map[string]any{
		"job":  dto.FromJob(created),
		"jobs": dto.FromJobs(snapshot),
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, data)
}

func (h *JobHandler) ToggleStatus(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	snapshot, err := h.board.ToggleJobStatus(c.Context(), jobID)
	if err != nil {
		return mapBoardError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromJobs(snapshot))
}

func (h *JobHandler) Apply(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	snapshot, err := h.board.Apply(c.Context(), jobID)
	if err != nil {
		return mapBoardError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.FromJobs(snapshot))
}

func (h *JobHandler) DecideApplication(c fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req decideApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	decision := job.ApplicationStatus(req.Status)
	snapshot, err := h.board.DecideApplication(c.Context(), appID, decision)
	if err != nil {
		return mapBoardError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromJobs(snapshot))
}

// viewRole resolves the role the caller browses as: registered profile
// first, then an explicit role parameter, defaulting to the laborer view.
func (h *JobHandler) viewRole(c fiber.Ctx) profile.Role {
	if p, err := h.profiles.GetMe(c.Context()); err == nil {
		return p.Role
	}
	if q := profile.Role(c.Query("role")); q.Valid() {
		return q
	}
	return profile.RoleLaborer
}

func mapBoardError(err error) error {
	switch {
	case errors.Is(err, job.ErrValidation):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, job.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, job.ErrDuplicateApplication):
		return middleware.NewAppError(fiber.StatusConflict, "Already applied", nil, err)
	case errors.Is(err, job.ErrJobNotOpen):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Job is not open", nil, err)
	case errors.Is(err, job.ErrNotPending):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Application already decided", nil, err)
	case errors.Is(err, job.ErrNotFound), errors.Is(err, job.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, job.ErrUnknownRole):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown role", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
