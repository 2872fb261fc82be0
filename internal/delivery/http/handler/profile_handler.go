package handler

import (
	"errors"

	"labor-board/internal/delivery/http/dto"
	"labor-board/internal/delivery/http/middleware"
	"labor-board/internal/domain/profile"
	"labor-board/internal/pkg/response"
	"labor-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type registerProfileRequest struct {
	Email        *string  `json:"email"`
	FullName     string   `json:"full_name"`
	Role         string   `json:"role"`
	PhoneNumber  *string  `json:"phone_number"`
	Skills       []string `json:"skills"`
	DailyRate    *float64 `json:"daily_rate"`
	BusinessName *string  `json:"business_name"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.Register)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	p, err := h.uc.GetMe(c.Context())
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromProfile(p))
}

func (h *ProfileHandler) Register(c fiber.Ctx) error {
	var req registerProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.Register(c.Context(), usecase.RegisterProfileInput{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         profile.Role(req.Role),
		PhoneNumber:  req.PhoneNumber,
		Skills:       req.Skills,
		DailyRate:    req.DailyRate,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromProfile(p))
}

func mapProfileUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound), errors.Is(err, usecase.ErrNeedsRegistration):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidProfile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
