package dto

import (
	"labor-board/internal/domain/profile"
)

type ProfileResponse struct {
	ID           string   `json:"id"`
	Email        *string  `json:"email,omitempty"`
	FullName     string   `json:"full_name"`
	Role         string   `json:"role"`
	PhoneNumber  *string  `json:"phone_number,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	DailyRate    *float64 `json:"daily_rate,omitempty"`
	BusinessName *string  `json:"business_name,omitempty"`
}

func FromProfile(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           p.ID.String(),
		Email:        p.Email,
		FullName:     p.FullName,
		Role:         string(p.Role),
		PhoneNumber:  p.PhoneNumber,
		Skills:       p.Skills,
		DailyRate:    p.DailyRate,
		BusinessName: p.BusinessName,
	}
}

func fromProfilePtr(p *profile.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	r := FromProfile(*p)
	return &r
}
