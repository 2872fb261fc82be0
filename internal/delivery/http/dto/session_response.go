package dto

import (
	"labor-board/internal/session"
)

type SessionResponse struct {
	Status  string           `json:"status"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func FromSessionState(s session.State) SessionResponse {
	return SessionResponse{
		Status:  string(s.Status),
		Profile: fromProfilePtr(s.Profile),
		Error:   s.Err,
	}
}
