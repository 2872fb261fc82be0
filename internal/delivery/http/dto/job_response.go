package dto

import (
	"time"

	"labor-board/internal/domain/job"
)

type JobResponse struct {
	ID           string                `json:"id"`
	ClientID     string                `json:"client_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	Location     string                `json:"location"`
	Budget       *float64              `json:"budget,omitempty"`
	Status       string                `json:"status"`
	CreatedAt    string                `json:"created_at"`
	Poster       *ProfileResponse      `json:"poster,omitempty"`
	Applications []ApplicationResponse `json:"applications"`
}

type ApplicationResponse struct {
	ID          string           `json:"id"`
	JobID       string           `json:"job_id"`
	ApplicantID string           `json:"applicant_id"`
	Status      string           `json:"status"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Applicant   *ProfileResponse `json:"applicant,omitempty"`
}

func FromJob(j job.Job) JobResponse {
	apps := make([]ApplicationResponse, 0, len(j.Applications))
	for _, a := range j.Applications {
		apps = append(apps, FromApplication(a))
	}
	return JobResponse{
		ID:           j.ID.String(),
		ClientID:     j.ClientID.String(),
		Title:        j.Title,
		Description:  j.Description,
		Category:     j.Category,
		Location:     j.Location,
		Budget:       j.Budget,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt.UTC().Format(time.RFC3339),
		Poster:       fromProfilePtr(j.Poster),
		Applications: apps,
	}
}

func FromJobs(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, FromJob(j))
	}
	return out
}

func FromApplication(a job.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID.String(),
		JobID:       a.JobID.String(),
		ApplicantID: a.ApplicantID.String(),
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
		Applicant:   fromProfilePtr(a.Applicant),
	}
}
