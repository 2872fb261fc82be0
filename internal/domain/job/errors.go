package job

import "errors"

var (
	ErrValidation           = errors.New("invalid job input")
	ErrForbidden            = errors.New("actor does not own this job")
	ErrJobNotOpen           = errors.New("job is not open")
	ErrNotPending           = errors.New("application is not pending")
	ErrDuplicateApplication = errors.New("applicant already applied to this job")
	ErrNotFound             = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrStorage              = errors.New("storage failure")
	ErrUnknownRole          = errors.New("unknown role")
)
