package job

import (
	"fmt"

	"github.com/google/uuid"

	"labor-board/internal/domain/profile"
)

// VisibleJobs filters jobs down to the set the viewer may see. It never
// reorders: the store's creation-time ordering is preserved.
//
// Laborers see every open job plus any job they hold an application on,
// whatever that application's status. Clients and contractors see only
// their own postings; with no authenticated identity they see nothing.
func VisibleJobs(role profile.Role, viewerID *uuid.UUID, jobs []Job) ([]Job, error) {
	switch role {
	case profile.RoleLaborer:
		out := make([]Job, 0, len(jobs))
		for _, j := range jobs {
			if j.Status == StatusOpen {
				out = append(out, j)
				continue
			}
			if viewerID != nil && j.HasApplicationFrom(*viewerID) {
				out = append(out, j)
			}
		}
		return out, nil

	case profile.RoleClient, profile.RoleContractor:
		if viewerID == nil {
			return []Job{}, nil
		}
		out := make([]Job, 0, len(jobs))
		for _, j := range jobs {
			if j.ClientID == *viewerID {
				out = append(out, j)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}
