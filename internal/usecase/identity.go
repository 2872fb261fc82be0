package usecase

import (
	"context"

	"github.com/google/uuid"
)

// Identity resolves the acting user for a call. While a session is not
// authenticated it reports no identity, and every role-gated operation
// treats that as "no viewer".
type Identity interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}

type viewerKey struct{}

// WithViewer stamps the authenticated user id onto the request context.
// The HTTP auth middleware is the only writer.
func WithViewer(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, viewerKey{}, id)
}

// ContextIdentity reads the viewer stamped by WithViewer. It is the
// per-request counterpart of the session machine's resolver.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(viewerKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
