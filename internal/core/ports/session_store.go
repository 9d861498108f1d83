package ports

import (
	"context"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// SessionStore persists the authenticated user across restarts under a fixed
// key. It is the only client-side state that survives a reload; everything
// else is refetched from the remote store.
type SessionStore interface {
	SaveUser(ctx context.Context, user *domain.User) error
	// LoadUser returns (nil, nil) when no session is stored. A corrupt entry
	// yields an error; callers discard the entry and treat the session as
	// logged out.
	LoadUser(ctx context.Context) (*domain.User, error)
	ClearUser(ctx context.Context) error
}
