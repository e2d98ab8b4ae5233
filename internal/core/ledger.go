package core

import (
	"context"
	"time"

	"github.com/dkeye/focusopolis/internal/domain"
)

// SessionLedger is a read-only view over the user-account collaborator's
// focus history and city. This subsystem never writes through it.
type SessionLedger interface {
	// SessionsSince returns the user's focus sessions with
	// timestamp >= since.
	SessionsSince(ctx context.Context, user domain.UserID, since time.Time) ([]domain.FocusSession, error)

	// Profile returns the user's display name, lifetime focus minutes
	// and building count.
	Profile(ctx context.Context, user domain.UserID) (domain.MemberProfile, error)
}
