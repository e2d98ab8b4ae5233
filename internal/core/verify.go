package core

import "github.com/dkeye/focusopolis/internal/domain"

// TokenVerifier is the identity collaborator contract: an opaque
// credential in, a stable user id and display name out, or
// domain.ErrUnauthenticated.
type TokenVerifier interface {
	Verify(token string) (*domain.User, error)
}
