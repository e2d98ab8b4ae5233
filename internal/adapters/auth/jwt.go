// Package auth verifies the bearer tokens issued by the account service.
// Credentials themselves are never handled here.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkeye/focusopolis/internal/domain"
)

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses an HMAC-signed token and returns the identity it carries.
// Claim names ("id", "username") match what the account service signs.
func (v *Verifier) Verify(tokenStr string) (*domain.User, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", domain.ErrUnauthenticated)
	}
	id, ok1 := claims["id"].(string)
	username, ok2 := claims["username"].(string)
	if !ok1 || !ok2 || id == "" {
		return nil, fmt.Errorf("%w: bad claims", domain.ErrUnauthenticated)
	}

	return &domain.User{ID: domain.UserID(id), Username: username}, nil
}
