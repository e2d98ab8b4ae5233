package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/focusopolis/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier(testSecret)
	tok := signToken(t, testSecret, jwt.MapClaims{"id": "u-1", "username": "alice"})

	user, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u-1"), user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestVerifyRejections(t *testing.T) {
	v := NewVerifier(testSecret)

	cases := map[string]string{
		"empty token":  "",
		"garbage":      "not-a-jwt",
		"wrong secret": signToken(t, "other-secret", jwt.MapClaims{"id": "u-1", "username": "alice"}),
		"missing id":   signToken(t, testSecret, jwt.MapClaims{"username": "alice"}),
		"empty id":     signToken(t, testSecret, jwt.MapClaims{"id": "", "username": "alice"}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(tok)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	v := NewVerifier(testSecret)
	// alg=none tokens must never pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u-1", "username": "alice"})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(s)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
