package identity

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func TestActor_FallsBackToSystem(t *testing.T) {
	assert.Equal(t, SystemActor, Actor(context.Background()))

	ctx := WithPrincipal(context.Background(), Principal{Username: "drhouse"})
	assert.Equal(t, "drhouse", Actor(ctx))
}

func TestFromToken_UsernameClaim(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"username": "nursejoy", "roles": []string{"NURSE"}})

	p, err := FromToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "nursejoy", p.Username)
	assert.Equal(t, []string{"NURSE"}, p.Roles)
}

func TestFromToken_SubjectFallback(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "admin"})

	p, err := FromToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Username)
}

func TestFromToken_RejectsBadSignature(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"username": "x"})

	_, err := FromToken(raw, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromToken_RejectsMissingIdentity(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"roles": []string{"ADMIN"}})

	_, err := FromToken(raw, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
