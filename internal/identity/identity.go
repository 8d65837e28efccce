package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SystemActor is recorded on audit rows written outside any authenticated
// request (seed tooling, maintenance jobs, unauthenticated calls).
const SystemActor = "SYSTEM"

var ErrInvalidToken = errors.New("invalid bearer token")

// Principal is the authenticated caller as supplied by the auth layer.
// This service never enforces roles itself; it only carries them through so
// the audit recorder can attribute mutations.
type Principal struct {
	Username string
	Roles    []string
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// Actor returns the audit username for the current call.
func Actor(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok && p.Username != "" {
		return p.Username
	}
	return SystemActor
}

type claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// FromToken extracts a principal from an HS256 bearer token. The username is
// taken from the "username" claim, falling back to the subject.
func FromToken(tokenString string, secret []byte) (Principal, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	username := c.Username
	if username == "" {
		username = c.Subject
	}
	if username == "" {
		return Principal{}, fmt.Errorf("%w: missing username claim", ErrInvalidToken)
	}

	return Principal{Username: username, Roles: c.Roles}, nil
}
