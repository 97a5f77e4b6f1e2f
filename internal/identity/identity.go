// Package identity defines the boundary to the external identity
// provider. The server never issues or validates credentials itself; it
// only maps bearer tokens to user IDs through an injected Verifier.
package identity

import (
	"context"
	"strings"

	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Verifier resolves a bearer token to a user ID.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token string) (string, error)

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// DevVerifier treats the bearer token itself as the user ID. Intended
// for development and tests only.
type DevVerifier struct{}

// Verify implements Verifier.
func (DevVerifier) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.Unauthorized("missing bearer token")
	}
	return token, nil
}
