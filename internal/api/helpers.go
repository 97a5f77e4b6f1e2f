package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/store"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	userID, err := s.verifier.Verify(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return userID, nil
}

// pagination builds store pagination parameters from query inputs.
func pagination(limit int, cursor string) store.PaginationParams {
	params := store.PaginationParams{Limit: limit, Cursor: cursor}
	params.Validate()
	return params
}
