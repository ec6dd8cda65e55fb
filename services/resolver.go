package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ddanshin/storozh/core"
)

// Resolve verifies a raw bearer token and loads the principal behind it.
// The directory row is the source of truth for role and permissions; token
// claims are only used to find it. Any verification failure or unknown
// subject surfaces as an unauthenticated sentinel, never a panic.
func (s *Auth) Resolve(ctx context.Context, token string) (*core.Principal, error) {
	if token == "" {
		return nil, core.ErrUnauthenticated
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	account, err := s.directory.FindByEmail(ctx, core.NormalizeEmail(claims.Subject))
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.IsActive {
		return nil, core.ErrUnauthenticated
	}

	principal := account.AsPrincipal()
	return &principal, nil
}

// Status is the read-only authentication probe. It never fails: every error,
// whatever its cause, collapses to "not authenticated".
func (s *Auth) Status(ctx context.Context, token string) *core.StatusResult {
	principal, err := s.Resolve(ctx, token)
	if err != nil {
		return &core.StatusResult{Authenticated: false}
	}
	return &core.StatusResult{
		Authenticated: true,
		User: &core.StatusUser{
			Username: principal.Username,
			Role:     principal.Role,
		},
	}
}
