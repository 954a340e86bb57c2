package services

import (
	"context"

	"caoguia-api/internal/core/domain"
)

// IdentityResolver resolves a bearer token into a re-validated identity.
// The HTTP auth middleware depends on this rather than on IdentityService.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// Authenticator verifies credentials and issues tokens
type Authenticator interface {
	Login(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*LoginResult, error)
}

var (
	_ IdentityResolver = (*IdentityService)(nil)
	_ Authenticator    = (*AuthService)(nil)
)
