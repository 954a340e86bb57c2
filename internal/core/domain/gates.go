package domain

import "context"

// Gate admits or rejects an already resolved identity
type Gate func(identity *Identity) error

// AdminOnly admits administrators only
func AdminOnly() Gate {
	return func(identity *Identity) error {
		if identity == nil {
			return ErrUnauthenticated
		}
		if identity.Role != RoleAdmin {
			return ErrForbidden
		}
		return nil
	}
}

// SelfOrAdmin admits the owner of targetID or any administrator.
// Only user identities can own a user record.
func SelfOrAdmin(targetID uint) Gate {
	return func(identity *Identity) error {
		if identity == nil {
			return ErrUnauthenticated
		}
		if identity.Role == RoleAdmin {
			return nil
		}
		if identity.Role == RolePCD && identity.ID == targetID {
			return nil
		}
		return ErrForbidden
	}
}

// RoleIn admits identities whose role is in roles
func RoleIn(roles ...Role) Gate {
	return func(identity *Identity) error {
		if identity == nil {
			return ErrUnauthenticated
		}
		for _, r := range roles {
			if identity.Role == r {
				return nil
			}
		}
		return ErrForbidden
	}
}

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved identity to ctx
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity attached by the resolver
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}
