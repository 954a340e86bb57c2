package domain

import (
	"context"
	"errors"
	"testing"
)

func TestAdminOnly(t *testing.T) {
	gate := AdminOnly()

	if err := gate(&Identity{ID: 1, Role: RoleAdmin, IsAdmin: true}); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	for _, id := range []*Identity{
		{ID: 2, Role: RolePCD},
		{ID: 3, Role: RoleInstitution},
	} {
		if err := gate(id); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %+v, got %v", id, err)
		}
	}
	if err := gate(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil identity, got %v", err)
	}
}

func TestSelfOrAdmin(t *testing.T) {
	gate := SelfOrAdmin(5)

	if err := gate(&Identity{ID: 5, Role: RolePCD}); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := gate(&Identity{ID: 42, Role: RoleAdmin, IsAdmin: true}); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := gate(&Identity{ID: 6, Role: RolePCD}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// institution ids live in a different table
	if err := gate(&Identity{ID: 5, Role: RoleInstitution}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for institution with colliding id, got %v", err)
	}
}

func TestRoleIn(t *testing.T) {
	gate := RoleIn(RolePCD, RoleInstitution)

	for _, role := range []Role{RolePCD, RoleInstitution} {
		if err := gate(&Identity{ID: 1, Role: role}); err != nil {
			t.Fatalf("role %s rejected: %v", role, err)
		}
	}
	if err := gate(&Identity{ID: 1, Role: RoleAdmin}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
}

func TestIdentityFromPrincipal(t *testing.T) {
	inst := IdentityFromPrincipal(Principal{Institution: &Institution{ID: 9, LegalName: "Instituto Luz"}}, RoleInstitution)
	if inst.Role != RoleInstitution || inst.IsAdmin || inst.Name != "Instituto Luz" {
		t.Fatalf("unexpected institution identity %+v", inst)
	}

	admin := IdentityFromPrincipal(Principal{User: &User{ID: 1, Name: "Root", IsAdmin: true}}, RoleAdmin)
	if admin.Role != RoleAdmin || !admin.IsAdmin {
		t.Fatalf("unexpected admin identity %+v", admin)
	}
}

func TestIdentityAdminNeedsClaimAndFlag(t *testing.T) {
	cases := []struct {
		name    string
		flag    bool
		claimed Role
		want    Role
	}{
		{"admin token, admin row", true, RoleAdmin, RoleAdmin},
		{"admin token, demoted row", false, RoleAdmin, RolePCD},
		{"pcd token, promoted row", true, RolePCD, RolePCD},
		{"pcd token, pcd row", false, RolePCD, RolePCD},
	}

	for _, tc := range cases {
		p := Principal{User: &User{ID: 5, Name: "Bia", IsAdmin: tc.flag}}
		got := IdentityFromPrincipal(p, tc.claimed)
		if got.Role != tc.want || got.IsAdmin != (tc.want == RoleAdmin) {
			t.Fatalf("%s: got %+v", tc.name, got)
		}
	}

	if r := (Principal{User: &User{IsAdmin: true}}).Role(); r != RoleAdmin {
		t.Fatalf("expected login-time role ADMIN, got %q", r)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatalf("expected no identity on empty context")
	}
	ctx := ContextWithIdentity(context.Background(), &Identity{ID: 3, Role: RolePCD})
	id, ok := IdentityFromContext(ctx)
	if !ok || id.ID != 3 {
		t.Fatalf("identity not round-tripped: %+v %v", id, ok)
	}
}

func TestErrorClasses(t *testing.T) {
	for _, err := range []error{ErrInvalidCredentials, ErrUnauthenticated, ErrTokenExpired, ErrPrincipalNotFound} {
		if !IsNotAuthenticated(err) || IsNotAuthorized(err) {
			t.Fatalf("%v misclassified", err)
		}
	}
	for _, err := range []error{ErrForbidden, ErrRegistrationPending, ErrRegistrationRejected} {
		if !IsNotAuthorized(err) || IsNotAuthenticated(err) {
			t.Fatalf("%v misclassified", err)
		}
	}
}
