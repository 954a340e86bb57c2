package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/jwt"
	"caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
	}

	for _, tc := range cases {
		token, err := ExtractBearer(tc.header)
		if tc.ok {
			if err != nil || token != tc.token {
				t.Fatalf("ExtractBearer(%q) = %q, %v", tc.header, token, err)
			}
			continue
		}
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("ExtractBearer(%q): expected ErrUnauthenticated, got %v", tc.header, err)
		}
	}
}

func TestResolveMissingToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.identity.Resolve(context.Background(), "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveExpiredAndInvalidStayDistinct(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	past := testCodec().WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := past.Encode(jwt.Claims{ID: 1, Name: "Ana", Role: "PCD"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = f.identity.Resolve(ctx, expired)
	if !errors.Is(err, domain.ErrUnauthenticated) || !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected unauthenticated+expired, got %v", err)
	}
	if errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expired token reported as invalid")
	}

	_, err = f.identity.Resolve(ctx, "not-a-token")
	if !errors.Is(err, domain.ErrUnauthenticated) || !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected unauthenticated+invalid, got %v", err)
	}
	if errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("garbage token reported as expired")
	}

	if got := testutil.ToFloat64(f.metrics.Resolve.WithLabelValues(metrics.OutcomeExpired)); got != 1 {
		t.Fatalf("expected one expired resolution, got %v", got)
	}
}

func TestResolveForeignSecretIsInvalid(t *testing.T) {
	f := newAuthFixture(t)

	foreign := jwt.NewCodec("someone-else", time.Hour)
	token, _, err := foreign.Encode(jwt.Claims{ID: 2, Name: "Root", IsAdmin: true, Role: "ADMIN"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := f.identity.Resolve(context.Background(), token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestResolveUnknownRoleIsInvalid(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := testCodec().Encode(jwt.Claims{ID: 1, Name: "Ana", Role: "SUPERUSER"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = f.identity.Resolve(context.Background(), token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if !domain.IsNotAuthenticated(err) {
		t.Fatalf("unknown role must be in the not-authenticated class")
	}
}

func TestResolveDeactivatedUserAfterIssuance(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.auth.LoginUser(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.identity.Resolve(ctx, res.Token); err != nil {
		t.Fatalf("resolve before deactivation: %v", err)
	}

	f.users.set(1, func(u *models.User) { u.Ativo = false })

	_, err = f.identity.Resolve(ctx, res.Token)
	if !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if !domain.IsNotAuthenticated(err) {
		t.Fatalf("principal not found must be in the not-authenticated class")
	}
}

func TestResolveDeactivatedInstitutionAfterIssuance(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.auth.LoginInstitution(ctx, "ok@inst.org", "instpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.institutions.set(1, func(i *models.Institution) { i.Ativo = false })

	if _, err := f.identity.Resolve(ctx, res.Token); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestResolveIgnoresApprovalChangesForLiveInstitutionToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.auth.LoginInstitution(ctx, "ok@inst.org", "instpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.institutions.set(1, func(i *models.Institution) { i.StatusValidacao = "rejeitado" })

	identity, err := f.identity.Resolve(ctx, res.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.Role != domain.RoleInstitution || identity.IsAdmin {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestResolveUsesFreshRow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.auth.LoginUser(ctx, "root@example.com", "secret2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.users.set(2, func(u *models.User) {
		u.Nome = "Root Renamed"
		u.Administrador = false
	})

	identity, err := f.identity.Resolve(ctx, res.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.Name != "Root Renamed" {
		t.Fatalf("expected fresh name, got %q", identity.Name)
	}
	if identity.IsAdmin || identity.Role != domain.RolePCD {
		t.Fatalf("expected demoted identity, got %+v", identity)
	}
}

func TestResolveInstitutionIDDoesNotHitUsers(t *testing.T) {
	// Institution 1 exists while user 1 does not; the role claim alone picks the table.
	users := newFakeUserRepo()
	institutions := newFakeInstitutionRepo(
		&models.Institution{ID: 1, RazaoSocial: "Instituto Guia", Ativo: true, StatusValidacao: "aprovado"},
	)
	codec := testCodec()
	svc := NewIdentityService(users, institutions, codec, logger.Discard(), nil)

	token, _, err := codec.Encode(jwt.Claims{ID: 1, Name: "Instituto Guia", Role: "INSTITUICAO"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	identity, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.Role != domain.RoleInstitution {
		t.Fatalf("unexpected identity %+v", identity)
	}

	userToken, _, err := codec.Encode(jwt.Claims{ID: 1, Name: "Ana", Role: "PCD"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), userToken); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestResolveSurfacesStoreErrors(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.auth.LoginUser(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	f.users.err = errStoreDown

	_, err = f.identity.Resolve(ctx, res.Token)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if domain.IsNotAuthenticated(err) {
		t.Fatalf("store errors must not be reported as authentication failures")
	}
}

func TestResolvePromotionNeedsNewLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	before, err := f.auth.LoginUser(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.users.set(1, func(u *models.User) { u.Administrador = true })

	identity, err := f.identity.Resolve(ctx, before.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.IsAdmin || identity.Role != domain.RolePCD {
		t.Fatalf("expected PCD until next login, got %+v", identity)
	}

	after, err := f.auth.LoginUser(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	identity, err = f.identity.Resolve(ctx, after.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !identity.IsAdmin || identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin after new login, got %+v", identity)
	}
}
