package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// stubResolver maps raw tokens to identities or errors
type stubResolver struct {
	identities map[string]*domain.Identity
	errs       map[string]error
	calls      int
}

func (r *stubResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	r.calls++
	if err, ok := r.errs[token]; ok {
		return nil, err
	}
	if id, ok := r.identities[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenInvalid)
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		identities: map[string]*domain.Identity{
			"pcd":   {ID: 7, Name: "Ana", Role: domain.RolePCD},
			"admin": {ID: 1, Name: "Root", IsAdmin: true, Role: domain.RoleAdmin},
			"inst":  {ID: 7, Name: "Instituto", Role: domain.RoleInstitution},
		},
		errs: map[string]error{
			"expired": fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenExpired),
			"gone":    domain.ErrPrincipalNotFound,
		},
	}
}

func newTestApp(resolver *stubResolver, m *metrics.Auth) *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		fromCtx, _ := domain.IdentityFromContext(c.UserContext())
		if identity == nil || fromCtx != identity {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(identity)
	}

	api := app.Group("/api", AuthMiddleware(resolver))
	api.Get("/me", ok)
	api.Get("/admin", AdminOnly(m), ok)
	api.Put("/users/:id", SelfOrAdmin("id", m), ok)
	api.Post("/dogs", RoleIn(m, domain.RolePCD, domain.RoleInstitution), ok)

	// Gate mounted without AuthMiddleware
	app.Get("/unguarded", AdminOnly(m), ok)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(body, &out)
	return resp, out
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	app := newTestApp(newStubResolver(), nil)

	resp, body := do(t, app, http.MethodGet, "/api/me", "pcd")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["role"] != "PCD" || body["name"] != "Ana" {
		t.Fatalf("unexpected identity %v", body)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	resolver := newStubResolver()
	app := newTestApp(resolver, nil)

	cases := []struct {
		name    string
		token   string
		message string
	}{
		{"missing header", "", "Access token required"},
		{"expired", "expired", "Access token expired"},
		{"garbage", "garbage", "Invalid access token"},
		{"deactivated", "gone", "Account not found or inactive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodGet, "/api/me", tc.token)
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
			if body["error"] != tc.message || body["success"] != false {
				t.Fatalf("unexpected body %v", body)
			}
			if resp.Header.Get("WWW-Authenticate") == "" {
				t.Fatalf("expected WWW-Authenticate header")
			}
		})
	}
}

func TestAuthMiddlewareRejectsNonBearerScheme(t *testing.T) {
	resolver := newStubResolver()
	app := newTestApp(resolver, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Basic cGNkOnBjZA==")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not run without a bearer token")
	}
}

func TestAdminOnlyGate(t *testing.T) {
	m := metrics.NewAuth(nil)
	app := newTestApp(newStubResolver(), m)

	if resp, _ := do(t, app, http.MethodGet, "/api/admin", "admin"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
	for _, token := range []string{"pcd", "inst"} {
		if resp, _ := do(t, app, http.MethodGet, "/api/admin", token); resp.StatusCode != fiber.StatusForbidden {
			t.Fatalf("expected 403 for %s, got %d", token, resp.StatusCode)
		}
	}
	if got := testutil.ToFloat64(m.Denied.WithLabelValues("admin_only")); got != 2 {
		t.Fatalf("expected 2 denials, got %v", got)
	}
}

func TestSelfOrAdminGate(t *testing.T) {
	app := newTestApp(newStubResolver(), nil)

	cases := []struct {
		path  string
		token string
		code  int
	}{
		{"/api/users/7", "pcd", fiber.StatusOK},
		{"/api/users/8", "pcd", fiber.StatusForbidden},
		{"/api/users/8", "admin", fiber.StatusOK},
		// Institution 7 is not user 7
		{"/api/users/7", "inst", fiber.StatusForbidden},
		{"/api/users/abc", "pcd", fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		resp, _ := do(t, app, http.MethodPut, tc.path, tc.token)
		if resp.StatusCode != tc.code {
			t.Fatalf("PUT %s as %s: expected %d, got %d", tc.path, tc.token, tc.code, resp.StatusCode)
		}
	}
}

func TestRoleInGate(t *testing.T) {
	app := newTestApp(newStubResolver(), nil)

	for token, code := range map[string]int{
		"pcd":   fiber.StatusOK,
		"inst":  fiber.StatusOK,
		"admin": fiber.StatusForbidden,
	} {
		if resp, _ := do(t, app, http.MethodPost, "/api/dogs", token); resp.StatusCode != code {
			t.Fatalf("POST /api/dogs as %s: expected %d, got %d", token, code, resp.StatusCode)
		}
	}
}

func TestGateWithoutIdentityIsUnauthenticated(t *testing.T) {
	app := newTestApp(newStubResolver(), nil)

	resp, _ := do(t, app, http.MethodGet, "/unguarded", "admin")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 when no identity was resolved, got %d", resp.StatusCode)
	}
}
