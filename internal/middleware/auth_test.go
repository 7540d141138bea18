package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/token"
)

type mockRoleReader struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockRoleReader) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func newTestGuard(users RoleReader) (*Guard, *token.Service) {
	svc := token.New("guard-test-secret", "emagraphy", token.DefaultTTL)
	return NewGuard(svc, users, nil, nil), svc
}

func requestWithAuth(header string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/users")
	if header != "" {
		ctx.Request.Header.Set("Authorization", header)
	}
	return &ctx
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	guard, _ := newTestGuard(&mockRoleReader{})

	called := false
	handler := guard.Authenticate(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := requestWithAuth("")
	handler(ctx)

	if code := ctx.Response.StatusCode(); code != fasthttp.StatusUnauthorized {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusUnauthorized)
	}
	if !strings.Contains(string(ctx.Response.Body()), "unauthorize access") {
		t.Errorf("body = %s, want unauthorize access message", ctx.Response.Body())
	}
	if called {
		t.Error("downstream handler must not run")
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	guard, svc := newTestGuard(&mockRoleReader{})
	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Valid token but not in Bearer form.
	handler := guard.Authenticate(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("downstream handler must not run")
	})

	ctx := requestWithAuth(signed)
	handler(ctx)

	if code := ctx.Response.StatusCode(); code != fasthttp.StatusUnauthorized {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusUnauthorized)
	}
}

func TestAuthenticate_WrongSignature(t *testing.T) {
	guard, _ := newTestGuard(&mockRoleReader{})

	foreign := token.New("some-other-secret", "emagraphy", token.DefaultTTL)
	signed, err := foreign.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	handler := guard.Authenticate(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("downstream handler must not run")
	})

	ctx := requestWithAuth("Bearer " + signed)
	handler(ctx)

	// Signature failures are authentication failures, never role failures.
	if code := ctx.Response.StatusCode(); code != fasthttp.StatusUnauthorized {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusUnauthorized)
	}
}

func TestAuthenticate_AttachesCallerEmail(t *testing.T) {
	guard, svc := newTestGuard(&mockRoleReader{})
	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	calls := 0
	var captured string
	handler := guard.Authenticate(func(ctx *fasthttp.RequestCtx) {
		calls++
		captured = CallerEmail(ctx)
	})

	ctx := requestWithAuth("Bearer " + signed)
	// A spoofed identity header must be overwritten by the verified claims.
	ctx.Request.Header.Set("X-User-Email", "attacker@x.com")
	handler(ctx)

	if calls != 1 {
		t.Fatalf("downstream handler ran %d times, want 1", calls)
	}
	if captured != "a@x.com" {
		t.Errorf("caller email = %q, want %q", captured, "a@x.com")
	}
}

func TestRequireRole_RoleMismatch(t *testing.T) {
	users := &mockRoleReader{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, Role: domain.RoleStudent}, nil
		},
	}
	guard, svc := newTestGuard(users)
	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	handler := guard.RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("downstream handler must not run")
	})

	ctx := requestWithAuth("Bearer " + signed)
	handler(ctx)

	if code := ctx.Response.StatusCode(); code != fasthttp.StatusForbidden {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusForbidden)
	}
	if !strings.Contains(string(ctx.Response.Body()), "forbidden access") {
		t.Errorf("body = %s, want forbidden access message", ctx.Response.Body())
	}
}

func TestRequireRole_UnknownIdentityIsForbidden(t *testing.T) {
	guard, svc := newTestGuard(&mockRoleReader{})
	signed, err := svc.Issue("ghost@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	handler := guard.RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("downstream handler must not run")
	})

	ctx := requestWithAuth("Bearer " + signed)
	handler(ctx)

	if code := ctx.Response.StatusCode(); code != fasthttp.StatusForbidden {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusForbidden)
	}
}

func TestRequireRole_StoreFailureFailsClosed(t *testing.T) {
	users := &mockRoleReader{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	guard, svc := newTestGuard(users)
	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	handler := guard.RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("downstream handler must not run")
	})

	ctx := requestWithAuth("Bearer " + signed)
	handler(ctx)

	if code := ctx.Response.StatusCode(); code != fasthttp.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusServiceUnavailable)
	}
}

func TestRequireRole_Allowed(t *testing.T) {
	users := &mockRoleReader{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	guard, svc := newTestGuard(users)
	signed, err := svc.Issue("root@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	calls := 0
	handler := guard.RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) {
		calls++
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	ctx := requestWithAuth("Bearer " + signed)
	handler(ctx)

	if calls != 1 {
		t.Fatalf("downstream handler ran %d times, want 1", calls)
	}
	if code := ctx.Response.StatusCode(); code != fasthttp.StatusOK {
		t.Errorf("status = %d, want %d", code, fasthttp.StatusOK)
	}
}

// The stored role is consulted on every request, so a promotion takes effect
// for tokens issued before it.
func TestRequireRole_PromotionVisibleWithSameToken(t *testing.T) {
	role := domain.RoleStudent
	users := &mockRoleReader{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, Role: role}, nil
		},
	}
	guard, svc := newTestGuard(users)
	signed, err := svc.Issue("a@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	handler := guard.RequireRole(domain.RoleInstructor)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	before := requestWithAuth("Bearer " + signed)
	handler(before)
	if code := before.Response.StatusCode(); code != fasthttp.StatusForbidden {
		t.Fatalf("status before promotion = %d, want %d", code, fasthttp.StatusForbidden)
	}

	role = domain.RoleInstructor

	after := requestWithAuth("Bearer " + signed)
	handler(after)
	if code := after.Response.StatusCode(); code != fasthttp.StatusOK {
		t.Errorf("status after promotion = %d, want %d", code, fasthttp.StatusOK)
	}
}
