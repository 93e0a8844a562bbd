package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrops/internal/domain/auth"
)

const testSecret = "test-secret"

type fakeSessions struct {
	valid bool
	err   error
}

func (f fakeSessions) SessionValid(ctx context.Context, userID, tokenHash string) (bool, error) {
	return f.valid, f.err
}

func issueToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID:    "11111111-1111-1111-1111-111111111111",
		Role:      role,
		SessionID: "session-1",
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func authedRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/employees", nil)
	r.Header.Set("Authorization", "Bearer "+issueToken(t, role))
	return r
}

func TestAuthAttachesUserContext(t *testing.T) {
	var got auth.UserContext
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
	})

	handler := Auth(testSecret, fakeSessions{valid: true})(next)
	handler.ServeHTTP(httptest.NewRecorder(), authedRequest(t, auth.RoleHR))

	if !ok {
		t.Fatal("expected user context to be set")
	}
	if got.Role != auth.RoleHR {
		t.Fatalf("role = %s, want %s", got.Role, auth.RoleHR)
	}
	if got.UserID != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected userID %s", got.UserID)
	}
}

func TestAuthPassesThroughWithoutToken(t *testing.T) {
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
	})

	handler := Auth(testSecret, fakeSessions{valid: true})(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if ok {
		t.Fatal("expected no user context for anonymous request")
	}
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+issueToken(t, auth.RoleAdmin)+"x")

	handler := Auth(testSecret, fakeSessions{valid: true})(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if ok {
		t.Fatal("tampered token must not authenticate")
	}
}

func TestAuthRevokedSessionIsAnonymous(t *testing.T) {
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
	})

	handler := Auth(testSecret, fakeSessions{valid: false})(next)
	handler.ServeHTTP(httptest.NewRecorder(), authedRequest(t, auth.RoleEmployee))

	if ok {
		t.Fatal("revoked session must not authenticate")
	}
}

func TestRequirePermissionUnauthenticated(t *testing.T) {
	handler := RequirePermission(auth.PermEmployeesRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequirePermissionForbidden(t *testing.T) {
	chain := Auth(testSecret, fakeSessions{valid: true})(
		RequirePermission(auth.PermPayrollFinalize)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("employee must not reach payroll finalize")
		})))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, authedRequest(t, auth.RoleEmployee))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequirePermissionAllows(t *testing.T) {
	called := false
	chain := Auth(testSecret, fakeSessions{valid: true})(
		RequirePermission(auth.PermPayrollFinalize)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, authedRequest(t, auth.RoleFinance))

	if !called {
		t.Fatal("finance role should reach payroll finalize")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
