package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seobuilder/internal/auth"
	"seobuilder/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestIdentity creates an auth.Identity suitable for testing.
func newTestIdentity(role models.Role) *auth.Identity {
	return &auth.Identity{
		UserID:    uuid.New(),
		Email:     "test@seobuilder.local",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// ctxWithIdentity returns a context carrying the given identity using the
// same context key the middleware uses. This lets tests simulate the state
// after Authenticate has run without a real Valkey store.
func ctxWithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// testTokenStore spins up an in-memory Valkey and returns a TokenStore
// backed by it.
func testTokenStore(t *testing.T) *auth.TokenStore {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return auth.NewTokenStore(client)
}

// ---------- BearerToken ----------

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "valid bearer token", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
		{name: "extra whitespace", header: "Bearer   abc123  ", want: "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------- IdentityFromCtx ----------

func TestIdentityFromCtx(t *testing.T) {
	t.Run("returns identity when present", func(t *testing.T) {
		id := newTestIdentity(models.RoleAdmin)
		ctx := ctxWithIdentity(context.Background(), id)

		got := IdentityFromCtx(ctx)
		if got == nil {
			t.Fatal("expected non-nil identity, got nil")
		}
		if got.Email != id.Email {
			t.Errorf("Email: got %q, want %q", got.Email, id.Email)
		}
		if got.Role != id.Role {
			t.Errorf("Role: got %q, want %q", got.Role, id.Role)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := IdentityFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil identity, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), IdentityKey, "not-an-identity")
		if got := IdentityFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

// ---------- Authenticate ----------

func TestAuthenticate(t *testing.T) {
	t.Run("valid token loads identity into context", func(t *testing.T) {
		tokens := testTokenStore(t)
		user := &models.User{
			ID:    uuid.New(),
			Email: "owner@seobuilder.local",
			Role:  models.RoleOwner,
		}
		token, err := tokens.Issue(context.Background(), user)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}

		var got *auth.Identity
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IdentityFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		handler := Authenticate(tokens)(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got == nil {
			t.Fatal("downstream handler should have received identity")
		}
		if got.UserID != user.ID {
			t.Errorf("UserID: got %s, want %s", got.UserID, user.ID)
		}
		if got.Role != models.RoleOwner {
			t.Errorf("Role: got %q, want %q", got.Role, models.RoleOwner)
		}
	})

	t.Run("missing token proceeds unauthenticated", func(t *testing.T) {
		tokens := testTokenStore(t)

		var got *auth.Identity
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IdentityFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		handler := Authenticate(tokens)(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if got != nil {
			t.Errorf("expected nil identity, got %+v", got)
		}
	})

	t.Run("unknown token proceeds unauthenticated", func(t *testing.T) {
		tokens := testTokenStore(t)

		var got *auth.Identity
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IdentityFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		handler := Authenticate(tokens)(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer deadbeef")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if got != nil {
			t.Errorf("expected nil identity, got %+v", got)
		}
	})
}

// ---------- RequireAuth ----------

func TestRequireAuth(t *testing.T) {
	t.Run("returns 401 when no identity", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should NOT have been called")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
		}
		if rr.Header().Get("WWW-Authenticate") == "" {
			t.Error("expected WWW-Authenticate header on 401")
		}
	})

	t.Run("passes through when identity exists", func(t *testing.T) {
		id := newTestIdentity(models.RoleEditor)
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req = req.WithContext(ctxWithIdentity(req.Context(), id))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

// ---------- RequireRole ----------

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		identity       *auth.Identity
		roles          []models.Role
		wantCode       int
		wantNextCalled bool
	}{
		{
			name:           "returns 401 when identity is nil",
			identity:       nil,
			roles:          []models.Role{models.RoleAdmin},
			wantCode:       http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "returns 403 when role does not match",
			identity:       newTestIdentity(models.RoleViewer),
			roles:          []models.Role{models.RoleAdmin, models.RoleOwner},
			wantCode:       http.StatusForbidden,
			wantNextCalled: false,
		},
		{
			name:           "passes through when role matches",
			identity:       newTestIdentity(models.RoleAdmin),
			roles:          []models.Role{models.RoleAdmin},
			wantCode:       http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "passes through when any listed role matches",
			identity:       newTestIdentity(models.RoleEditor),
			roles:          []models.Role{models.RoleOwner, models.RoleEditor},
			wantCode:       http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := RequireRole(tt.roles...)(inner)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.identity != nil {
				req = req.WithContext(ctxWithIdentity(req.Context(), tt.identity))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}
