// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/playerone/storefront/internal/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// tokenResolver treats the bearer token as a user id and looks it up through
// the service, so deactivation is visible on the next request.
type tokenResolver struct {
	svc *Service
}

func (r tokenResolver) ResolveIdentity(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	u, err := r.svc.GetByID(ctx, token)
	if err != nil {
		return nil, nil //nolint:nilerr // unknown token is anonymous
	}
	return &middleware.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

type fixture struct {
	router http.Handler
	repo   *memRepo
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	svc := NewService(repo)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(
		r,
		middleware.Authenticator(tokenResolver{svc: svc}),
		middleware.RequireAdmin,
	)

	return &fixture{router: r, repo: repo, svc: svc}
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func TestMeEndpoints(t *testing.T) {
	f := newFixture(t)
	alice := seed(t, f.svc, "Alice", "alice@playerone.test", RoleUser)

	w := f.do(http.MethodGet, "/users/me", "", alice.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /me = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("profile leaks password material")
	}

	w = f.do(http.MethodPut, "/users/me", `{"name":"Alice L"}`, alice.ID)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Alice L") {
		t.Fatalf("PUT /me = %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPut, "/users/me", `{"name":"   "}`, alice.ID)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "name must not be blank") {
		t.Fatalf("PUT /me blank name = %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodDelete, "/users/me", "", alice.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /me = %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/users/me", "", alice.ID)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /me after deletion = %d, want 401", w.Code)
	}
}

func TestAdminDeleteUserEndpoint(t *testing.T) {
	f := newFixture(t)
	admin := seed(t, f.svc, "Root", "root@playerone.test", RoleAdmin)
	otherAdmin := seed(t, f.svc, "Root Two", "root2@playerone.test", RoleAdmin)
	bob := seed(t, f.svc, "Bob", "bob@playerone.test", RoleUser)

	w := f.do(http.MethodDelete, "/users/"+bob.ID, `{"reason":"chargeback"}`, bob.ID)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin delete = %d, want 403", w.Code)
	}

	w = f.do(http.MethodDelete, "/users/"+otherAdmin.ID, "", admin.ID)
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin deleting admin = %d, want 403", w.Code)
	}

	w = f.do(http.MethodDelete, "/users/"+bob.ID, `{"reason":"chargeback"}`, admin.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d %s", w.Code, w.Body.String())
	}

	var env struct {
		Data DeletedResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ID != bob.ID {
		t.Errorf("deleted id = %q", env.Data.ID)
	}

	if len(f.repo.ledger) != 1 || *f.repo.ledger[0].Reason != "chargeback" {
		t.Fatalf("ledger = %+v", f.repo.ledger)
	}

	w = f.do(http.MethodDelete, "/users/"+bob.ID, "", admin.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete = %d, want 404", w.Code)
	}

	w = f.do(http.MethodDelete, "/users/"+uuid.NewString(), "", admin.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id = %d, want 404", w.Code)
	}

	w = f.do(http.MethodDelete, "/users/not-a-uuid", "", admin.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id = %d, want 404", w.Code)
	}
}

func TestAdminUserEndpoints(t *testing.T) {
	f := newFixture(t)
	admin := seed(t, f.svc, "Root", "root@playerone.test", RoleAdmin)
	bob := seed(t, f.svc, "Bob", "bob@playerone.test", RoleUser)
	seed(t, f.svc, "Carol", "carol@playerone.test", RoleUser)

	w := f.do(http.MethodGet, "/users/?role=user", "", admin.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var list struct {
		Data []UserResponse `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Meta.Total != 2 || len(list.Data) != 2 {
		t.Errorf("list = %+v", list)
	}

	w = f.do(http.MethodGet, "/users/"+bob.ID, "", admin.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}

	w = f.do(http.MethodPut, "/users/"+bob.ID+"/role", `{"role":"wizard"}`, admin.ID)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad role = %d", w.Code)
	}

	w = f.do(http.MethodPut, "/users/"+bob.ID+"/role", `{"role":"admin"}`, admin.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("promote = %d", w.Code)
	}

	w = f.do(http.MethodPut, "/users/"+bob.ID, `{"email":"carol@playerone.test"}`, admin.ID)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email = %d, want 409", w.Code)
	}

	w = f.do(http.MethodGet, "/users/", "", bob.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("promoted user listing = %d, want 200", w.Code)
	}
}
