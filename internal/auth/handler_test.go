// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/playerone/storefront/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) (http.Handler, *fakeUsers) {
	t.Helper()

	svc, users := newTestService(t)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(svc), passthrough)
	return r, users
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

const registerBody = `{"name":"Ana","email":"ana@playerone.test","password":"Secur3Pass!"}`

func TestRegisterEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	w, env := do(t, h, http.MethodPost, "/auth/register", registerBody, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RegisterResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.User.Email != "ana@playerone.test" || resp.PasswordStrength == "" {
		t.Errorf("resp = %+v", resp)
	}
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Error("response leaks the password hash")
	}

	w, env = do(t, h, http.MethodPost, "/auth/register", registerBody, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	if env.Error == nil || env.Error.Code == "" {
		t.Errorf("duplicate body = %s", w.Body.String())
	}
}

func TestRegisterEndpointPolicyViolation(t *testing.T) {
	h, _ := newTestRouter(t)

	body := `{"name":"Ana","email":"ana@playerone.test","password":"password"}`
	w, env := do(t, h, http.MethodPost, "/auth/register", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	var details PolicyDetails
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details.Violations) == 0 || details.PasswordStrength == "" {
		t.Errorf("details = %+v", details)
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing name", `{"email":"ana@playerone.test","password":"Secur3Pass!"}`},
		{"bad email", `{"name":"Ana","email":"not-an-email","password":"Secur3Pass!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, h, http.MethodPost, "/auth/register", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	if w, _ := do(t, h, http.MethodPost, "/auth/register", registerBody, ""); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w, env := do(t, h, http.MethodPost, "/auth/login",
		`{"email":"ana@playerone.test","password":"Secur3Pass!"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.TokenType != "Bearer" || resp.User.Role != RoleUser {
		t.Fatalf("resp = %+v", resp)
	}

	w, _ = do(t, h, http.MethodGet, "/auth/verify", "", resp.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d", w.Code)
	}

	w, _ = do(t, h, http.MethodGet, "/auth/me", "", resp.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/auth/register", registerBody, "")

	wrong, wrongEnv := do(t, h, http.MethodPost, "/auth/login",
		`{"email":"ana@playerone.test","password":"Wrong3Pass!"}`, "")
	unknown, unknownEnv := do(t, h, http.MethodPost, "/auth/login",
		`{"email":"ghost@playerone.test","password":"Secur3Pass!"}`, "")

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d", wrong.Code, unknown.Code)
	}
	if wrongEnv.Error.Message != unknownEnv.Error.Message {
		t.Errorf("messages differ: %q vs %q", wrongEnv.Error.Message, unknownEnv.Error.Message)
	}
}

func TestVerifyEndpointRejectsDeactivatedAccount(t *testing.T) {
	h, users := newTestRouter(t)

	do(t, h, http.MethodPost, "/auth/register", registerBody, "")
	_, env := do(t, h, http.MethodPost, "/auth/login",
		`{"email":"ana@playerone.test","password":"Secur3Pass!"}`, "")

	var resp LoginResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	users.deactivate(resp.User.ID)

	w, _ := do(t, h, http.MethodGet, "/auth/verify", "", resp.Token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestVerifyEndpointWithoutToken(t *testing.T) {
	h, _ := newTestRouter(t)

	w, _ := do(t, h, http.MethodGet, "/auth/verify", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}
