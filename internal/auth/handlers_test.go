package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirtec-dev/portal-backend/internal/auth"
	"github.com/sirtec-dev/portal-backend/internal/bootstrap"
	"github.com/sirtec-dev/portal-backend/internal/content"
	"github.com/sirtec-dev/portal-backend/internal/provider"
	"github.com/sirtec-dev/portal-backend/internal/provider/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Provider) {
	t.Helper()

	mem := memory.New()
	boot := bootstrap.New(mem)
	t.Cleanup(boot.Close)

	units := content.NewUnits(content.DefaultUnits)
	handler := &auth.Handler{Bootstrapper: boot, Units: units}

	r := chi.NewRouter()
	r.Mount("/auth", handler.SetupRoutes())

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, mem
}

func signUpBody(email string) map[string]string {
	return map[string]string{
		"name":         "Ana Souza",
		"email":        email,
		"birth_date":   "1990-05-12",
		"registration": "12345",
		"position":     "Eletricista",
		"unit":         "Feira de Santana",
		"password":     "secret123",
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeStatus(t *testing.T, resp *http.Response) auth.StatusResponse {
	t.Helper()
	defer resp.Body.Close()
	var status auth.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return status
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	return nil
}

func TestRegisterReturnsConfirmationInstruction(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	status := decodeStatus(t, resp)
	if status.Type != bootstrap.SeveritySuccess {
		t.Fatalf("expected success status, got %q", status.Type)
	}
	if status.Message != "Cadastro realizado! Verifique seu email para confirmação." {
		t.Fatalf("unexpected message: %q", status.Message)
	}
	if sessionCookie(resp) != nil {
		t.Fatal("sign-up must not establish a session")
	}
}

func TestLoginBeforeConfirmationFails(t *testing.T) {
	server, _ := newTestServer(t)

	postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br")).Body.Close()

	resp := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "ana@sirtec.com.br",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	status := decodeStatus(t, resp)
	if status.Type != bootstrap.SeverityError {
		t.Fatalf("expected error status, got %q", status.Type)
	}
	if status.Message != "Email not confirmed" {
		t.Fatalf("provider error must surface verbatim, got %q", status.Message)
	}
	if sessionCookie(resp) != nil {
		t.Fatal("unconfirmed sign-in must not establish a session")
	}
}

func TestConfirmThenLoginSucceeds(t *testing.T) {
	server, mem := newTestServer(t)

	postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br")).Body.Close()

	token, ok := mem.ConfirmationToken("ana@sirtec.com.br")
	if !ok {
		t.Fatal("no pending confirmation token")
	}
	resp, err := http.Get(server.URL + "/auth/confirm?token=" + token)
	if err != nil {
		t.Fatalf("confirm request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm failed: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "ana@sirtec.com.br",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	status := decodeStatus(t, resp)
	if status.Message != "Login realizado com sucesso! Redirecionando..." {
		t.Fatalf("unexpected message: %q", status.Message)
	}
	cookie := sessionCookie(resp)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login must set the session cookie")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	server, _ := newTestServer(t)

	body := signUpBody("ana@sirtec.com.br")
	body["password"] = "12345"

	resp := postJSON(t, server.URL+"/auth/register", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Type != bootstrap.SeverityError {
		t.Fatalf("expected error status, got %q", status.Type)
	}
}

func TestRegisterRejectsUnknownUnit(t *testing.T) {
	server, _ := newTestServer(t)

	body := signUpBody("ana@sirtec.com.br")
	body["unit"] = "Porto Alegre"

	resp := postJSON(t, server.URL+"/auth/register", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	server, _ := newTestServer(t)

	postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br")).Body.Close()

	resp := postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br"))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Message != "User already registered" {
		t.Fatalf("provider error must surface verbatim, got %q", status.Message)
	}
}

// brokenSignUpProvider simulates the provider's backing store being down
// during registration.
type brokenSignUpProvider struct {
	provider.IdentityProvider
}

func (brokenSignUpProvider) SignUp(ctx context.Context, email, password string, meta provider.ProfileMeta) (*provider.User, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestRegisterProviderFailureIsNotConflict(t *testing.T) {
	boot := bootstrap.New(brokenSignUpProvider{IdentityProvider: memory.New()})
	t.Cleanup(boot.Close)

	handler := &auth.Handler{Bootstrapper: boot, Units: content.NewUnits(content.DefaultUnits)}
	r := chi.NewRouter()
	r.Mount("/auth", handler.SetupRoutes())
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br"))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("infrastructure failure must not answer 409: got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Message != "dial tcp: connection refused" {
		t.Fatalf("provider error must surface verbatim, got %q", status.Message)
	}
}

func TestSessionEndpoint(t *testing.T) {
	server, mem := newTestServer(t)

	// Without a cookie: unauthenticated.
	resp, err := http.Get(server.URL + "/auth/session")
	if err != nil {
		t.Fatalf("session request: %v", err)
	}
	var sessionResp auth.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	resp.Body.Close()
	if sessionResp.Authenticated {
		t.Fatal("expected unauthenticated without a cookie")
	}

	// Register, confirm, log in, then check again with the cookie.
	postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br")).Body.Close()
	token, _ := mem.ConfirmationToken("ana@sirtec.com.br")
	resp, _ = http.Get(server.URL + "/auth/confirm?token=" + token)
	resp.Body.Close()

	loginResp := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "ana@sirtec.com.br",
		"password": "secret123",
	})
	loginResp.Body.Close()
	cookie := sessionCookie(loginResp)
	if cookie == nil {
		t.Fatal("login must set the session cookie")
	}

	req, _ := http.NewRequest("GET", server.URL+"/auth/session", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("session request: %v", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !sessionResp.Authenticated || sessionResp.UserID == "" {
		t.Fatalf("expected authenticated session, got %+v", sessionResp)
	}
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	server, mem := newTestServer(t)

	postJSON(t, server.URL+"/auth/register", signUpBody("ana@sirtec.com.br")).Body.Close()
	token, _ := mem.ConfirmationToken("ana@sirtec.com.br")
	resp, _ := http.Get(server.URL + "/auth/confirm?token=" + token)
	resp.Body.Close()

	loginResp := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "ana@sirtec.com.br",
		"password": "secret123",
	})
	loginResp.Body.Close()
	cookie := sessionCookie(loginResp)

	req, _ := http.NewRequest("POST", server.URL+"/auth/logout", nil)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("logout request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cleared := sessionCookie(resp)
	if cleared == nil || cleared.Value != "" {
		t.Fatal("logout must clear the session cookie")
	}

	// The old token must no longer resolve.
	req, _ = http.NewRequest("GET", server.URL+"/auth/session", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("session request: %v", err)
	}
	defer resp.Body.Close()
	var sessionResp auth.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sessionResp.Authenticated {
		t.Fatal("session must be invalid after logout")
	}
}
