package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirtec-dev/portal-backend/internal/bootstrap"
	"github.com/sirtec-dev/portal-backend/internal/content"
	"github.com/sirtec-dev/portal-backend/internal/provider"
	"github.com/sirtec-dev/portal-backend/internal/utils"
)

// User-facing status messages.
const (
	msgLoginOK   = "Login realizado com sucesso! Redirecionando..."
	msgSignUpOK  = "Cadastro realizado! Verifique seu email para confirmação."
	msgConfirmOK = "Email confirmado! Você já pode fazer login."
	msgLogoutOK  = "Logout realizado com sucesso."
)

type Handler struct {
	Bootstrapper *bootstrap.Bootstrapper
	Units        *content.Units
}

// StatusResponse is the transient status message shown above the auth form,
// tagged with a severity.
type StatusResponse struct {
	Message string             `json:"message"`
	Type    bootstrap.Severity `json:"type"`
}

func writeStatus(w http.ResponseWriter, code int, message string, severity bootstrap.Severity) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(StatusResponse{Message: message, Type: severity})
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeStatus(w, http.StatusBadRequest, "Invalid request format", bootstrap.SeverityError)
		return
	}
	if err := form.Validate(); err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error(), bootstrap.SeverityError)
		return
	}

	session, err := h.Bootstrapper.SignIn(r.Context(), form.Email, form.Password)
	if err != nil {
		// The provider's error text goes to the user verbatim.
		writeStatus(w, http.StatusUnauthorized, err.Error(), bootstrap.SeverityError)
		return
	}

	http.SetCookie(w, sessionCookie(session.Token, 0))
	writeStatus(w, http.StatusOK, msgLoginOK, bootstrap.SeveritySuccess)
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var form SignUpForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeStatus(w, http.StatusBadRequest, "Invalid request format", bootstrap.SeverityError)
		return
	}
	if err := form.Validate(h.Units); err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error(), bootstrap.SeverityError)
		return
	}

	meta := provider.ProfileMeta{
		Name:         form.Name,
		BirthDate:    form.BirthDate,
		Registration: form.Registration,
		Position:     form.Position,
		Unit:         form.Unit,
	}
	if _, err := h.Bootstrapper.SignUp(r.Context(), form.Email, form.Password, meta); err != nil {
		// A duplicate account is the caller's mistake; anything else is the
		// provider failing.
		code := http.StatusBadGateway
		if errors.Is(err, provider.ErrAlreadyRegistered) {
			code = http.StatusConflict
		}
		writeStatus(w, code, err.Error(), bootstrap.SeverityError)
		return
	}

	// No session is established; the account needs email confirmation first.
	writeStatus(w, http.StatusCreated, msgSignUpOK, bootstrap.SeveritySuccess)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetSessionTokenFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized, "Couldn't find session", bootstrap.SeverityError)
		return
	}

	err := h.Bootstrapper.SignOut(r.Context(), token)

	// The cookie is cleared either way; a provider failure is surfaced so
	// the user knows the remote session may still be alive.
	http.SetCookie(w, sessionCookie("", -1))

	if err != nil {
		writeStatus(w, http.StatusBadGateway, err.Error(), bootstrap.SeverityError)
		return
	}
	writeStatus(w, http.StatusOK, msgLogoutOK, bootstrap.SeveritySuccess)
}

// SessionResponse answers the frontend's current-session check.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
}

func (h *Handler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie("session_id"); err == nil {
		token = cookie.Value
	}

	snap := h.Bootstrapper.Resolve(r.Context(), token)

	response := SessionResponse{Authenticated: snap.Authenticated()}
	if snap.Authenticated() {
		response.UserID = snap.Session.UserID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.Bootstrapper.ConfirmSignUp(r.Context(), token); err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error(), bootstrap.SeverityError)
		return
	}
	writeStatus(w, http.StatusOK, msgConfirmOK, bootstrap.SeveritySuccess)
}
