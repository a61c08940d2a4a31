package auth

import (
	"errors"

	"github.com/sirtec-dev/portal-backend/internal/content"
)

// MinPasswordLength mirrors the form constraint the frontend enforces.
const MinPasswordLength = 6

// Validation errors are shown to the user as-is.
var (
	errMissingCredentials = errors.New("Email e senha são obrigatórios")
	errMissingFields      = errors.New("Todos os campos são obrigatórios")
	errPasswordTooShort   = errors.New("A senha deve ter no mínimo 6 caracteres")
	errInvalidUnit        = errors.New("Unidade inválida")
)

// LoginForm is the login mode of the auth form.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	if f.Email == "" || f.Password == "" {
		return errMissingCredentials
	}
	return nil
}

// SignUpForm is the sign-up mode of the auth form: credentials plus the
// profile metadata captured at registration time.
type SignUpForm struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BirthDate    string `json:"birth_date"`
	Registration string `json:"registration"`
	Position     string `json:"position"`
	Unit         string `json:"unit"`
	Password     string `json:"password"`
}

// Validate checks the sign-up fields. The unit must be a member of the
// configured closed enumeration; the canonical spelling is written back so
// the stored value round-trips exactly.
func (f *SignUpForm) Validate(units *content.Units) error {
	if f.Name == "" || f.Email == "" || f.BirthDate == "" ||
		f.Registration == "" || f.Position == "" || f.Unit == "" || f.Password == "" {
		return errMissingFields
	}
	if len(f.Password) < MinPasswordLength {
		return errPasswordTooShort
	}

	canonical, ok := units.Canonical(f.Unit)
	if !ok {
		return errInvalidUnit
	}
	f.Unit = canonical
	return nil
}
