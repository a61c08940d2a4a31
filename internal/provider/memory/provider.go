// Package memory implements the identity provider contract against in-memory
// maps. It keeps unit tests and local development lightweight; it favors
// clarity over performance.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirtec-dev/portal-backend/internal/provider"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 6 * time.Hour

// Error texts are shown to the user verbatim, hence the capitalized wording.
var (
	errInvalidCredentials  = errors.New("Invalid login credentials")
	errEmailNotConfirmed   = errors.New("Email not confirmed")
	errInvalidConfirmToken = errors.New("Invalid confirmation token")
)

type account struct {
	id             string
	email          string
	hashedPassword string
	confirmed      bool
}

type Provider struct {
	provider.Broadcaster

	mu            sync.RWMutex
	accounts      map[string]account          // keyed by email
	sessions      map[string]provider.Session // keyed by token
	profiles      map[string]provider.Profile // keyed by user id
	confirmations map[string]string           // confirmation token -> email

	// now is swappable so tests can drive session expiry.
	now func() time.Time
}

func init() {
	provider.RegisterProvider(provider.ProviderMemory, func(provider.Config) (provider.IdentityProvider, error) {
		return New(), nil
	})
}

func New() *Provider {
	return &Provider{
		accounts:      make(map[string]account),
		sessions:      make(map[string]provider.Session),
		profiles:      make(map[string]provider.Profile),
		confirmations: make(map[string]string),
		now:           time.Now,
	}
}

func (p *Provider) Name() string { return "memory" }

func (p *Provider) HealthCheck(ctx context.Context) error { return nil }

func (p *Provider) CurrentSession(ctx context.Context, token string) (*provider.Session, error) {
	p.mu.Lock()
	session, ok := p.sessions[token]
	if ok && session.ExpiresAt.Before(p.now()) {
		delete(p.sessions, token)
		p.mu.Unlock()
		p.Emit(provider.Event{Type: provider.EventSignedOut, Token: token, UserID: session.UserID})
		return nil, nil
	}
	p.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	p.mu.Lock()

	acct, ok := p.accounts[email]
	if !ok {
		p.mu.Unlock()
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.hashedPassword), []byte(password)); err != nil {
		p.mu.Unlock()
		return nil, errInvalidCredentials
	}
	if !acct.confirmed {
		p.mu.Unlock()
		return nil, errEmailNotConfirmed
	}

	// One active session per account; a new sign-in replaces the old one.
	for token, session := range p.sessions {
		if session.UserID == acct.id {
			delete(p.sessions, token)
		}
	}

	session := provider.Session{
		Token:     uuid.NewString(),
		UserID:    acct.id,
		ExpiresAt: p.now().Add(sessionTTL),
	}
	p.sessions[session.Token] = session
	p.mu.Unlock()

	p.Emit(provider.Event{Type: provider.EventSignedIn, Token: session.Token, UserID: session.UserID, ExpiresAt: session.ExpiresAt})
	return &session, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string, meta provider.ProfileMeta) (*provider.User, error) {
	// MinCost keeps the dev/test provider snappy; the local provider uses
	// the default cost.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return nil, provider.ErrAlreadyRegistered
	}

	acct := account{
		id:             uuid.NewString(),
		email:          email,
		hashedPassword: string(hashed),
	}
	p.accounts[email] = acct
	p.profiles[acct.id] = provider.Profile{
		UserID:       acct.id,
		Name:         meta.Name,
		Email:        email,
		BirthDate:    meta.BirthDate,
		Registration: meta.Registration,
		Position:     meta.Position,
		Unit:         meta.Unit,
	}
	p.confirmations[uuid.NewString()] = email

	return &provider.User{ID: acct.id, Email: email, Confirmed: false}, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	session, ok := p.sessions[token]
	delete(p.sessions, token)
	p.mu.Unlock()

	if ok {
		p.Emit(provider.Event{Type: provider.EventSignedOut, Token: token, UserID: session.UserID})
	}
	return nil
}

func (p *Provider) FetchProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[userID]
	if !ok {
		return nil, provider.ErrProfileNotFound
	}
	return &profile, nil
}

func (p *Provider) ConfirmSignUp(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	email, ok := p.confirmations[token]
	if !ok {
		return errInvalidConfirmToken
	}
	delete(p.confirmations, token)

	acct := p.accounts[email]
	acct.confirmed = true
	p.accounts[email] = acct
	return nil
}

// ConfirmationToken returns the pending confirmation token for email, used by
// tests and the dev login flow to confirm accounts without a mailer.
func (p *Provider) ConfirmationToken(email string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for token, e := range p.confirmations {
		if e == email {
			return token, true
		}
	}
	return "", false
}

// SetClock swaps the time source; tests use it to force expiry.
func (p *Provider) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}
