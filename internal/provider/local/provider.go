// Package local implements the identity provider contract against the
// portal's own Postgres database.
package local

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirtec-dev/portal-backend/internal/db"
	"github.com/sirtec-dev/portal-backend/internal/provider"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 6 * time.Hour

// Error texts are shown to the user verbatim, hence the capitalized wording.
var (
	errInvalidCredentials  = errors.New("Invalid login credentials")
	errEmailNotConfirmed   = errors.New("Email not confirmed")
	errInvalidConfirmToken = errors.New("Invalid confirmation token")
)

type Provider struct {
	provider.Broadcaster

	db       *gorm.DB
	stop     chan struct{}
	stopOnce sync.Once
}

func init() {
	provider.RegisterProvider(provider.ProviderLocal, func(provider.Config) (provider.IdentityProvider, error) {
		if db.DB == nil {
			return nil, errors.New("local provider requires a database connection")
		}
		return New(db.DB)
	})
}

// New migrates the auth and profile tables and starts the expiry janitor.
func New(d *gorm.DB) (*Provider, error) {
	if err := db.EnsureSchema(d, "portal_auth"); err != nil {
		return nil, fmt.Errorf("failed to ensure schema portal_auth: %w", err)
	}
	if err := db.EnsureSchema(d, "portal"); err != nil {
		return nil, fmt.Errorf("failed to ensure schema portal: %w", err)
	}
	if err := d.AutoMigrate(&Account{}, &Session{}, &Profile{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	p := &Provider{db: d, stop: make(chan struct{})}
	go p.sweepExpired()
	return p, nil
}

// Close stops the expiry janitor.
func (p *Provider) Close() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *Provider) Name() string { return "local" }

// emit logs the transition and fans it out to subscribers.
func (p *Provider) emit(ev provider.Event) {
	provider.LogEvent(p.Name(), ev)
	p.Emit(ev)
}

func (p *Provider) HealthCheck(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Provider) CurrentSession(ctx context.Context, token string) (*provider.Session, error) {
	var session Session
	err := p.db.WithContext(ctx).First(&session, "session_id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if session.ExpiresAt.Before(time.Now()) {
		// Expired but not yet swept; invalidation is pushed, never left
		// for callers to poll.
		if err := p.db.WithContext(ctx).Delete(&session).Error; err != nil {
			provider.LogError(p.Name(), "delete expired session", err)
		}
		p.emit(provider.Event{Type: provider.EventSignedOut, Token: session.SessionID, UserID: session.UserID})
		return nil, nil
	}

	return &provider.Session{
		Token:     session.SessionID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	var account Account
	err := p.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if err != nil {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	if !account.Confirmed {
		return nil, errEmailNotConfirmed
	}

	session := Session{
		SessionID: uuid.NewString(),
		UserID:    account.UserID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	// One active session per account; a new sign-in replaces the old one.
	var existing Session
	err = p.db.WithContext(ctx).First(&existing, "user_id = ?", account.UserID).Error
	if err == nil {
		if err := p.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"session_id": session.SessionID,
			"expires_at": session.ExpiresAt,
		}).Error; err != nil {
			return nil, err
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := p.db.WithContext(ctx).Create(&session).Error; err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	p.emit(provider.Event{Type: provider.EventSignedIn, Token: session.SessionID, UserID: session.UserID, ExpiresAt: session.ExpiresAt})
	return &provider.Session{
		Token:     session.SessionID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string, meta provider.ProfileMeta) (*provider.User, error) {
	var existing Account
	err := p.db.WithContext(ctx).First(&existing, "email = ?", email).Error
	if err == nil {
		return nil, provider.ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := Account{
		UserID:            uuid.NewString(),
		Email:             email,
		HashedPassword:    string(hashed),
		Confirmed:         false,
		ConfirmationToken: uuid.NewString(),
	}
	profile := Profile{
		UserID:       account.UserID,
		Name:         meta.Name,
		Email:        email,
		BirthDate:    meta.BirthDate,
		Registration: meta.Registration,
		Position:     meta.Position,
		Unit:         meta.Unit,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	// Mail delivery is not wired up; the confirmation link lands in the log
	// so operators can relay it.
	log.Printf("[local] confirmation token for %s: %s", email, account.ConfirmationToken)

	return &provider.User{ID: account.UserID, Email: email, Confirmed: false}, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	var session Session
	err := p.db.WithContext(ctx).First(&session, "session_id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := p.db.WithContext(ctx).Delete(&session).Error; err != nil {
		return err
	}

	p.emit(provider.Event{Type: provider.EventSignedOut, Token: session.SessionID, UserID: session.UserID})
	return nil
}

func (p *Provider) FetchProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	var profile Profile
	err := p.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, provider.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &provider.Profile{
		UserID:       profile.UserID,
		Name:         profile.Name,
		Email:        profile.Email,
		BirthDate:    profile.BirthDate,
		Registration: profile.Registration,
		Position:     profile.Position,
		Unit:         profile.Unit,
	}, nil
}

func (p *Provider) ConfirmSignUp(ctx context.Context, token string) error {
	if token == "" {
		return errInvalidConfirmToken
	}

	var account Account
	err := p.db.WithContext(ctx).First(&account, "confirmation_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errInvalidConfirmToken
	}
	if err != nil {
		return err
	}

	return p.db.WithContext(ctx).Model(&account).Updates(map[string]interface{}{
		"confirmed":          true,
		"confirmation_token": "",
	}).Error
}
