package provider

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMissingBaseURL     = errors.New("PORTAL_HOSTED_URL environment variable is required for hosted provider")
	ErrMissingAPIKey      = errors.New("PORTAL_HOSTED_KEY environment variable is required for hosted provider")
	ErrUnknownProvider    = errors.New("unknown provider type")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrConfirmUnsupported = errors.New("sign-up confirmation is handled by the hosted service")

	// ErrAlreadyRegistered is shown to the user verbatim, hence the wording.
	ErrAlreadyRegistered = errors.New("User already registered")
)

// IdentityProvider is the interface every identity/data provider implements.
// It abstracts the differences between the self-hosted Postgres provider, the
// hosted auth service, and the in-memory provider used in tests.
type IdentityProvider interface {
	// Name returns the provider name for logging purposes.
	Name() string

	// CurrentSession returns the session for token, or (nil, nil) when the
	// token is unknown or expired. An absent session is not an error.
	CurrentSession(ctx context.Context, token string) (*Session, error)

	// SignInWithPassword authenticates email/password and establishes a
	// session. The returned error text is shown to the user verbatim.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp creates an unconfirmed account with profile metadata. It does
	// not establish a session; the account must be confirmed first.
	SignUp(ctx context.Context, email, password string, meta ProfileMeta) (*User, error)

	// SignOut invalidates the session for token.
	SignOut(ctx context.Context, token string) error

	// FetchProfile looks up exactly one profile record by user id.
	// Zero rows is an error (ErrProfileNotFound).
	FetchProfile(ctx context.Context, userID string) (*Profile, error)

	// ConfirmSignUp redeems a confirmation token and activates the account.
	ConfirmSignUp(ctx context.Context, token string) error

	// Subscribe registers a listener for session change events. The returned
	// subscription must be released exactly once at teardown.
	Subscribe(fn func(Event)) *Subscription

	// HealthCheck verifies the provider can reach its backing store.
	HealthCheck(ctx context.Context) error
}

// providerRegistry holds registered provider constructors. New providers
// register from init() in their own package.
var providerRegistry = make(map[ProviderType]func(Config) (IdentityProvider, error))

// RegisterProvider registers a provider constructor for a given provider type.
func RegisterProvider(providerType ProviderType, constructor func(Config) (IdentityProvider, error)) {
	providerRegistry[providerType] = constructor
}

// NewProvider creates an IdentityProvider based on the configuration.
func NewProvider(cfg Config) (IdentityProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	return constructor(cfg)
}
