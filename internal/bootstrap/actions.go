package bootstrap

import (
	"context"
	"log"

	"github.com/sirtec-dev/portal-backend/internal/provider"
)

// SignIn authenticates against the provider. State is populated through the
// signed_in change event the provider emits, never written here directly.
func (b *Bootstrapper) SignIn(ctx context.Context, email, password string) (*provider.Session, error) {
	return b.provider.SignInWithPassword(ctx, email, password)
}

// SignUp registers a new account with its profile metadata. No session is
// established; the account must confirm its email first.
func (b *Bootstrapper) SignUp(ctx context.Context, email, password string, meta provider.ProfileMeta) (*provider.User, error) {
	return b.provider.SignUp(ctx, email, password, meta)
}

// SignOut requests session invalidation. Failures are logged and returned to
// the caller so the view layer can show them instead of leaving the UI in an
// ambiguous state.
func (b *Bootstrapper) SignOut(ctx context.Context, token string) error {
	if err := b.provider.SignOut(ctx, token); err != nil {
		log.Printf("[bootstrap] sign-out failed: %v", err)
		return err
	}
	return nil
}

// ConfirmSignUp redeems an email confirmation token.
func (b *Bootstrapper) ConfirmSignUp(ctx context.Context, token string) error {
	return b.provider.ConfirmSignUp(ctx, token)
}
