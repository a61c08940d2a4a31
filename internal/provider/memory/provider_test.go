package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sirtec-dev/portal-backend/internal/provider"
)

func signUpAndConfirm(t *testing.T, p *Provider, email string) *provider.User {
	t.Helper()

	user, err := p.SignUp(context.Background(), email, "secret123", provider.ProfileMeta{
		Name: "Ana Souza",
		Unit: "Irecê",
	})
	if err != nil {
		t.Fatalf("sign-up: %v", err)
	}

	token, ok := p.ConfirmationToken(email)
	if !ok {
		t.Fatal("no confirmation token issued")
	}
	if err := p.ConfirmSignUp(context.Background(), token); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return user
}

func TestSignUpDoesNotEstablishSession(t *testing.T) {
	p := New()

	user, err := p.SignUp(context.Background(), "ana@sirtec.com.br", "secret123", provider.ProfileMeta{})
	if err != nil {
		t.Fatalf("sign-up: %v", err)
	}
	if user.Confirmed {
		t.Fatal("fresh account must be unconfirmed")
	}

	if _, err := p.SignInWithPassword(context.Background(), "ana@sirtec.com.br", "secret123"); err == nil {
		t.Fatal("unconfirmed sign-in must fail")
	} else if err.Error() != "Email not confirmed" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestSignInEmitsEventAndReplacesSession(t *testing.T) {
	p := New()
	signUpAndConfirm(t, p, "ana@sirtec.com.br")

	var events []provider.Event
	sub := p.Subscribe(func(ev provider.Event) { events = append(events, ev) })
	defer sub.Unsubscribe()

	first, err := p.SignInWithPassword(context.Background(), "ana@sirtec.com.br", "secret123")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	second, err := p.SignInWithPassword(context.Background(), "ana@sirtec.com.br", "secret123")
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}

	if session, _ := p.CurrentSession(context.Background(), first.Token); session != nil {
		t.Fatal("first session must be replaced by the second sign-in")
	}
	if session, _ := p.CurrentSession(context.Background(), second.Token); session == nil {
		t.Fatal("second session must be live")
	}

	if len(events) != 2 || events[0].Type != provider.EventSignedIn || events[1].Type != provider.EventSignedIn {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestBadCredentials(t *testing.T) {
	p := New()
	signUpAndConfirm(t, p, "ana@sirtec.com.br")

	if _, err := p.SignInWithPassword(context.Background(), "ana@sirtec.com.br", "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	} else if err.Error() != "Invalid login credentials" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}

	if _, err := p.SignInWithPassword(context.Background(), "nobody@sirtec.com.br", "secret123"); err == nil {
		t.Fatal("unknown email accepted")
	}
}

func TestExpiryPushesSignedOut(t *testing.T) {
	p := New()
	signUpAndConfirm(t, p, "ana@sirtec.com.br")

	session, err := p.SignInWithPassword(context.Background(), "ana@sirtec.com.br", "secret123")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}

	var signedOut []provider.Event
	sub := p.Subscribe(func(ev provider.Event) {
		if ev.Type == provider.EventSignedOut {
			signedOut = append(signedOut, ev)
		}
	})
	defer sub.Unsubscribe()

	p.SetClock(func() time.Time { return time.Now().Add(7 * time.Hour) })

	got, err := p.CurrentSession(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if got != nil {
		t.Fatal("expired session must resolve to absent")
	}
	if len(signedOut) != 1 || signedOut[0].Token != session.Token {
		t.Fatalf("expected one signed_out event for the token, got %+v", signedOut)
	}
}

func TestFetchProfileRoundTrip(t *testing.T) {
	p := New()
	user := signUpAndConfirm(t, p, "ana@sirtec.com.br")

	profile, err := p.FetchProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("fetch profile: %v", err)
	}
	if profile.Unit != "Irecê" {
		t.Fatalf("unit round-trip broken: %q", profile.Unit)
	}
	if profile.Email != "ana@sirtec.com.br" {
		t.Fatalf("email = %q", profile.Email)
	}

	if _, err := p.FetchProfile(context.Background(), "missing"); err != provider.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
