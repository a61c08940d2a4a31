// Package bootstrap owns the application's session and profile state. It is
// the single writer: it reads the current session from the identity provider
// once per acquisition, fetches the matching profile record, and keeps both
// up to date from the provider's push change-events. Everything else in the
// application only reads snapshots or requests actions.
package bootstrap

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sirtec-dev/portal-backend/internal/provider"
)

// Severity tags a transient status message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is a transient user-visible message. Profile-fetch failures surface
// here instead of being silently dropped.
type Notice struct {
	Text string   `json:"text"`
	Type Severity `json:"type"`
}

const profileFetchFailedText = "Não foi possível carregar seu perfil."

// Snapshot is a read-only view of the state held for one session token.
// Session and Profile may each be nil; a nil Profile alongside a live Session
// means the profile fetch is pending or failed and callers must render a
// placeholder, never stale data.
type Snapshot struct {
	Session *provider.Session
	Profile *provider.Profile
	Notice  *Notice
}

// Authenticated reports whether the snapshot carries a live session.
func (s Snapshot) Authenticated() bool { return s.Session != nil }

// entry is the per-token state slot. generation increases on every accepted
// update; asynchronous completions carry the generation they started from and
// are discarded if the slot has moved on, so a slow initial session check can
// never overwrite newer state with stale data.
type entry struct {
	generation uint64
	session    *provider.Session
	profile    *provider.Profile
	notice     *Notice
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{Session: e.session, Profile: e.profile, Notice: e.notice}
}

type Bootstrapper struct {
	provider provider.IdentityProvider

	mu      sync.Mutex
	entries map[string]*entry

	// now is swappable so tests can drive session expiry.
	now func() time.Time

	sub       *provider.Subscription
	closeOnce sync.Once
}

// New registers the single long-lived session-change listener with the
// provider. Close releases it; call Close exactly once at teardown.
func New(p provider.IdentityProvider) *Bootstrapper {
	b := &Bootstrapper{
		provider: p,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
	b.sub = p.Subscribe(b.handleEvent)
	return b
}

// Close releases the change-event subscription. Safe to call more than once;
// only the first call does anything.
func (b *Bootstrapper) Close() {
	b.closeOnce.Do(b.sub.Unsubscribe)
}

// Resolve returns the state for token, performing the provider session check
// and profile fetch when the token has no live slot yet. A cached session
// whose expiry has passed is not served; it goes back through the provider
// check, which pushes the signed_out transition for providers that expire
// lazily. An empty token or an absent session resolves to the unauthenticated
// snapshot, which is also the safe default while a check is still in flight.
func (b *Bootstrapper) Resolve(ctx context.Context, token string) Snapshot {
	if token == "" {
		return Snapshot{}
	}

	b.mu.Lock()
	if e, ok := b.entries[token]; ok && e.session != nil && !b.expired(e.session) {
		snap := e.snapshot()
		b.mu.Unlock()
		return snap
	}
	e, ok := b.entries[token]
	if !ok {
		e = &entry{}
		b.entries[token] = e
	}
	e.generation++
	gen := e.generation
	b.mu.Unlock()

	session, err := b.provider.CurrentSession(ctx, token)
	if err != nil {
		log.Printf("[bootstrap] session check failed: %v", err)
	}
	if err != nil || session == nil {
		b.mu.Lock()
		if cur, ok := b.entries[token]; ok && cur.generation == gen {
			delete(b.entries, token)
		}
		b.mu.Unlock()
		return Snapshot{}
	}

	profile, perr := b.provider.FetchProfile(ctx, session.UserID)

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.entries[token]
	if !ok {
		// The slot was cleared (signed out) while we were resolving.
		return Snapshot{}
	}
	if cur.generation != gen {
		// A newer update already landed; this result is stale.
		return cur.snapshot()
	}

	cur.session = session
	if perr != nil {
		log.Printf("[bootstrap] profile fetch failed for %s: %v", session.UserID, perr)
		cur.notice = &Notice{Text: profileFetchFailedText, Type: SeverityError}
	} else {
		cur.profile = profile
		cur.notice = nil
	}
	return cur.snapshot()
}

// expired reports whether a cached session carries an expiry that has passed.
// Sessions cached without an expiry defer to the provider's own checks.
func (b *Bootstrapper) expired(s *provider.Session) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(b.now())
}

// handleEvent applies a pushed session change. Sign-in and refresh replace
// the session and re-trigger the profile fetch; sign-out clears both the
// session and the profile so the next user on a shared device can never see
// the previous user's data.
func (b *Bootstrapper) handleEvent(ev provider.Event) {
	switch ev.Type {
	case provider.EventSignedOut:
		b.mu.Lock()
		delete(b.entries, ev.Token)
		b.mu.Unlock()

	case provider.EventSignedIn, provider.EventRefreshed:
		b.mu.Lock()
		e, ok := b.entries[ev.Token]
		if !ok {
			e = &entry{}
			b.entries[ev.Token] = e
		}
		e.generation++
		gen := e.generation
		e.session = &provider.Session{Token: ev.Token, UserID: ev.UserID, ExpiresAt: ev.ExpiresAt}
		e.profile = nil
		e.notice = nil
		b.mu.Unlock()

		profile, err := b.provider.FetchProfile(context.Background(), ev.UserID)

		b.mu.Lock()
		if cur, ok := b.entries[ev.Token]; ok && cur.generation == gen {
			if err != nil {
				log.Printf("[bootstrap] profile fetch failed for %s: %v", ev.UserID, err)
				cur.notice = &Notice{Text: profileFetchFailedText, Type: SeverityError}
			} else {
				cur.profile = profile
			}
		}
		b.mu.Unlock()
	}
}
