package provider

import "time"

// Session is proof of authentication issued by the identity provider.
// The application holds a read-only, possibly-absent reference to it.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// User is the authentication identity, distinct from the profile record.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
}

// Profile is the business-data row describing a person, keyed by user id.
type Profile struct {
	UserID       string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BirthDate    string `json:"birth_date"`
	Registration string `json:"registration"`
	Position     string `json:"position"`
	Unit         string `json:"unit"`
}

// ProfileMeta is the account metadata collected at sign-up time. It is the
// only write path for profile data in this application.
type ProfileMeta struct {
	Name         string `json:"name"`
	BirthDate    string `json:"birth_date"`
	Registration string `json:"registration"`
	Position     string `json:"position"`
	Unit         string `json:"unit"`
}

// EventType classifies session lifecycle transitions pushed to subscribers.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventRefreshed EventType = "refreshed"
)

// Event is a session change notification. Token identifies which session
// transitioned; UserID and ExpiresAt are set for signed_in/refreshed events so
// listeners can cache the session without another provider read.
type Event struct {
	Type      EventType
	Token     string
	UserID    string
	ExpiresAt time.Time
}
