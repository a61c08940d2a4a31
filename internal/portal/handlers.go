package portal

import (
	"encoding/json"
	"net/http"

	"github.com/sirtec-dev/portal-backend/internal/bootstrap"
	"github.com/sirtec-dev/portal-backend/internal/content"
	"github.com/sirtec-dev/portal-backend/internal/provider"
)

// placeholder stands in for profile fields the collaborator never filled in.
const placeholder = "Não informado"

type Handler struct {
	Bootstrapper *bootstrap.Bootstrapper
	Catalog      *content.Catalog
}

// ProfilePayload is the profile panel's view of the profile record, with
// placeholders applied to blank fields.
type ProfilePayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Registration string `json:"registration"`
	BirthDate    string `json:"birth_date"`
	Position     string `json:"position"`
	Unit         string `json:"unit"`
}

// ViewResponse carries exactly one panel's payload. Only the fields for the
// routed view are populated.
type ViewResponse struct {
	View          View                   `json:"view"`
	Tab           Tab                    `json:"tab,omitempty"`
	Notice        *bootstrap.Notice      `json:"notice,omitempty"`
	Units         []string               `json:"units,omitempty"`
	Announcements []content.Announcement `json:"announcements,omitempty"`
	News          []content.NewsItem     `json:"news,omitempty"`
	Documents     []content.DocumentLink `json:"documents,omitempty"`
	Profile       *ProfilePayload        `json:"profile,omitempty"`
}

// ViewHandler resolves the caller's session state, routes it together with
// the requested tab, and answers the one panel the frontend should render.
// Panel content comes from the in-memory catalog; switching tabs performs no
// provider call beyond the cached snapshot.
func (h *Handler) ViewHandler(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie("session_id"); err == nil {
		token = cookie.Value
	}

	snap := h.Bootstrapper.Resolve(r.Context(), token)
	tab := ParseTab(r.URL.Query().Get("tab"))
	view := Route(snap.Authenticated(), tab, snap.Profile != nil)

	response := ViewResponse{View: view, Notice: snap.Notice}
	if view != ViewAuthForm {
		response.Tab = tab
	}

	switch view {
	case ViewAuthForm:
		// The sign-up mode of the form needs the unit enumeration.
		response.Units = h.Catalog.Units.Names()
		response.Notice = nil
	case ViewHome:
		response.Announcements = h.Catalog.Announcements
	case ViewNews:
		response.News = h.Catalog.News
	case ViewDocuments:
		response.Documents = h.Catalog.Documents
	case ViewProfile:
		response.Profile = profilePayload(snap.Profile)
	case ViewProfilePending:
		// Loading placeholder: no profile payload, never stale data.
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func profilePayload(p *provider.Profile) *ProfilePayload {
	return &ProfilePayload{
		Name:         orPlaceholder(p.Name),
		Email:        orPlaceholder(p.Email),
		Registration: orPlaceholder(p.Registration),
		BirthDate:    orPlaceholder(p.BirthDate),
		Position:     orPlaceholder(p.Position),
		Unit:         orPlaceholder(p.Unit),
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
