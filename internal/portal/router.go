package portal

// Tab is the selected bottom-navigation tab, a closed set. Selection is a
// plain overwrite of local view-state; switching tabs has no side effects.
type Tab string

const (
	TabHome      Tab = "home"
	TabNews      Tab = "news"
	TabDocuments Tab = "documents"
	TabProfile   Tab = "profile"
)

// ParseTab maps a raw tab value to a member of the closed set. Anything
// unknown falls back to home.
func ParseTab(raw string) Tab {
	switch Tab(raw) {
	case TabNews, TabDocuments, TabProfile:
		return Tab(raw)
	default:
		return TabHome
	}
}

// View identifies the exactly-one panel rendered for a given state.
type View string

const (
	ViewAuthForm       View = "auth_form"
	ViewHome           View = "home"
	ViewNews           View = "news"
	ViewDocuments      View = "documents"
	ViewProfile        View = "profile"
	ViewProfilePending View = "profile_pending"
)

// Route is a pure function of (session presence, selected tab, profile
// presence) to exactly one view. Without a session the auth form always wins,
// regardless of tab or profile state. The profile tab before the profile has
// loaded routes to a loading placeholder, never to stale data.
func Route(authenticated bool, tab Tab, profileLoaded bool) View {
	if !authenticated {
		return ViewAuthForm
	}

	switch tab {
	case TabNews:
		return ViewNews
	case TabDocuments:
		return ViewDocuments
	case TabProfile:
		if !profileLoaded {
			return ViewProfilePending
		}
		return ViewProfile
	default:
		return ViewHome
	}
}
