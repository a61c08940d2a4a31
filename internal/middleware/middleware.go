package middleware

import (
	"context"
	"net/http"

	"github.com/sirtec-dev/portal-backend/internal/bootstrap"
	"github.com/sirtec-dev/portal-backend/internal/utils"
)

// SessionResolver resolves a session token to the state held for it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) bootstrap.Snapshot
}

func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}

			snap := resolver.Resolve(r.Context(), cookie.Value)
			if !snap.Authenticated() {
				http.Error(w, "Session expired or invalid", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, snap.Session.UserID)
			ctx = context.WithValue(ctx, utils.ContextSessionTokenKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:5173":            {},
	"http://localhost:5174":            {},
	"https://portal.sirtec.com.br":     {},
	"https://portal-dev.sirtec.com.br": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
