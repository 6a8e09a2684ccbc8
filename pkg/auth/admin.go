package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

const isAdminKey contextKey = "is_admin"

// WithIsAdmin stores the admin flag in the context.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// IsAdminFromContext returns whether the authenticated user is authorized
// for the admin console. Returns false when not set.
func IsAdminFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(isAdminKey).(bool)
	return v
}

// AdminLookup reports whether the user is listed as an administrator.
type AdminLookup func(ctx context.Context, userID string) (bool, error)

// AdminMiddleware sets the admin flag for the user in the context.
// Lookup failures are logged and leave the flag false.
func AdminMiddleware(lookup AdminLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok || userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			isAdmin, err := lookup(r.Context(), userID)
			if err != nil {
				slog.Error("admin lookup failed", "user_id", userID, "error", err)
				isAdmin = false
			}
			next.ServeHTTP(w, r.WithContext(WithIsAdmin(r.Context(), isAdmin)))
		})
	}
}

// RequireAdmin rejects requests whose context does not carry the admin flag.
// It must run after RequireAuth and AdminMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdminFromContext(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
