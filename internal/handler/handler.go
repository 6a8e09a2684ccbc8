package handler

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
)

// Pinger is the database health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FeedStatus reports the health of the change feed.
type FeedStatus interface {
	Status() realtime.Status
}

type Handler struct {
	db             Pinger
	feed           FeedStatus
	allowedOrigins []string
}

// New creates the base handler. allowedOrigins lists the public site and
// the admin console.
func New(db Pinger, allowedOrigins ...string) *Handler {
	return &Handler{db: db, allowedOrigins: allowedOrigins}
}

// WithFeed adds the change feed status to the health report.
func (h *Handler) WithFeed(feed FeedStatus) *Handler {
	h.feed = feed
	return h
}

// OriginAllowed reports whether origin may call the API with credentials.
func (h *Handler) OriginAllowed(origin string) bool {
	return origin != "" && slices.Contains(h.allowedOrigins, origin)
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		if origin := r.Header.Get("Origin"); h.OriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Recover answers a panicking handler with 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", v,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
