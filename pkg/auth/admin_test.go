package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func runAdminMiddleware(t *testing.T, lookup AdminLookup, userID string) bool {
	t.Helper()
	var gotIsAdmin bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIsAdmin = IsAdminFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	AdminMiddleware(lookup)(inner).ServeHTTP(httptest.NewRecorder(), req)
	return gotIsAdmin
}

func TestAdminMiddleware_ListedUser_SetsAdminTrue(t *testing.T) {
	lookup := func(ctx context.Context, userID string) (bool, error) {
		return userID == "user-1", nil
	}
	if !runAdminMiddleware(t, lookup, "user-1") {
		t.Error("expected IsAdmin=true for listed user")
	}
	if runAdminMiddleware(t, lookup, "user-2") {
		t.Error("expected IsAdmin=false for unlisted user")
	}
}

func TestAdminMiddleware_NoUserID_SkipsLookup(t *testing.T) {
	lookup := func(ctx context.Context, userID string) (bool, error) {
		t.Error("lookup should not be called when no userID")
		return true, nil
	}
	if runAdminMiddleware(t, lookup, "") {
		t.Error("expected IsAdmin=false when no userID in context")
	}
}

func TestAdminMiddleware_LookupError_SetsAdminFalse(t *testing.T) {
	lookup := func(ctx context.Context, userID string) (bool, error) {
		return true, errors.New("db error")
	}
	if runAdminMiddleware(t, lookup, "user-1") {
		t.Error("expected IsAdmin=false when lookup returns error")
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without admin flag, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithIsAdmin(req.Context(), true))
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 with admin flag, got %d", rec.Code)
	}
}
