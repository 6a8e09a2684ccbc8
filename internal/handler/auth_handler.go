package handler

import (
	"log/slog"
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
	"github.com/Gilson1506/CCALLASPROJET/pkg/auth"
)

// AuthHandler は メール+パスワードのログインとセッションを扱うハンドラ
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler は AuthHandler を生成する。secureCookies は本番 (HTTPS) で true
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// meResponse は GET /api/me と POST /api/auth/login のレスポンス
type meResponse struct {
	Authenticated bool        `json:"authenticated"`
	Authorized    bool        `json:"authorized"`
	User          *model.User `json:"user,omitempty"`
}

// Login は POST /api/auth/login を処理する
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "login_failed")
		return
	}
	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)

	isAdmin, err := h.authService.IsAdmin(r.Context(), user.ID)
	if err != nil {
		slog.Error("admin lookup failed", "user_id", user.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, Authorized: isAdmin, User: user})
}

// Logout は POST /api/auth/logout を処理する。セッションが無くても 204
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			slog.Error("logout failed", "error", err)
		}
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// Me は GET /api/me を処理する。OptionalAuth と AdminMiddleware の後に置く
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}
	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "me_failed")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		Authenticated: true,
		Authorized:    auth.IsAdminFromContext(r.Context()),
		User:          user,
	})
}
