package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
	"github.com/Gilson1506/CCALLASPROJET/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL は セッションの既定の有効期間
const DefaultSessionTTL = 7 * 24 * time.Hour

const minPasswordLen = 8

// AuthService は認証に関するビジネスロジックのインターフェース
type AuthService interface {
	// Login checks the password and opens a session.
	Login(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	Logout(ctx context.Context, token string) error
	// ValidateSession implements auth.SessionValidator.
	ValidateSession(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
	// IsAdmin reports whether the user's email is listed in admin_users.
	IsAdmin(ctx context.Context, userID string) (bool, error)
	CreateAdmin(ctx context.Context, email, name, password string) (*model.User, error)
	// PurgeExpired deletes sessions past their expiry.
	PurgeExpired(ctx context.Context) (int64, error)
}

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService は AuthServiceImpl を生成する。ttl が 0 以下なら DefaultSessionTTL
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration) *AuthServiceImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthServiceImpl{users: users, sessions: sessions, ttl: ttl, now: time.Now}
}

var _ AuthService = (*AuthServiceImpl)(nil)
var _ auth.SessionValidator = (*AuthServiceImpl)(nil)

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Info("login rejected", "email", email, "reason", "unknown_email")
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		slog.Info("login rejected", "email", email, "reason", "password_mismatch")
		return nil, nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		slog.Error("create session failed", "user_id", u.ID, "error", err)
		return nil, nil, err
	}
	slog.Info("login succeeded", "user_id", u.ID)
	return session, u, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

func (s *AuthServiceImpl) ValidateSession(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidSession
	}
	if err != nil {
		return "", err
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.DeleteByToken(ctx, token)
		return "", ErrInvalidSession
	}
	return session.UserID, nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) IsAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.users.IsAdmin(ctx, u.Email)
}

// CreateAdmin creates a user with a bcrypt password hash and lists its
// email in admin_users.
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, email, name, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := model.Validate(struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}{email, password}); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, &model.ValidationError{Field: "password", Rule: "min"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Email: email, Name: name, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.users.GrantAdmin(ctx, u.Email); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		slog.Error("purge expired sessions failed", "error", err)
		return 0, err
	}
	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}
	return n, nil
}
