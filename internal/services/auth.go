package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/internal/utils"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

const resetTokenTTL = time.Hour

// AuthUserDocs is the store surface the auth flows need.
type AuthUserDocs interface {
	Insert(ctx context.Context, u *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	SetFields(ctx context.Context, uid string, fields map[string]any) error
	ClearResetToken(ctx context.Context, uid string) error
}

// AuthService owns registration, login, and the password reset flow.
// Session identity is a signed JWT in an http-only cookie; the auth gate
// trusts its claims without re-reading the user document.
type AuthService struct {
	users       AuthUserDocs
	expireHours int
}

func NewAuthService(users AuthUserDocs, expireHours int) *AuthService {
	return &AuthService{users: users, expireHours: expireHours}
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Committee string `json:"committee"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new member account. New accounts always start as
// role "member" with zero points; admin promotion is a separate, admin
// only operation.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, response.NewValidation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, response.NewValidation("password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// Accounts start with zero points and zero memo tokens; both are
	// granted by admins later.
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      "member",
		Committee: strings.TrimSpace(req.Committee),
		IsAdmin:   false,
		Points:    0,
		Rank:      utils.RankForPoints(0),
		Workshops: []string{},
		CreatedAt: time.Now().UTC(),
	}

	uid, err := s.users.Insert(ctx, user)
	if errors.Is(err, store.ErrStateConflict) {
		return nil, response.NewConflict("email is already registered")
	}
	if err != nil {
		return nil, err
	}

	created, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Error().Err(err).Str("uid", uid).Msg("read back created user failed")
		return user, nil
	}
	return created, nil
}

// Login verifies credentials and issues a session token for the cookie.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, response.NewUnauthenticated("invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return "", nil, response.NewUnauthenticated("invalid email or password")
	}

	token, err := utils.GenerateSessionToken(user.UID(), user.Email, user.Name, user.Role, user.IsAdmin, s.expireHours)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword issues a single-use reset token valid for one hour.
// Only a hash of the token is stored. An unknown email succeeds silently
// so the endpoint cannot be used to probe for accounts; the returned
// token is empty in that case.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	err = s.users.SetFields(ctx, user.UID(), map[string]any{
		"reset_token_hash":   hashResetToken(token),
		"reset_token_expiry": time.Now().UTC().Add(resetTokenTTL),
	})
	if err != nil {
		return "", err
	}

	logger.Info().Str("uid", user.UID()).Msg("password reset token issued")
	return token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return response.NewValidation("password must be at least 8 characters")
	}

	user, err := s.users.GetByResetToken(ctx, hashResetToken(token), time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return response.NewValidation("invalid or expired reset token")
	}
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetFields(ctx, user.UID(), map[string]any{"password": hash}); err != nil {
		return err
	}
	return s.users.ClearResetToken(ctx, user.UID())
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
