package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/internal/utils"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// UserAdminDocs is the store surface for account administration.
type UserAdminDocs interface {
	Insert(ctx context.Context, u *models.User) (string, error)
	GetByID(ctx context.Context, uid string) (*models.User, error)
	List(ctx context.Context, byPoints bool) ([]models.User, error)
	SetFields(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
}

// ContributionReader serves the dashboard's recent-activity feed.
type ContributionReader interface {
	ListForUID(ctx context.Context, uid string, limit int) ([]models.Contribution, error)
}

// UserService owns account administration, the leaderboard, and the
// member dashboard.
type UserService struct {
	users    UserAdminDocs
	contribs ContributionReader
}

func NewUserService(users UserAdminDocs, contribs ContributionReader) *UserService {
	return &UserService{users: users, contribs: contribs}
}

type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Committee string `json:"committee"`
	IsAdmin   bool   `json:"is_admin"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Committee  *string `json:"committee"`
	IsAdmin    *bool   `json:"is_admin"`
	Points     *int    `json:"points"`
	MemoTokens *int    `json:"memo_tokens"`
}

// Create adds an account with an explicit role, for admin provisioning
// (board members get their accounts this way).
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
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
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "member"
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      role,
		Committee: strings.TrimSpace(req.Committee),
		IsAdmin:   req.IsAdmin,
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
	return s.Get(ctx, uid)
}

func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, response.NewNotFound("no such user")
	}
	return user, err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, false)
}

// Update applies a partial account edit. A points change recomputes the
// rank from the ladder in the same write.
func (s *UserService) Update(ctx context.Context, uid string, req *UpdateUserRequest) error {
	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return response.NewValidation("name must not be empty")
		}
		fields["name"] = name
	}
	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if role == "" {
			return response.NewValidation("role must not be empty")
		}
		fields["role"] = role
	}
	if req.Committee != nil {
		fields["committee"] = strings.TrimSpace(*req.Committee)
	}
	if req.IsAdmin != nil {
		fields["is_admin"] = *req.IsAdmin
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return response.NewValidation("points must not be negative")
		}
		fields["points"] = *req.Points
		fields["rank"] = utils.RankForPoints(*req.Points)
	}
	if req.MemoTokens != nil {
		if *req.MemoTokens < 0 {
			return response.NewValidation("memo_tokens must not be negative")
		}
		fields["memo_tokens"] = *req.MemoTokens
	}

	if len(fields) == 0 {
		return nil
	}

	err := s.users.SetFields(ctx, uid, fields)
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound("no such user")
	}
	return err
}

func (s *UserService) Delete(ctx context.Context, uid string) error {
	err := s.users.Delete(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound("no such user")
	}
	return err
}

// LeaderboardEntry is a public projection of a user: no email, no token
// balances.
type LeaderboardEntry struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Committee string `json:"committee,omitempty"`
	Points    int    `json:"points"`
	Rank      string `json:"rank"`
}

// Leaderboard returns all members ordered by points descending.
func (s *UserService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		entries = append(entries, LeaderboardEntry{
			UID:       u.UID(),
			Name:      u.Name,
			Committee: u.Committee,
			Points:    u.Points,
			Rank:      u.Rank,
		})
	}
	return entries, nil
}

// Dashboard is the caller's own account plus recent contributions.
type Dashboard struct {
	User          *models.User          `json:"user"`
	Contributions []models.Contribution `json:"contributions"`
}

func (s *UserService) DashboardFor(ctx context.Context, caller *models.Caller) (*Dashboard, error) {
	user, err := s.Get(ctx, caller.UID)
	if err != nil {
		return nil, err
	}

	contributions, err := s.contribs.ListForUID(ctx, caller.UID, 10)
	if err != nil {
		return nil, err
	}
	if contributions == nil {
		contributions = []models.Contribution{}
	}

	return &Dashboard{User: user, Contributions: contributions}, nil
}
