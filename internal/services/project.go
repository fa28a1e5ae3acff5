package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/internal/utils"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// ProjectDocs is the slice of the document store the lifecycle needs.
// *store.ProjectStore implements it; tests substitute an in-memory fake.
type ProjectDocs interface {
	Insert(ctx context.Context, p *models.Project) (string, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, approved *bool) ([]models.Project, error)
	SetFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, points int) error
	SetDeclined(ctx context.Context, id, reason string) error
	AddPendingMember(ctx context.Context, id, uid string) error
	RemovePendingMember(ctx context.Context, id, uid string) error
	PromoteMember(ctx context.Context, id, uid, name string) error
	SetCompletionRequested(ctx context.Context, id, requester string, at time.Time) error
	ApproveCompletion(ctx context.Context, id string, at time.Time) error
	DeclineCompletion(ctx context.Context, id, reason string) error
}

// UserDocs resolves uids to user records.
type UserDocs interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// ContributionLog is the append-only audit trail of approved involvement.
type ContributionLog interface {
	Append(ctx context.Context, c *models.Contribution) error
}

// Notifier delivers lifecycle notifications. Best-effort: implementations
// must never fail the calling operation.
type Notifier interface {
	Emit(ctx context.Context, n *models.Notification)
}

// ProjectService owns the project lifecycle: creation, admin approval and
// decline, join requests, membership decisions, and the completion
// workflow.
type ProjectService struct {
	projects ProjectDocs
	users    UserDocs
	contribs ContributionLog
	notifier Notifier
}

func NewProjectService(projects ProjectDocs, users UserDocs, contribs ContributionLog, notifier Notifier) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		contribs: contribs,
		notifier: notifier,
	}
}

type CreateProjectRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Committee       string `json:"committee"`
	Timeframe       string `json:"project_timeframe"`
	RequiredMembers int    `json:"required_members"`
	GitHub          string `json:"github"`
}

type UpdateProjectRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Committee       *string `json:"committee"`
	Timeframe       *string `json:"project_timeframe"`
	RequiredMembers *int    `json:"required_members"`
	GitHub          *string `json:"github"`
}

// Create validates the request and persists a new project in its initial
// state: unapproved, no members, no points.
func (s *ProjectService) Create(ctx context.Context, caller *models.Caller, req *CreateProjectRequest) (string, error) {
	if caller == nil {
		return "", response.NewUnauthenticated("authentication required")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", response.NewValidation("title is required")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return "", response.NewValidation("description is required")
	}
	end, err := parseTimeframe(req.Timeframe)
	if err != nil {
		return "", err
	}
	committee := strings.TrimSpace(req.Committee)
	if committee == "" {
		return "", response.NewValidation("committee is required")
	}
	if req.RequiredMembers < 1 {
		return "", response.NewValidation("required_members must be at least 1")
	}

	project := &models.Project{
		Title:           title,
		Description:     description,
		Author:          caller.Name,
		AuthorEmail:     caller.Email,
		Committee:       committee,
		GitHub:          strings.TrimSpace(req.GitHub),
		Timeframe:       strings.TrimSpace(req.Timeframe),
		TimeframeEnd:    end,
		RequiredMembers: req.RequiredMembers,
		Members:         []string{},
		UnknownMembers:  []string{},
		Points:          0,
		IsApproved:      false,
		CreatedAt:       time.Now().UTC(),
	}

	id, err := s.projects.Insert(ctx, project)
	if err != nil {
		return "", err
	}
	return id, nil
}

// List returns projects, optionally filtered on approval state.
func (s *ProjectService) List(ctx context.Context, approved *bool) ([]models.Project, error) {
	return s.projects.List(ctx, approved)
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, response.NewNotFound("no such project")
	}
	return project, err
}

// Update applies a partial edit. Only fields present in the request
// change; omitted fields keep their prior values. Author or admin only.
func (s *ProjectService) Update(ctx context.Context, caller *models.Caller, id string, req *UpdateProjectRequest) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanEdit(project.AuthorEmail) {
		return response.NewForbidden("only the author or an admin may edit this project")
	}

	fields := map[string]any{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return response.NewValidation("title must not be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return response.NewValidation("description must not be empty")
		}
		fields["description"] = description
	}
	if req.Committee != nil {
		committee := strings.TrimSpace(*req.Committee)
		if committee == "" {
			return response.NewValidation("committee must not be empty")
		}
		fields["committee"] = committee
	}
	if req.Timeframe != nil {
		end, err := parseTimeframe(*req.Timeframe)
		if err != nil {
			return err
		}
		fields["project_timeframe"] = strings.TrimSpace(*req.Timeframe)
		fields["timeframe_end"] = end
	}
	if req.RequiredMembers != nil {
		if *req.RequiredMembers < 1 {
			return response.NewValidation("required_members must be at least 1")
		}
		if *req.RequiredMembers < len(project.Members) {
			return response.NewValidation("required_members must not be below the current member count")
		}
		fields["required_members"] = *req.RequiredMembers
	}
	if req.GitHub != nil {
		fields["github"] = strings.TrimSpace(*req.GitHub)
	}

	if len(fields) == 0 {
		return nil
	}
	return s.storeErr(s.projects.SetFields(ctx, id, fields), "")
}

// Delete removes a project. Admin only.
func (s *ProjectService) Delete(ctx context.Context, caller *models.Caller, id string) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}
	return s.storeErr(s.projects.Delete(ctx, id), "")
}

// Approve marks the project approved and assigns its points. Admin only.
// Re-approving an approved (or declined) project is rejected.
func (s *ProjectService) Approve(ctx context.Context, caller *models.Caller, id string, points *int) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}
	if points == nil {
		return response.NewValidation("points is required")
	}
	if *points < 0 {
		return response.NewValidation("points must not be negative")
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.SetApproved(ctx, id, *points); err != nil {
		return s.storeErr(err, "project is already approved or declined")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Project approved",
		Message:   fmt.Sprintf("Your project %q was approved for %d points.", project.Title, *points),
		Type:      models.NotificationInfo,
		ToEmail:   project.AuthorEmail,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// Decline marks the project declined with a reason. Admin only. The
// project document is kept, never deleted.
func (s *ProjectService) Decline(ctx context.Context, caller *models.Caller, id, reason string) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return response.NewValidation("reason is required")
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.SetDeclined(ctx, id, reason); err != nil {
		return s.storeErr(err, "an approved project cannot be declined")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Project declined",
		Message:   fmt.Sprintf("Your project %q was declined: %s", project.Title, reason),
		Type:      models.NotificationInfo,
		ToEmail:   project.AuthorEmail,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// RequestJoin records the caller's join request in unknown_members.
func (s *ProjectService) RequestJoin(ctx context.Context, caller *models.Caller, id string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if project.IsFull() {
		return response.NewConflict("project is full")
	}
	if project.HasPending(caller.UID) {
		return response.NewConflict("join request already pending")
	}
	if project.HasMember(caller.Name) {
		return response.NewConflict("already a member of this project")
	}

	// The filter re-checks capacity and duplicates so concurrent joins
	// cannot overshoot.
	if err := s.projects.AddPendingMember(ctx, id, caller.UID); err != nil {
		return s.storeErr(err, "project is full")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "New join request",
		Message:   fmt.Sprintf("%s (%s, uid %s) wants to join %q.", caller.Name, caller.Email, caller.UID, project.Title),
		Type:      models.NotificationApproval,
		ToEmail:   project.AuthorEmail,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// ApproveMember moves a pending uid into the member list, appends the
// audit record, and notifies the member. Author or admin only. Members
// holds display names; the uid only ever lives in unknown_members.
func (s *ProjectService) ApproveMember(ctx context.Context, caller *models.Caller, id, uid string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanEdit(project.AuthorEmail) {
		return response.NewForbidden("only the author or an admin may approve members")
	}

	user, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound("no such user")
	}
	if err != nil {
		return err
	}

	if project.HasMember(user.Name) {
		// Already promoted; clearing a stale pending entry is a no-op.
		return s.storeErr(s.projects.RemovePendingMember(ctx, id, uid), "")
	}

	if err := s.projects.PromoteMember(ctx, id, uid, user.Name); err != nil {
		return s.storeErr(err, "project is full")
	}

	contribution := &models.Contribution{
		UID:          uid,
		ProjectID:    id,
		ProjectTitle: project.Title,
		Points:       project.Points,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.contribs.Append(ctx, contribution); err != nil {
		// The membership change already happened; the audit write is a
		// separate document and surfaces its own failure (see retry
		// semantics: the whole request can be re-run, promotion is a
		// no-op the second time).
		return err
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Join request approved",
		Message:   fmt.Sprintf("You are now a member of %q.", project.Title),
		Type:      models.NotificationInfo,
		ToEmail:   user.Email,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// DeclineMember drops a pending join request. Admin only. Removing an
// absent uid is a no-op. No notification is emitted for declines.
func (s *ProjectService) DeclineMember(ctx context.Context, caller *models.Caller, id, uid string) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}
	return s.storeErr(s.projects.RemovePendingMember(ctx, id, uid), "")
}

// RequestCompletion opens a completion request. Author only.
func (s *ProjectService) RequestCompletion(ctx context.Context, caller *models.Caller, id string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if caller.Email != project.AuthorEmail {
		return response.NewForbidden("only the author may request completion")
	}
	if project.IsCompleted {
		return response.NewConflict("project is already completed")
	}
	if project.CompletionRequested {
		return response.NewConflict("completion already requested")
	}

	if err := s.projects.SetCompletionRequested(ctx, id, caller.Email, time.Now().UTC()); err != nil {
		return s.storeErr(err, "completion already requested")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Completion requested",
		Message:   fmt.Sprintf("%s requests completion of %q.", caller.Name, project.Title),
		Type:      models.NotificationAdmin,
		ToEmail:   models.AdminAudience,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// ApproveCompletion closes a pending completion request and marks the
// project completed in a single document update. Admin only.
func (s *ProjectService) ApproveCompletion(ctx context.Context, caller *models.Caller, id string) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.ApproveCompletion(ctx, id, time.Now().UTC()); err != nil {
		return s.storeErr(err, "no pending completion request")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Project completed",
		Message:   fmt.Sprintf("Completion of %q was approved.", project.Title),
		Type:      models.NotificationInfo,
		ToEmail:   project.AuthorEmail,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// DeclineCompletion clears a pending completion request with a reason.
// Admin only. The project stays incomplete and may request again.
func (s *ProjectService) DeclineCompletion(ctx context.Context, caller *models.Caller, id, reason string) error {
	if !caller.IsAdmin {
		return response.NewForbidden("admin access required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return response.NewValidation("reason is required")
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.DeclineCompletion(ctx, id, reason); err != nil {
		return s.storeErr(err, "no pending completion request")
	}

	s.notifier.Emit(ctx, &models.Notification{
		Title:     "Completion declined",
		Message:   fmt.Sprintf("Completion of %q was declined: %s", project.Title, reason),
		Type:      models.NotificationInfo,
		ToEmail:   project.AuthorEmail,
		FromEmail: caller.Email,
		ProjectID: id,
	})
	return nil
}

// storeErr maps store sentinels onto the API error taxonomy. conflictMsg
// names the violated precondition for ErrStateConflict.
func (s *ProjectService) storeErr(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return response.NewNotFound("no such project")
	case errors.Is(err, store.ErrStateConflict):
		if conflictMsg == "" {
			conflictMsg = "project state does not allow this operation"
		}
		return response.NewConflict(conflictMsg)
	default:
		logger.Error().Err(err).Msg("project store operation failed")
		return err
	}
}

func parseTimeframe(tf string) (time.Time, error) {
	end, err := utils.ParseTimeframe(tf)
	if err != nil {
		return time.Time{}, response.NewValidation(err.Error())
	}
	return end, nil
}
