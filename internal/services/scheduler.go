package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/pkg/logger"
)

// SchedulerProjects is the store surface the overdue sweep needs.
type SchedulerProjects interface {
	ListOverdue(ctx context.Context, now time.Time) ([]models.Project, error)
	SetFields(ctx context.Context, id string, fields map[string]any) error
}

// Scheduler runs the daily overdue-project sweep: approved, unfinished
// projects past their timeframe end get one admin notification each.
type Scheduler struct {
	cron     *cron.Cron
	projects SchedulerProjects
	notifier Notifier
}

func NewScheduler(projects SchedulerProjects, notifier Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		projects: projects,
		notifier: notifier,
	}
}

// Start registers the sweep at 02:00 every day and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 2 * * *", s.SweepOverdue); err != nil {
		return fmt.Errorf("register overdue sweep: %w", err)
	}
	s.cron.Start()
	logger.Info().Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SweepOverdue flags each newly overdue project and notifies the admins.
// notified_admin keeps a project from being reported twice.
func (s *Scheduler) SweepOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()
	overdue, err := s.projects.ListOverdue(ctx, now)
	if err != nil {
		logger.Error().Err(err).Msg("overdue sweep query failed")
		return
	}

	for i := range overdue {
		p := &overdue[i]
		id := p.ID.Hex()

		if err := s.projects.SetFields(ctx, id, map[string]any{"notified_admin": true}); err != nil {
			logger.Error().Err(err).Str("project_id", id).Msg("flag overdue project failed")
			continue
		}

		s.notifier.Emit(ctx, &models.Notification{
			Title:     "Project overdue",
			Message:   fmt.Sprintf("Project %q by %s passed its timeframe end without completion.", p.Title, p.Author),
			Type:      models.NotificationAdmin,
			ToEmail:   models.AdminAudience,
			ProjectID: id,
		})
	}

	if len(overdue) > 0 {
		logger.Info().Int("count", len(overdue)).Msg("overdue sweep flagged projects")
	}
}
