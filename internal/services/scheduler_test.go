package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhq/clubhub/backend/internal/models"
)

type fakeSweepProjects struct {
	overdue []models.Project
	flagged map[string]bool
}

func (f *fakeSweepProjects) ListOverdue(_ context.Context, now time.Time) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.overdue {
		if !f.flagged[p.ID.Hex()] && p.TimeframeEnd.Before(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSweepProjects) SetFields(_ context.Context, id string, fields map[string]any) error {
	if v, ok := fields["notified_admin"]; ok && v.(bool) {
		f.flagged[id] = true
	}
	return nil
}

func TestSweepOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	projects := &fakeSweepProjects{
		overdue: []models.Project{
			{ID: primitive.NewObjectID(), Title: "Late", Author: "Alice", TimeframeEnd: past},
			{ID: primitive.NewObjectID(), Title: "On time", Author: "Bob", TimeframeEnd: future},
		},
		flagged: map[string]bool{},
	}
	notifier := &notifierSpy{}

	s := NewScheduler(projects, notifier)
	s.SweepOverdue()

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.ToEmail != models.AdminAudience || n.Type != models.NotificationAdmin {
		t.Errorf("overdue notification must target the admin audience: %+v", n)
	}
	if !projects.flagged[projects.overdue[0].ID.Hex()] {
		t.Errorf("overdue project not flagged")
	}

	// A second sweep reports nothing new.
	s.SweepOverdue()
	if len(notifier.sent) != 1 {
		t.Errorf("flagged project reported twice")
	}
}
