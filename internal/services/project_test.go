package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// fakeProjects mimics the document store's guarded updates: every state
// transition re-checks its precondition and fails with ErrStateConflict
// the way a zero-match filtered update does.
type fakeProjects struct {
	docs map[string]*models.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{docs: map[string]*models.Project{}}
}

func (f *fakeProjects) Insert(_ context.Context, p *models.Project) (string, error) {
	p.ID = primitive.NewObjectID()
	cp := *p
	f.docs[p.ID.Hex()] = &cp
	return p.ID.Hex(), nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.Members = append([]string{}, p.Members...)
	cp.UnknownMembers = append([]string{}, p.UnknownMembers...)
	return &cp, nil
}

func (f *fakeProjects) List(_ context.Context, approved *bool) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.docs {
		if approved != nil && p.IsApproved != *approved {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjects) SetFields(_ context.Context, id string, fields map[string]any) error {
	p, ok := f.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "committee":
			p.Committee = v.(string)
		case "github":
			p.GitHub = v.(string)
		case "project_timeframe":
			p.Timeframe = v.(string)
		case "timeframe_end":
			p.TimeframeEnd = v.(time.Time)
		case "required_members":
			p.RequiredMembers = v.(int)
		case "notified_admin":
			p.NotifiedAdmin = v.(bool)
		}
	}
	return nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeProjects) SetApproved(_ context.Context, id string, points int) error {
	p, ok := f.docs[id]
	if !ok || p.IsApproved || p.IsDeclined {
		return store.ErrStateConflict
	}
	p.IsApproved = true
	p.Points = points
	return nil
}

func (f *fakeProjects) SetDeclined(_ context.Context, id, reason string) error {
	p, ok := f.docs[id]
	if !ok || p.IsApproved {
		return store.ErrStateConflict
	}
	p.IsDeclined = true
	p.DeclineReason = reason
	return nil
}

func (f *fakeProjects) AddPendingMember(_ context.Context, id, uid string) error {
	p, ok := f.docs[id]
	if !ok || p.IsFull() || p.HasPending(uid) {
		return store.ErrStateConflict
	}
	p.UnknownMembers = append(p.UnknownMembers, uid)
	return nil
}

func (f *fakeProjects) RemovePendingMember(_ context.Context, id, uid string) error {
	p, ok := f.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	out := p.UnknownMembers[:0]
	for _, m := range p.UnknownMembers {
		if m != uid {
			out = append(out, m)
		}
	}
	p.UnknownMembers = out
	return nil
}

func (f *fakeProjects) PromoteMember(_ context.Context, id, uid, name string) error {
	p, ok := f.docs[id]
	if !ok || p.IsFull() {
		return store.ErrStateConflict
	}
	_ = f.RemovePendingMember(context.Background(), id, uid)
	if !p.HasMember(name) {
		p.Members = append(p.Members, name)
	}
	return nil
}

func (f *fakeProjects) SetCompletionRequested(_ context.Context, id, requester string, at time.Time) error {
	p, ok := f.docs[id]
	if !ok || p.IsCompleted || p.CompletionRequested {
		return store.ErrStateConflict
	}
	p.CompletionRequested = true
	p.CompletionRequester = requester
	p.CompletionRequestDate = &at
	return nil
}

func (f *fakeProjects) ApproveCompletion(_ context.Context, id string, at time.Time) error {
	p, ok := f.docs[id]
	if !ok || !p.CompletionRequested {
		return store.ErrStateConflict
	}
	p.IsCompleted = true
	p.CompletionRequested = false
	p.CompletedAt = &at
	return nil
}

func (f *fakeProjects) DeclineCompletion(_ context.Context, id, reason string) error {
	p, ok := f.docs[id]
	if !ok || !p.CompletionRequested {
		return store.ErrStateConflict
	}
	p.CompletionRequested = false
	p.CompletionDeclineReason = reason
	return nil
}

type fakeUsers struct {
	byID map[string]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, uid string) (*models.User, error) {
	u, ok := f.byID[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type fakeContribs struct {
	entries []*models.Contribution
}

func (f *fakeContribs) Append(_ context.Context, c *models.Contribution) error {
	f.entries = append(f.entries, c)
	return nil
}

type notifierSpy struct {
	sent []*models.Notification
}

func (n *notifierSpy) Emit(_ context.Context, msg *models.Notification) {
	n.sent = append(n.sent, msg)
}

func (n *notifierSpy) lastTo() string {
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].ToEmail
}

// --- test fixture ---

var (
	admin  = &models.Caller{UID: "admin-1", Email: "prez@club.org", Name: "Prez", Role: "president", IsAdmin: true}
	author = &models.Caller{UID: "author-1", Email: "alice@club.org", Name: "Alice", Role: "member"}
	member = &models.Caller{UID: "member-1", Email: "bob@club.org", Name: "Bob", Role: "member"}
)

type fixture struct {
	svc      *ProjectService
	projects *fakeProjects
	contribs *fakeContribs
	notifier *notifierSpy
}

func newFixture() *fixture {
	projects := newFakeProjects()
	users := &fakeUsers{byID: map[string]*models.User{
		"member-1": {ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@club.org"},
		"member-2": {ID: primitive.NewObjectID(), Name: "Carol", Email: "carol@club.org"},
	}}
	contribs := &fakeContribs{}
	notifier := &notifierSpy{}

	return &fixture{
		svc:      NewProjectService(projects, users, contribs, notifier),
		projects: projects,
		contribs: contribs,
		notifier: notifier,
	}
}

func (fx *fixture) create(t *testing.T) string {
	t.Helper()
	id, err := fx.svc.Create(context.Background(), author, &CreateProjectRequest{
		Title:           "Robot Workshop",
		Description:     "Build a line follower",
		Committee:       "robotics",
		Timeframe:       "2026-09-01..2026-12-01",
		RequiredMembers: 2,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return id
}

func (fx *fixture) mustGet(t *testing.T, id string) *models.Project {
	t.Helper()
	p, err := fx.svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	return p
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if !response.IsStatus(err, status) {
		t.Fatalf("expected status %d, got error %v", status, err)
	}
}

// --- tests ---

func TestCreateProject_InitialState(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	p := fx.mustGet(t, id)
	if p.IsApproved || p.IsDeclined || p.IsCompleted {
		t.Errorf("new project must start unapproved, got %+v", p)
	}
	if p.Points != 0 {
		t.Errorf("new project points = %d, want 0", p.Points)
	}
	if len(p.Members) != 0 || len(p.UnknownMembers) != 0 {
		t.Errorf("new project must have no members, got %v / %v", p.Members, p.UnknownMembers)
	}
	if p.Author != "Alice" || p.AuthorEmail != "alice@club.org" {
		t.Errorf("author fields not taken from caller: %q %q", p.Author, p.AuthorEmail)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	fx := newFixture()
	cases := []CreateProjectRequest{
		{Description: "d", Committee: "c", Timeframe: "2026-09-01", RequiredMembers: 1},
		{Title: "t", Committee: "c", Timeframe: "2026-09-01", RequiredMembers: 1},
		{Title: "t", Description: "d", Committee: "c", Timeframe: "not-a-date", RequiredMembers: 1},
		{Title: "t", Description: "d", Committee: "c", Timeframe: "2026-12-01..2026-09-01", RequiredMembers: 1},
		{Title: "t", Description: "d", Committee: "c", Timeframe: "2026-09-01", RequiredMembers: 0},
	}

	for i, req := range cases {
		_, err := fx.svc.Create(context.Background(), author, &req)
		if !response.IsStatus(err, 400) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestApprove(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	points := 120

	if err := fx.svc.Approve(context.Background(), author, id, &points); err == nil || !response.IsStatus(err, 403) {
		t.Fatalf("non-admin approve should be forbidden, got %v", err)
	}

	if err := fx.svc.Approve(context.Background(), admin, id, nil); !response.IsStatus(err, 400) {
		t.Fatalf("approve without points should fail validation, got %v", err)
	}

	if err := fx.svc.Approve(context.Background(), admin, id, &points); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if !p.IsApproved || p.Points != 120 {
		t.Errorf("approved=%v points=%d, want true/120", p.IsApproved, p.Points)
	}
	if fx.notifier.lastTo() != "alice@club.org" {
		t.Errorf("approval must notify the author, notified %q", fx.notifier.lastTo())
	}

	// Second approval hits the state guard.
	wantStatus(t, fx.svc.Approve(context.Background(), admin, id, &points), 409)
}

func TestDecline_KeepsDocument(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	wantStatus(t, fx.svc.Decline(context.Background(), member, id, "off topic"), 403)
	wantStatus(t, fx.svc.Decline(context.Background(), admin, id, "  "), 400)

	if err := fx.svc.Decline(context.Background(), admin, id, "off topic"); err != nil {
		t.Fatalf("Decline() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if !p.IsDeclined || p.DeclineReason != "off topic" {
		t.Errorf("decline must mark the document, got %+v", p)
	}
	if fx.notifier.lastTo() != "alice@club.org" {
		t.Errorf("decline must notify the author, notified %q", fx.notifier.lastTo())
	}

	// A declined project cannot be approved afterwards.
	points := 10
	wantStatus(t, fx.svc.Approve(context.Background(), admin, id, &points), 409)
}

func TestDecline_AfterApproval(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	points := 50
	if err := fx.svc.Approve(context.Background(), admin, id, &points); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	wantStatus(t, fx.svc.Decline(context.Background(), admin, id, "too late"), 409)
}

func TestRequestJoin(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	if err := fx.svc.RequestJoin(context.Background(), member, id); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if !p.HasPending("member-1") {
		t.Errorf("uid not recorded as pending: %v", p.UnknownMembers)
	}
	last := fx.notifier.sent[len(fx.notifier.sent)-1]
	if last.ToEmail != "alice@club.org" || last.Type != models.NotificationApproval {
		t.Errorf("join must send an approval notification to the author, got %+v", last)
	}

	// Duplicate request
	wantStatus(t, fx.svc.RequestJoin(context.Background(), member, id), 409)

	// Unknown project
	wantStatus(t, fx.svc.RequestJoin(context.Background(), member, primitive.NewObjectID().Hex()), 404)
}

func TestRequestJoin_FullProject(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	fx.projects.docs[id].Members = []string{"Dan", "Eve"} // capacity 2

	wantStatus(t, fx.svc.RequestJoin(context.Background(), member, id), 409)
}

func TestApproveMember(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	if err := fx.svc.RequestJoin(context.Background(), member, id); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}

	// A third member may not decide membership.
	carol := &models.Caller{UID: "member-2", Email: "carol@club.org", Name: "Carol"}
	wantStatus(t, fx.svc.ApproveMember(context.Background(), carol, id, "member-1"), 403)

	if err := fx.svc.ApproveMember(context.Background(), author, id, "member-1"); err != nil {
		t.Fatalf("ApproveMember() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if !p.HasMember("Bob") {
		t.Errorf("display name not in members: %v", p.Members)
	}
	if p.HasPending("member-1") {
		t.Errorf("uid still pending after promotion: %v", p.UnknownMembers)
	}
	if len(fx.contribs.entries) != 1 {
		t.Fatalf("expected 1 contribution entry, got %d", len(fx.contribs.entries))
	}
	if got := fx.contribs.entries[0]; got.UID != "member-1" || got.ProjectID != id {
		t.Errorf("contribution entry mismatch: %+v", got)
	}
	if fx.notifier.lastTo() != "bob@club.org" {
		t.Errorf("member approval must notify the member, notified %q", fx.notifier.lastTo())
	}
}

func TestApproveMember_Idempotent(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	if err := fx.svc.RequestJoin(context.Background(), member, id); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}
	if err := fx.svc.ApproveMember(context.Background(), admin, id, "member-1"); err != nil {
		t.Fatalf("ApproveMember() error = %v", err)
	}

	// Repeating the approval changes nothing and adds no second entry.
	if err := fx.svc.ApproveMember(context.Background(), admin, id, "member-1"); err != nil {
		t.Fatalf("second ApproveMember() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if len(p.Members) != 1 {
		t.Errorf("members = %v, want exactly one entry", p.Members)
	}
	if len(fx.contribs.entries) != 1 {
		t.Errorf("contribution entries = %d, want 1", len(fx.contribs.entries))
	}
}

func TestApproveMember_Full(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	if err := fx.svc.RequestJoin(context.Background(), member, id); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}
	fx.projects.docs[id].Members = []string{"Dan", "Eve"}

	wantStatus(t, fx.svc.ApproveMember(context.Background(), admin, id, "member-1"), 409)
}

func TestApproveMember_UnknownUser(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	wantStatus(t, fx.svc.ApproveMember(context.Background(), admin, id, "ghost"), 404)
}

func TestDeclineMember(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)
	if err := fx.svc.RequestJoin(context.Background(), member, id); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}
	sentBefore := len(fx.notifier.sent)

	wantStatus(t, fx.svc.DeclineMember(context.Background(), author, id, "member-1"), 403)

	if err := fx.svc.DeclineMember(context.Background(), admin, id, "member-1"); err != nil {
		t.Fatalf("DeclineMember() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if p.HasPending("member-1") {
		t.Errorf("uid still pending after decline: %v", p.UnknownMembers)
	}
	if len(fx.notifier.sent) != sentBefore {
		t.Errorf("declining a member must not emit a notification")
	}

	// Declining an absent uid is a no-op.
	if err := fx.svc.DeclineMember(context.Background(), admin, id, "member-1"); err != nil {
		t.Fatalf("declining absent uid should be a no-op, got %v", err)
	}
}

func TestCompletionFlow(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	// Only the author may request, admins included.
	wantStatus(t, fx.svc.RequestCompletion(context.Background(), admin, id), 403)
	wantStatus(t, fx.svc.RequestCompletion(context.Background(), member, id), 403)

	if err := fx.svc.RequestCompletion(context.Background(), author, id); err != nil {
		t.Fatalf("RequestCompletion() error = %v", err)
	}
	last := fx.notifier.sent[len(fx.notifier.sent)-1]
	if last.ToEmail != models.AdminAudience || last.Type != models.NotificationAdmin {
		t.Errorf("completion request must notify the admin audience, got %+v", last)
	}

	// Double request
	wantStatus(t, fx.svc.RequestCompletion(context.Background(), author, id), 409)

	// Approval is admin-only.
	wantStatus(t, fx.svc.ApproveCompletion(context.Background(), author, id), 403)

	if err := fx.svc.ApproveCompletion(context.Background(), admin, id); err != nil {
		t.Fatalf("ApproveCompletion() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if !p.IsCompleted || p.CompletionRequested || p.CompletedAt == nil {
		t.Errorf("completion state wrong: %+v", p)
	}
	if fx.notifier.lastTo() != "alice@club.org" {
		t.Errorf("completion approval must notify the author, notified %q", fx.notifier.lastTo())
	}

	// No pending request anymore.
	wantStatus(t, fx.svc.ApproveCompletion(context.Background(), admin, id), 409)

	// A completed project cannot request again.
	wantStatus(t, fx.svc.RequestCompletion(context.Background(), author, id), 409)
}

func TestDeclineCompletion_AllowsRetry(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	if err := fx.svc.RequestCompletion(context.Background(), author, id); err != nil {
		t.Fatalf("RequestCompletion() error = %v", err)
	}

	wantStatus(t, fx.svc.DeclineCompletion(context.Background(), admin, id, ""), 400)

	if err := fx.svc.DeclineCompletion(context.Background(), admin, id, "missing report"); err != nil {
		t.Fatalf("DeclineCompletion() error = %v", err)
	}

	p := fx.mustGet(t, id)
	if p.IsCompleted || p.CompletionRequested {
		t.Errorf("declined completion must clear the request: %+v", p)
	}
	if p.CompletionDeclineReason != "missing report" {
		t.Errorf("decline reason = %q", p.CompletionDeclineReason)
	}
	if fx.notifier.lastTo() != "alice@club.org" {
		t.Errorf("completion decline must notify the author, notified %q", fx.notifier.lastTo())
	}

	// The author may request again after a decline.
	if err := fx.svc.RequestCompletion(context.Background(), author, id); err != nil {
		t.Errorf("re-request after decline should succeed, got %v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	newTitle := "Robot Workshop v2"
	wantStatus(t, fx.svc.Update(context.Background(), member, id, &UpdateProjectRequest{Title: &newTitle}), 403)

	if err := fx.svc.Update(context.Background(), author, id, &UpdateProjectRequest{Title: &newTitle}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if p := fx.mustGet(t, id); p.Title != newTitle {
		t.Errorf("title = %q, want %q", p.Title, newTitle)
	}

	// Capacity may not drop below the current member count.
	fx.projects.docs[id].Members = []string{"Dan", "Eve"}
	one := 1
	wantStatus(t, fx.svc.Update(context.Background(), author, id, &UpdateProjectRequest{RequiredMembers: &one}), 400)
}

func TestDeleteProject(t *testing.T) {
	fx := newFixture()
	id := fx.create(t)

	wantStatus(t, fx.svc.Delete(context.Background(), author, id), 403)

	if err := fx.svc.Delete(context.Background(), admin, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err := fx.svc.Get(context.Background(), id)
	wantStatus(t, err, 404)
}
