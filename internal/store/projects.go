package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhq/clubhub/backend/internal/models"
)

// ProjectStore persists project documents. Membership arrays only ever
// change through $addToSet/$pull so concurrent requests converge, and
// lifecycle transitions carry their state precondition in the update
// filter so each transition is atomic on the document.
type ProjectStore struct {
	coll *mongo.Collection
}

func NewProjectStore(db *mongo.Database) *ProjectStore {
	return &ProjectStore{coll: db.Collection("projects")}
}

// notFull matches only projects whose member list is below capacity.
var notFull = bson.M{"$expr": bson.M{"$lt": bson.A{bson.M{"$size": "$members"}, "$required_members"}}}

func projectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (s *ProjectStore) Insert(ctx context.Context, p *models.Project) (string, error) {
	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	oid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	var p models.Project
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns projects newest first; approved filters on is_approved
// when non-nil.
func (s *ProjectStore) List(ctx context.Context, approved *bool) ([]models.Project, error) {
	filter := bson.M{}
	if approved != nil {
		filter["is_approved"] = *approved
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// SetFields applies a partial $set update.
func (s *ProjectStore) SetFields(ctx context.Context, id string, fields map[string]any) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproved marks the project approved and assigns its points. Matches
// only projects that are neither approved nor declined.
func (s *ProjectStore) SetApproved(ctx context.Context, id string, points int) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "is_approved": false, "is_declined": false}
	update := bson.M{"$set": bson.M{"is_approved": true, "points": points}}
	return s.guardedUpdate(ctx, filter, update)
}

// SetDeclined stores the decline. An approved project cannot be declined.
func (s *ProjectStore) SetDeclined(ctx context.Context, id, reason string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "is_approved": false}
	update := bson.M{"$set": bson.M{"is_declined": true, "decline_reason": reason}}
	return s.guardedUpdate(ctx, filter, update)
}

// AddPendingMember records a join request. The filter rejects the update
// when the project is full or the uid already has a pending request.
func (s *ProjectStore) AddPendingMember(ctx context.Context, id, uid string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "unknown_members": bson.M{"$ne": uid}}
	for k, v := range notFull {
		filter[k] = v
	}
	update := bson.M{"$addToSet": bson.M{"unknown_members": uid}}
	return s.guardedUpdate(ctx, filter, update)
}

// RemovePendingMember drops a join request. Removing an absent uid is a
// no-op, not an error.
func (s *ProjectStore) RemovePendingMember(ctx context.Context, id, uid string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"unknown_members": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteMember moves a pending uid into the member list in one document
// update: $pull the uid, $addToSet the display name. Fails when the
// project is already full.
func (s *ProjectStore) PromoteMember(ctx context.Context, id, uid, name string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid}
	for k, v := range notFull {
		filter[k] = v
	}
	update := bson.M{
		"$pull":     bson.M{"unknown_members": uid},
		"$addToSet": bson.M{"members": name},
	}
	return s.guardedUpdate(ctx, filter, update)
}

// SetCompletionRequested opens a completion request when none is pending
// and the project is not completed.
func (s *ProjectStore) SetCompletionRequested(ctx context.Context, id, requester string, at time.Time) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "is_completed": false, "completion_requested": false}
	update := bson.M{"$set": bson.M{
		"completion_requested":    true,
		"completion_requester":    requester,
		"completion_request_date": at,
	}}
	return s.guardedUpdate(ctx, filter, update)
}

// ApproveCompletion flips completion_requested->is_completed in a single
// update, so no intermediate state is observable.
func (s *ProjectStore) ApproveCompletion(ctx context.Context, id string, at time.Time) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "completion_requested": true}
	update := bson.M{"$set": bson.M{
		"is_completed":         true,
		"completion_requested": false,
		"completed_at":         at,
	}}
	return s.guardedUpdate(ctx, filter, update)
}

// DeclineCompletion clears the pending request and stores the reason.
func (s *ProjectStore) DeclineCompletion(ctx context.Context, id, reason string) error {
	oid, err := projectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "completion_requested": true}
	update := bson.M{"$set": bson.M{
		"completion_requested":      false,
		"completion_decline_reason": reason,
	}}
	return s.guardedUpdate(ctx, filter, update)
}

// ListOverdue returns approved, unfinished projects whose timeframe end
// has passed and that the admin sweep has not flagged yet.
func (s *ProjectStore) ListOverdue(ctx context.Context, now time.Time) ([]models.Project, error) {
	filter := bson.M{
		"is_approved":    true,
		"is_completed":   false,
		"notified_admin": bson.M{"$ne": true},
		"timeframe_end":  bson.M{"$lte": now},
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// guardedUpdate runs an update whose filter carries a state precondition.
// A zero match on an existing document means the precondition failed.
func (s *ProjectStore) guardedUpdate(ctx context.Context, filter, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStateConflict
	}
	return nil
}
