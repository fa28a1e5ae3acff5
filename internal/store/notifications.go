package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhq/clubhub/backend/internal/models"
)

// NotificationStore persists notification records. Records are immutable
// after creation except for the read flag.
type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{coll: db.Collection("notifications")}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	_, err := s.coll.InsertOne(ctx, n)
	return err
}

// ListForRecipient returns the recipient's notifications, newest first.
// includeAdmin additionally pulls the admin-audience records.
func (s *NotificationStore) ListForRecipient(ctx context.Context, email string, includeAdmin bool) ([]models.Notification, error) {
	filter := bson.M{"to_email": email}
	if includeAdmin {
		filter = bson.M{"to_email": bson.M{"$in": bson.A{email, models.AdminAudience}}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead toggles the read flag. The filter binds the record to the
// recipient, so a caller can only touch their own notifications; admins
// may also touch the admin-audience records.
func (s *NotificationStore) MarkRead(ctx context.Context, id, email string, includeAdmin, read bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	filter := bson.M{"_id": oid, "to_email": email}
	if includeAdmin {
		filter["to_email"] = bson.M{"$in": bson.A{email, models.AdminAudience}}
	}

	res, err := s.coll.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"read_status": read}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
