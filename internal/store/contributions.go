package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhq/clubhub/backend/internal/models"
)

// ContributionStore is the append-only audit log of approved project
// involvement.
type ContributionStore struct {
	coll *mongo.Collection
}

func NewContributionStore(db *mongo.Database) *ContributionStore {
	return &ContributionStore{coll: db.Collection("contributions")}
}

func (s *ContributionStore) Append(ctx context.Context, c *models.Contribution) error {
	_, err := s.coll.InsertOne(ctx, c)
	return err
}

// ListForUID returns a user's contributions, newest first, capped at limit
// (0 means no cap).
func (s *ContributionStore) ListForUID(ctx context.Context, uid string, limit int) ([]models.Contribution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contributions []models.Contribution
	if err := cursor.All(ctx, &contributions); err != nil {
		return nil, err
	}
	return contributions, nil
}
