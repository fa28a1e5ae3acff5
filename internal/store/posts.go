package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhq/clubhub/backend/internal/models"
)

// PostStore extends the generic collection with the atomic like and
// comment operations.
type PostStore struct {
	*Collection[models.Post]
	coll *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{
		Collection: NewCollection[models.Post](db, "posts"),
		coll:       db.Collection("posts"),
	}
}

// Like records a like once per email: $inc the counter and $addToSet the
// email in one update, filtered on the email not being present yet. A
// zero match is a duplicate like only when the post actually exists.
func (s *PostStore) Like(ctx context.Context, id, email string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "liked_by": bson.M{"$ne": email}},
		bson.M{
			"$inc":      bson.M{"likes": 1},
			"$addToSet": bson.M{"liked_by": email},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStateConflict
	}
	return nil
}

// AddComment appends a comment to the post.
func (s *PostStore) AddComment(ctx context.Context, id string, c models.Comment) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
