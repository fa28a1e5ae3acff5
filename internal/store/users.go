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

// UserStore persists user accounts. Email is unique.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Called once at startup.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *UserStore) Insert(ctx context.Context, u *models.User) (string, error) {
	res, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrStateConflict
	}
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *UserStore) GetByID(ctx context.Context, uid string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByResetToken finds the user holding an unexpired reset token hash.
func (s *UserStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": bson.M{"$gt": now},
	})
}

// List returns all users; byPoints sorts points descending for the
// leaderboard.
func (s *UserStore) List(ctx context.Context, byPoints bool) ([]models.User, error) {
	opts := options.Find()
	if byPoints {
		opts.SetSort(bson.D{{Key: "points", Value: -1}})
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) SetFields(ctx context.Context, uid string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
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

// ClearResetToken removes a consumed reset token.
func (s *UserStore) ClearResetToken(ctx context.Context, uid string) error {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
	}

	_, err = s.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$unset": bson.M{"reset_token_hash": "", "reset_token_expiry": ""}})
	return err
}

func (s *UserStore) Delete(ctx context.Context, uid string) error {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
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

// SpendMemoToken atomically decrements one memo token; fails when the
// balance is already zero.
func (s *UserStore) SpendMemoToken(ctx context.Context, uid string) error {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "memo_tokens": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"memo_tokens": -1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStateConflict
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
