// Package store is the MongoDB access layer. Each type wraps one
// collection and exposes the atomic document operations the services
// build on ($set, $inc, $addToSet, $pull, filtered single-document
// updates). No cross-document transactions are used.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhq/clubhub/backend/internal/config"
)

// ErrNotFound is returned when the addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrStateConflict is returned when an update's state precondition did not
// match (full project, duplicate join, no pending request, ...).
var ErrStateConflict = errors.New("document state precondition failed")

// Connect opens a client and verifies the connection. The caller owns the
// client and disconnects it on shutdown.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}
