package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is an append-only audit record created when a user's
// project involvement is approved. Read by the dashboard and leaderboard.
type Contribution struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid" json:"uid"`
	ProjectID    string             `bson:"project_id" json:"project_id"`
	ProjectTitle string             `bson:"project_title" json:"project_title"`
	Points       int                `bson:"points" json:"points"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
