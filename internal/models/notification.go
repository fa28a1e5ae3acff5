package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminAudience is the sentinel recipient for notifications addressed to
// all admins rather than a single user.
const AdminAudience = "admin"

// Notification types used by the lifecycle emitter.
const (
	NotificationInfo     = "info"
	NotificationApproval = "approval"
	NotificationAdmin    = "admin"
)

// Notification is an immutable event record addressed to a recipient.
// Only ReadStatus may change after creation.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Type       string             `bson:"type" json:"type"`
	ToEmail    string             `bson:"to_email" json:"to_email"`
	FromEmail  string             `bson:"from_email,omitempty" json:"from_email,omitempty"`
	ProjectID  string             `bson:"project_id,omitempty" json:"project_id,omitempty"`
	ReadStatus bool               `bson:"read_status" json:"read_status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
