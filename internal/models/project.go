package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a club project document. Members holds display names (a
// modeling choice inherited from the frontend), UnknownMembers holds the
// uids of pending join requests. A uid never appears in both at once.
type Project struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Author          string             `bson:"author" json:"author"`
	AuthorEmail     string             `bson:"author_email" json:"author_email"`
	Committee       string             `bson:"committee" json:"committee"`
	GitHub          string             `bson:"github,omitempty" json:"github,omitempty"`
	Timeframe       string             `bson:"project_timeframe" json:"project_timeframe"`
	TimeframeEnd    time.Time          `bson:"timeframe_end" json:"-"`
	RequiredMembers int                `bson:"required_members" json:"required_members"`
	Members         []string           `bson:"members" json:"members"`
	UnknownMembers  []string           `bson:"unknown_members" json:"unknown_members"`
	Points          int                `bson:"points" json:"points"`
	IsApproved      bool               `bson:"is_approved" json:"is_approved"`
	IsDeclined      bool               `bson:"is_declined" json:"is_declined"`
	DeclineReason   string             `bson:"decline_reason,omitempty" json:"decline_reason,omitempty"`

	IsCompleted             bool       `bson:"is_completed" json:"is_completed"`
	CompletionRequested     bool       `bson:"completion_requested" json:"completion_requested"`
	CompletionRequester     string     `bson:"completion_requester,omitempty" json:"completion_requester,omitempty"`
	CompletionRequestDate   *time.Time `bson:"completion_request_date,omitempty" json:"completion_request_date,omitempty"`
	CompletionDeclineReason string     `bson:"completion_decline_reason,omitempty" json:"completion_decline_reason,omitempty"`
	CompletedAt             *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	// NotifiedAdmin marks that the overdue sweep already alerted admins.
	NotifiedAdmin bool      `bson:"notified_admin" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// IsFull reports whether the member list has reached capacity.
func (p *Project) IsFull() bool {
	return len(p.Members) >= p.RequiredMembers
}

// HasPending reports whether uid has an open join request.
func (p *Project) HasPending(uid string) bool {
	for _, m := range p.UnknownMembers {
		if m == uid {
			return true
		}
	}
	return false
}

// HasMember reports whether the display name is already a member.
func (p *Project) HasMember(name string) bool {
	for _, m := range p.Members {
		if m == name {
			return true
		}
	}
	return false
}
