package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a club member account. The document id doubles as the uid
// referenced from project membership and notifications.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"`
	Committee  string             `bson:"committee" json:"committee"`
	IsAdmin    bool               `bson:"is_admin" json:"is_admin"`
	Points     int                `bson:"points" json:"points"`
	Rank       string             `bson:"rank" json:"rank"`
	MemoTokens int                `bson:"memo_tokens" json:"memo_tokens"`
	Workshops  []string           `bson:"workshops" json:"workshops"`

	ResetTokenHash   string     `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpiry *time.Time `bson:"reset_token_expiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// UID returns the hex document id used as the user identifier everywhere
// outside the store.
func (u *User) UID() string {
	return u.ID.Hex()
}
