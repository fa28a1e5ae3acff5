package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Peripheral content documents. These are uniform thin CRUD collections;
// none of them carries lifecycle state.

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"` // YYYY-MM-DD
	Color       string             `bson:"color" json:"color"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

type News struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

type Workshop struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"`
	Location    string             `bson:"location" json:"location"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Memory is a gallery entry; Photos holds media store URLs.
type Memory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Author    string             `bson:"author" json:"author"`
	Photos    []string           `bson:"photos" json:"photos"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Comment struct {
	Author    string    `bson:"author" json:"author"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	Likes     int                `bson:"likes" json:"likes"`
	LikedBy   []string           `bson:"liked_by" json:"liked_by"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type CommunityEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// BoardMember is a BOD entry; linked to the user account created for it.
type BoardMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID       string             `bson:"uid" json:"uid"`
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"`
	Email     string             `bson:"email" json:"email"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	IsAdmin   bool               `bson:"is_admin" json:"is_admin"`
	Committee string             `bson:"committee" json:"committee"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
