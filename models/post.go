package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	Tags      []string           `bson:"tags" json:"tags"`
	Category  string             `bson:"category" json:"category"`
	Likes     []string           `bson:"likes" json:"likes"` // usernames, no duplicates
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Comment lives inside its parent post document and is deleted with it.
type Comment struct {
	Username    string    `bson:"username" json:"username"`
	Message     string    `bson:"message" json:"message"`
	CommentedAt time.Time `bson:"commentedAt" json:"commentedAt"`
}
