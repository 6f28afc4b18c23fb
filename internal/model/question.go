package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question represents a question document in MongoDB.
//
// Upvotes and Downvotes hold user ids and are treated as sets: membership
// is mutated only through $addToSet/$pull, so a user can never appear
// twice, and the voting flow keeps the two lists mutually exclusive.
type Question struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Content   string               `json:"content" bson:"content"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Tags      []primitive.ObjectID `json:"tags" bson:"tags"`
	Upvotes   []primitive.ObjectID `json:"upvotes" bson:"upvotes"`
	Downvotes []primitive.ObjectID `json:"downvotes" bson:"downvotes"`
	Answers   []primitive.ObjectID `json:"answers" bson:"answers"`
	Views     int64                `json:"views" bson:"views"`
	CreatedAt time.Time            `json:"createdAt" bson:"created_at"`
}

// HotQuestion is the projection returned by the hot-questions aggregate:
// UpvoteCount is the array length of the upvotes field.
type HotQuestion struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Views       int64              `json:"views" bson:"views"`
	UpvoteCount int                `json:"upvoteCount" bson:"upvote_count"`
}
