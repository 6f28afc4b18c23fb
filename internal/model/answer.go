package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer represents an answer document in MongoDB. Question is the owning
// reference; creating an answer also appends its id to the parent
// question's answers list.
type Answer struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Content   string               `json:"content" bson:"content"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Question  primitive.ObjectID   `json:"question" bson:"question"`
	Upvotes   []primitive.ObjectID `json:"upvotes" bson:"upvotes"`
	Downvotes []primitive.ObjectID `json:"downvotes" bson:"downvotes"`
	CreatedAt time.Time            `json:"createdAt" bson:"created_at"`
}
