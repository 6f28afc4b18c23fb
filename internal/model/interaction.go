package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction actions.
const (
	ActionAskQuestion = "ask_question"
	ActionAnswer      = "answer"
	ActionView        = "view"
	ActionUpvote      = "upvote"
	ActionDownvote    = "downvote"
)

// TagCount is a tag id with the number of interactions referencing it.
type TagCount struct {
	TagID primitive.ObjectID `json:"tagId" bson:"_id"`
	Count int64              `json:"count" bson:"count"`
}

// Interaction is an append-only activity log entry. Tags is a snapshot of
// the related question's tag ids at the time of the action and feeds the
// per-user tag affinity aggregate.
type Interaction struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Action    string               `json:"action" bson:"action"`
	Question  primitive.ObjectID   `json:"question,omitempty" bson:"question,omitempty"`
	Answer    primitive.ObjectID   `json:"answer,omitempty" bson:"answer,omitempty"`
	Tags      []primitive.ObjectID `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt time.Time            `json:"createdAt" bson:"created_at"`
}
