package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag represents a canonical tag document in MongoDB. Name is unique under
// case-insensitive comparison; the first-seen casing is preserved.
// Questions is the back-reference list maintained by tag resolution.
type Tag struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Questions   []primitive.ObjectID `json:"questions" bson:"questions"`
	Followers   []primitive.ObjectID `json:"followers" bson:"followers"`
	CreatedOn   time.Time            `json:"createdOn" bson:"created_on"`
}

// PopularTag is the projection returned by the popular-tags aggregate.
type PopularTag struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	QuestionCount int                `json:"questionCount" bson:"question_count"`
}
