package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a forum member in MongoDB. AuthID is the stable subject
// id supplied by the external identity provider; a User document is created
// the first time a subject id is seen.
type User struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	AuthID     string               `json:"authId" bson:"auth_id"`
	Name       string               `json:"name" bson:"name"`
	Username   string               `json:"username" bson:"username"`
	Email      string               `json:"email" bson:"email"`
	Bio        string               `json:"bio" bson:"bio"`
	Location   string               `json:"location" bson:"location"`
	Portfolio  string               `json:"portfolio" bson:"portfolio"`
	Picture    string               `json:"picture" bson:"picture"`
	Reputation int                  `json:"reputation" bson:"reputation"`
	Saved      []primitive.ObjectID `json:"saved" bson:"saved"`
	JoinedAt   time.Time            `json:"joinedAt" bson:"joined_at"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name      string `json:"name" bson:"name"`
	Username  string `json:"username" bson:"username"`
	Bio       string `json:"bio" bson:"bio"`
	Location  string `json:"location" bson:"location"`
	Portfolio string `json:"portfolio" bson:"portfolio"`
}
