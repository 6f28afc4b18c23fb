package repo

import (
	"DevFlow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// voteStore is the subset of db.Repository the vote ladder needs.
type voteStore[T any] interface {
	Apply(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
}

// castVote applies exactly one of the three vote transitions to the
// document with the given id. Every arm, the add included, derives the
// voter's membership state inside its update filter, so an arm only fires
// when the state it is about to change still holds. When all three arms
// miss, either the document does not exist or a concurrent vote from the
// same voter moved the state between arms; a lookup tells the two apart
// and the ladder runs once more against the new state.
func castVote[T any](ctx context.Context, r voteStore[T], id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	same, opposite := "upvotes", "downvotes"
	if dir == model.VoteDown {
		same, opposite = "downvotes", "upvotes"
	}

	for attempt := 0; attempt < 2; attempt++ {
		transition, err := applyVoteLadder(ctx, r, id, voter, same, opposite)
		if err != nil {
			return "", err
		}
		if transition != "" {
			return transition, nil
		}

		if _, err := r.FindByID(ctx, id); err != nil {
			return "", mapFindErr(err)
		}
	}
	return "", ErrMaxRetriesExceeded
}

// applyVoteLadder runs the three conditional updates in order and reports
// the transition that fired, or "" when none matched the document's state.
func applyVoteLadder[T any](ctx context.Context, r voteStore[T], id, voter primitive.ObjectID, same, opposite string) (model.VoteTransition, error) {
	// Retract: the voter already voted in this direction.
	res, err := r.Apply(ctx,
		bson.M{"_id": id, same: voter},
		bson.M{"$pull": bson.M{same: voter}},
	)
	if err != nil {
		return "", err
	}
	if res.ModifiedCount == 1 {
		return model.VoteRetracted, nil
	}

	// Flip: the voter voted in the opposite direction.
	res, err = r.Apply(ctx,
		bson.M{"_id": id, opposite: voter},
		bson.M{"$pull": bson.M{opposite: voter}, "$addToSet": bson.M{same: voter}},
	)
	if err != nil {
		return "", err
	}
	if res.ModifiedCount == 1 {
		return model.VoteFlipped, nil
	}

	// Add: only when the voter is in neither list. Without the membership
	// guard a raced duplicate vote would match the document, modify
	// nothing, and still look like a fresh add.
	res, err = r.Apply(ctx,
		bson.M{
			"_id":    id,
			same:     bson.M{"$ne": voter},
			opposite: bson.M{"$ne": voter},
		},
		bson.M{"$addToSet": bson.M{same: voter}},
	)
	if err != nil {
		return "", err
	}
	if res.ModifiedCount == 1 {
		return model.VoteAdded, nil
	}
	return "", nil
}
