package repo

import (
	"context"
	"testing"

	"DevFlow/internal/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// voteDocStore applies the ladder's conditional updates to one in-memory
// question, with the store's single-document semantics for exactly the
// constructs the ladder issues: membership and $ne conditions on the vote
// lists, $pull and $addToSet updates. beforeApply, when set, runs ahead of
// each update and stands in for a concurrent writer.
type voteDocStore struct {
	id        primitive.ObjectID
	exists    bool
	upvotes   []primitive.ObjectID
	downvotes []primitive.ObjectID

	applies     int
	beforeApply func(applies int)
}

func (s *voteDocStore) Apply(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	if s.beforeApply != nil {
		s.beforeApply(s.applies)
	}
	s.applies++

	if !s.exists || !s.matches(filter) {
		return &mongo.UpdateResult{}, nil
	}

	res := &mongo.UpdateResult{MatchedCount: 1}
	if pull, ok := update["$pull"].(bson.M); ok {
		for field, value := range pull {
			if s.remove(field, value.(primitive.ObjectID)) {
				res.ModifiedCount = 1
			}
		}
	}
	if add, ok := update["$addToSet"].(bson.M); ok {
		for field, value := range add {
			if s.add(field, value.(primitive.ObjectID)) {
				res.ModifiedCount = 1
			}
		}
	}
	return res, nil
}

func (s *voteDocStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	if !s.exists || s.id != id {
		return nil, mongo.ErrNoDocuments
	}
	return &model.Question{ID: s.id, Upvotes: s.upvotes, Downvotes: s.downvotes}, nil
}

func (s *voteDocStore) matches(filter bson.M) bool {
	for field, cond := range filter {
		switch field {
		case "_id":
			if cond.(primitive.ObjectID) != s.id {
				return false
			}
		case "upvotes", "downvotes":
			list := *s.list(field)
			switch c := cond.(type) {
			case primitive.ObjectID:
				if !containsID(list, c) {
					return false
				}
			case bson.M:
				if containsID(list, c["$ne"].(primitive.ObjectID)) {
					return false
				}
			}
		}
	}
	return true
}

func (s *voteDocStore) list(field string) *[]primitive.ObjectID {
	if field == "downvotes" {
		return &s.downvotes
	}
	return &s.upvotes
}

func (s *voteDocStore) add(field string, id primitive.ObjectID) bool {
	list := s.list(field)
	if containsID(*list, id) {
		return false
	}
	*list = append(*list, id)
	return true
}

func (s *voteDocStore) remove(field string, id primitive.ObjectID) bool {
	list := s.list(field)
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func containsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func TestCastVoteAddsFirstVote(t *testing.T) {
	id, voter := primitive.NewObjectID(), primitive.NewObjectID()
	store := &voteDocStore{id: id, exists: true}

	transition, err := castVote[model.Question](context.Background(), store, id, voter, model.VoteUp)
	require.NoError(t, err)
	require.Equal(t, model.VoteAdded, transition)
	require.Equal(t, []primitive.ObjectID{voter}, store.upvotes)
	require.Empty(t, store.downvotes)
	require.Equal(t, 3, store.applies)
}

func TestCastVoteRetractsRepeatedVote(t *testing.T) {
	id, voter := primitive.NewObjectID(), primitive.NewObjectID()
	store := &voteDocStore{id: id, exists: true, upvotes: []primitive.ObjectID{voter}}

	transition, err := castVote[model.Question](context.Background(), store, id, voter, model.VoteUp)
	require.NoError(t, err)
	require.Equal(t, model.VoteRetracted, transition)
	require.Empty(t, store.upvotes)
	require.Equal(t, 1, store.applies)
}

func TestCastVoteFlipsOppositeVote(t *testing.T) {
	id, voter := primitive.NewObjectID(), primitive.NewObjectID()
	store := &voteDocStore{id: id, exists: true, upvotes: []primitive.ObjectID{voter}}

	transition, err := castVote[model.Question](context.Background(), store, id, voter, model.VoteDown)
	require.NoError(t, err)
	require.Equal(t, model.VoteFlipped, transition)
	require.Empty(t, store.upvotes)
	require.Equal(t, []primitive.ObjectID{voter}, store.downvotes)
	require.Equal(t, 2, store.applies)
}

func TestCastVoteMembershipStaysExclusive(t *testing.T) {
	id, voter := primitive.NewObjectID(), primitive.NewObjectID()
	store := &voteDocStore{id: id, exists: true}

	directions := []model.VoteDirection{
		model.VoteUp, model.VoteDown, model.VoteDown,
		model.VoteUp, model.VoteUp, model.VoteDown,
	}
	for _, dir := range directions {
		_, err := castVote[model.Question](context.Background(), store, id, voter, dir)
		require.NoError(t, err)
		require.False(t, containsID(store.upvotes, voter) && containsID(store.downvotes, voter))
	}
}

// Two identical votes from the same user race: the second request misses
// the retract and flip arms, and by the time its add arm runs the first
// request has already inserted the voter. The membership guard keeps the
// second add from reporting a fresh vote; the re-run sees the new state
// and retracts, so the pair nets out like a toggle.
func TestCastVoteRacedDuplicateIsNotGrantedTwice(t *testing.T) {
	id, voter := primitive.NewObjectID(), primitive.NewObjectID()
	store := &voteDocStore{id: id, exists: true}
	store.beforeApply = func(applies int) {
		if applies == 2 {
			store.upvotes = append(store.upvotes, voter)
			store.beforeApply = nil
		}
	}

	transition, err := castVote[model.Question](context.Background(), store, id, voter, model.VoteUp)
	require.NoError(t, err)
	require.Equal(t, model.VoteRetracted, transition)
	require.Empty(t, store.upvotes)
	require.Empty(t, store.downvotes)
}

func TestCastVoteMissingDocument(t *testing.T) {
	store := &voteDocStore{id: primitive.NewObjectID()}

	_, err := castVote[model.Question](context.Background(), store, store.id, primitive.NewObjectID(), model.VoteUp)
	require.ErrorIs(t, err, ErrNotFound)
}
