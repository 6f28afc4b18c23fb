package service

import (
	"context"
	"testing"

	"DevFlow/internal/event"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newVoteFixture(transition model.VoteTransition) (VoteService, *fakeQuestionRepo, *fakeAnswerRepo, *fakeUserRepo, *fakeInteractionRepo, *capturePublisher) {
	questions := newFakeQuestionRepo()
	answers := newFakeAnswerRepo()
	users := newFakeUserRepo()
	interactions := &fakeInteractionRepo{}
	feed := &capturePublisher{}

	questions.transition = transition
	answers.transition = transition

	svc := NewVoteService(questions, answers, users, interactions, feed, zap.NewNop())
	return svc, questions, answers, users, interactions, feed
}

func TestVoteReputationDeltas(t *testing.T) {
	tests := []struct {
		name        string
		dir         model.VoteDirection
		transition  model.VoteTransition
		voterDelta  int
		authorDelta int
	}{
		{"upvote added", model.VoteUp, model.VoteAdded, 2, 10},
		{"downvote added", model.VoteDown, model.VoteAdded, -2, -10},
		{"upvote retracted", model.VoteUp, model.VoteRetracted, -2, -10},
		{"downvote retracted", model.VoteDown, model.VoteRetracted, 2, 10},
		{"flip down to up", model.VoteUp, model.VoteFlipped, 4, 20},
		{"flip up to down", model.VoteDown, model.VoteFlipped, -4, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, questions, _, users, _, _ := newVoteFixture(tt.transition)

			author := primitive.NewObjectID()
			voter := primitive.NewObjectID()
			question := &model.Question{ID: primitive.NewObjectID(), Author: author}
			questions.questions[question.ID] = question

			transition, err := svc.Vote(context.Background(), model.VoteQuestion, question.ID, voter, tt.dir)
			require.NoError(t, err)
			require.Equal(t, tt.transition, transition)
			require.Equal(t, tt.voterDelta, users.reputation[voter])
			require.Equal(t, tt.authorDelta, users.reputation[author])
		})
	}
}

func TestVoteAnswerTarget(t *testing.T) {
	svc, _, answers, users, _, feed := newVoteFixture(model.VoteAdded)

	author := primitive.NewObjectID()
	voter := primitive.NewObjectID()
	answer := &model.Answer{ID: primitive.NewObjectID(), Author: author}
	answers.answers[answer.ID] = answer

	transition, err := svc.Vote(context.Background(), model.VoteAnswer, answer.ID, voter, model.VoteUp)
	require.NoError(t, err)
	require.Equal(t, model.VoteAdded, transition)
	require.Equal(t, 1, answers.castCalls)
	require.Equal(t, 2, users.reputation[voter])
	require.Equal(t, 10, users.reputation[author])

	require.Len(t, feed.events, 1)
	require.Equal(t, event.EventVoteCast, feed.events[0].Type)
	require.Equal(t, answer.ID.Hex(), feed.events[0].AnswerID)
}

func TestVoteRecordsInteractionOnlyWhenAdded(t *testing.T) {
	svc, questions, _, _, interactions, _ := newVoteFixture(model.VoteAdded)

	question := &model.Question{ID: primitive.NewObjectID(), Author: primitive.NewObjectID()}
	questions.questions[question.ID] = question
	voter := primitive.NewObjectID()

	_, err := svc.Vote(context.Background(), model.VoteQuestion, question.ID, voter, model.VoteDown)
	require.NoError(t, err)
	require.Len(t, interactions.recorded, 1)
	require.Equal(t, model.ActionDownvote, interactions.recorded[0].Action)
	require.Equal(t, question.ID, interactions.recorded[0].Question)

	questions.transition = model.VoteRetracted
	_, err = svc.Vote(context.Background(), model.VoteQuestion, question.ID, voter, model.VoteDown)
	require.NoError(t, err)
	require.Len(t, interactions.recorded, 1)
}

func TestVoteMissingEntityLeavesReputationUntouched(t *testing.T) {
	svc, questions, _, users, _, feed := newVoteFixture(model.VoteAdded)

	voter := primitive.NewObjectID()
	_, err := svc.Vote(context.Background(), model.VoteQuestion, primitive.NewObjectID(), voter, model.VoteUp)
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.Zero(t, questions.castCalls)
	require.Empty(t, users.reputation)
	require.Empty(t, feed.events)
}

func TestVoteUnknownTargetRejected(t *testing.T) {
	svc, _, _, _, _, _ := newVoteFixture(model.VoteAdded)

	_, err := svc.Vote(context.Background(), model.VoteTarget("comment"), primitive.NewObjectID(), primitive.NewObjectID(), model.VoteUp)
	require.Error(t, err)
}

func TestVoteInteractionFailureDoesNotFailVote(t *testing.T) {
	svc, questions, _, users, interactions, _ := newVoteFixture(model.VoteAdded)
	interactions.recordErr = context.DeadlineExceeded

	author := primitive.NewObjectID()
	voter := primitive.NewObjectID()
	question := &model.Question{ID: primitive.NewObjectID(), Author: author}
	questions.questions[question.ID] = question

	transition, err := svc.Vote(context.Background(), model.VoteQuestion, question.ID, voter, model.VoteUp)
	require.NoError(t, err)
	require.Equal(t, model.VoteAdded, transition)
	require.Equal(t, 2, users.reputation[voter])
}
