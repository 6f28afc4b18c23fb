package service

import (
	"DevFlow/internal/event"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reputation deltas. A vote is worth voterVoteDelta to the voter and
// authorVoteDelta to the entity's author; retracting reverses the grant
// and flipping applies remove-then-add, so a flip nets twice the delta.
// Downvotes carry the negative sign for both parties.
const (
	voterVoteDelta  = 2
	authorVoteDelta = 10
)

type VoteService interface {
	Vote(ctx context.Context, target model.VoteTarget, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error)
}

type voteService struct {
	questions    repo.QuestionRepository
	answers      repo.AnswerRepository
	users        repo.UserRepository
	interactions repo.InteractionRepository
	feed         event.Publisher
	logger       *zap.Logger
}

func NewVoteService(
	questions repo.QuestionRepository,
	answers repo.AnswerRepository,
	users repo.UserRepository,
	interactions repo.InteractionRepository,
	feed event.Publisher,
	logger *zap.Logger,
) VoteService {
	return &voteService{
		questions:    questions,
		answers:      answers,
		users:        users,
		interactions: interactions,
		feed:         feed,
		logger:       logger,
	}
}

// Vote applies an up or down vote to a question or answer and adjusts the
// reputation of voter and author. The voter's prior vote state is derived
// from the entity document inside the conditional update, never taken
// from the caller.
//
// The two reputation updates are independent single-document mutations;
// they are not atomic with the vote itself. If either fails the whole
// operation reports failure and the caller retries.
func (s *voteService) Vote(ctx context.Context, target model.VoteTarget, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	var (
		author     primitive.ObjectID
		transition model.VoteTransition
		err        error
	)

	switch target {
	case model.VoteQuestion:
		question, qerr := s.questions.GetByID(ctx, id)
		if qerr != nil {
			return "", qerr
		}
		author = question.Author
		transition, err = s.questions.CastVote(ctx, id, voter, dir)
	case model.VoteAnswer:
		answer, aerr := s.answers.GetByID(ctx, id)
		if aerr != nil {
			return "", aerr
		}
		author = answer.Author
		transition, err = s.answers.CastVote(ctx, id, voter, dir)
	default:
		return "", fmt.Errorf("unknown vote target %q", target)
	}
	if err != nil {
		return "", err
	}

	voterDelta, authorDelta := voteDeltas(dir, transition)

	if err := s.users.AdjustReputation(ctx, voter, voterDelta); err != nil {
		return "", fmt.Errorf("voter reputation update failed: %w", err)
	}
	if err := s.users.AdjustReputation(ctx, author, authorDelta); err != nil {
		return "", fmt.Errorf("author reputation update failed: %w", err)
	}

	if transition == model.VoteAdded {
		action := model.ActionUpvote
		if dir == model.VoteDown {
			action = model.ActionDownvote
		}
		interaction := &model.Interaction{User: voter, Action: action}
		if target == model.VoteQuestion {
			interaction.Question = id
		} else {
			interaction.Answer = id
		}
		if err := s.interactions.Record(ctx, interaction); err != nil {
			// The vote itself succeeded; losing the log entry is tolerable.
			s.logger.Warn("vote interaction not recorded", zap.Error(err))
		}
	}

	s.logger.Info("vote applied",
		zap.String("target", string(target)),
		zap.String("entity_id", id.Hex()),
		zap.String("voter", voter.Hex()),
		zap.String("direction", string(dir)),
		zap.String("transition", string(transition)),
	)

	ev := event.Event{
		Type:      event.EventVoteCast,
		ActorID:   voter.Hex(),
		Direction: string(dir),
		At:        time.Now().UTC(),
	}
	if target == model.VoteQuestion {
		ev.QuestionID = id.Hex()
	} else {
		ev.AnswerID = id.Hex()
	}
	s.feed.Publish(ev)

	return transition, nil
}

// voteDeltas returns the signed (voter, author) reputation adjustment for
// one transition. Sign convention: upvotes grant, downvotes cost, and a
// flip is the removal of one direction plus the addition of the other.
func voteDeltas(dir model.VoteDirection, transition model.VoteTransition) (int, int) {
	sign := 1
	if dir == model.VoteDown {
		sign = -1
	}

	switch transition {
	case model.VoteAdded:
		return sign * voterVoteDelta, sign * authorVoteDelta
	case model.VoteRetracted:
		return -sign * voterVoteDelta, -sign * authorVoteDelta
	case model.VoteFlipped:
		return 2 * sign * voterVoteDelta, 2 * sign * authorVoteDelta
	default:
		return 0, 0
	}
}
