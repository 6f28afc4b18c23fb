package repo

import (
	"DevFlow/internal/db"
	"DevFlow/internal/model"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type InteractionRepository interface {
	Record(ctx context.Context, interaction *model.Interaction) error
	HasViewed(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error)
	DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID, answerIDs []primitive.ObjectID) error
	DeleteByAnswer(ctx context.Context, answerID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
	TopTagsForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.TagCount, error)
}

type interactionRepository struct {
	mongoRepo *db.Repository[model.Interaction]
	logger    *zap.Logger
}

func NewInteractionRepository(repo *db.Repository[model.Interaction], logger *zap.Logger) InteractionRepository {
	return &interactionRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// Record appends one activity log entry. The log is append-only; entries
// are never updated.
func (r *interactionRepository) Record(ctx context.Context, interaction *model.Interaction) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	_, err := r.mongoRepo.Create(ctx, *interaction)
	if err != nil {
		r.logger.Error("failed to record interaction",
			zap.Error(err),
			zap.String("action", interaction.Action),
			zap.String("user_id", interaction.User.Hex()),
		)
		return fmt.Errorf("record interaction failed: %w", err)
	}
	return nil
}

func (r *interactionRepository) HasViewed(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	count, err := r.mongoRepo.Count(ctx, bson.M{
		"user":     userID,
		"action":   model.ActionView,
		"question": questionID,
	})
	if err != nil {
		return false, fmt.Errorf("view lookup failed: %w", err)
	}
	return count > 0, nil
}

// DeleteByQuestion removes interactions referencing the question or any of
// its answers, as part of the question-delete cascade.
func (r *interactionRepository) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID, answerIDs []primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	or := []bson.M{{"question": questionID}}
	if len(answerIDs) > 0 {
		or = append(or, bson.M{"answer": bson.M{"$in": answerIDs}})
	}

	_, err := r.mongoRepo.DeleteMany(ctx, bson.M{"$or": or})
	if err != nil {
		r.logger.Error("failed to delete question interactions", zap.Error(err), zap.String("question_id", questionID.Hex()))
		return fmt.Errorf("delete question interactions failed: %w", err)
	}
	return nil
}

func (r *interactionRepository) DeleteByAnswer(ctx context.Context, answerID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.DeleteMany(ctx, db.NewFilter().ObjectID("answer", answerID).Build())
	if err != nil {
		return fmt.Errorf("delete answer interactions failed: %w", err)
	}
	return nil
}

func (r *interactionRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.DeleteMany(ctx, db.NewFilter().ObjectID("user", userID).Build())
	if err != nil {
		return fmt.Errorf("delete user interactions failed: %w", err)
	}
	return nil
}

// TopTagsForUser groups the user's interaction tag snapshots and returns
// the most frequent tag ids, the per-user affinity signal.
func (r *interactionRepository) TopTagsForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.TagCount, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	counts, err := db.Aggregate[model.Interaction, model.TagCount](ctx, r.mongoRepo, pipeline)
	if err != nil {
		r.logger.Error("failed to aggregate top tags", zap.Error(err), zap.String("user_id", userID.Hex()))
		return nil, fmt.Errorf("top tags failed: %w", err)
	}
	return counts, nil
}
