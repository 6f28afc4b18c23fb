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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Answer sort filters.
const (
	AnswerSortHighestUpvotes = "highestUpvotes"
	AnswerSortLowestUpvotes  = "lowestUpvotes"
	AnswerSortRecent         = "recent"
	AnswerSortOld            = "old"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error
	DeleteByAuthor(ctx context.Context, author primitive.ObjectID) error
	ByQuestion(ctx context.Context, questionID primitive.ObjectID, sortBy string, params db.PageParams) (*db.Page[model.Answer], error)
	ByAuthor(ctx context.Context, author primitive.ObjectID, params db.PageParams) (*db.Page[model.Answer], error)
	IDsByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error)
	CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	RefsByAuthor(ctx context.Context, author primitive.ObjectID) ([]model.Answer, error)
	SearchContent(ctx context.Context, query string, limit int64) ([]model.Answer, error)
}

type answerRepository struct {
	mongoRepo *db.Repository[model.Answer]
	logger    *zap.Logger
}

func NewAnswerRepository(repo *db.Repository[model.Answer], logger *zap.Logger) AnswerRepository {
	return &answerRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) (primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitForRetry(ctx, attempt); err != nil {
				return primitive.NilObjectID, err
			}
		}

		result, err := r.mongoRepo.Create(ctx, *answer)
		if err == nil {
			id, _ := result.InsertedID.(primitive.ObjectID)
			r.logger.Info("answer created",
				zap.String("answer_id", id.Hex()),
				zap.String("question_id", answer.Question.Hex()),
			)
			return id, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}

		r.logger.Warn("answer insert failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	r.logger.Error("failed to create answer", zap.Error(lastErr))
	return primitive.NilObjectID, fmt.Errorf("create answer failed: %w", lastErr)
}

func (r *answerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	answer, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return answer, nil
}

func (r *answerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.DeleteByID(ctx, id)
	if err != nil {
		r.logger.Error("failed to delete answer", zap.Error(err), zap.String("answer_id", id.Hex()))
		return fmt.Errorf("delete answer failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *answerRepository) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.DeleteMany(ctx, db.NewFilter().ObjectID("question", questionID).Build())
	if err != nil {
		r.logger.Error("failed to delete question answers", zap.Error(err), zap.String("question_id", questionID.Hex()))
		return fmt.Errorf("delete question answers failed: %w", err)
	}
	return nil
}

func (r *answerRepository) DeleteByAuthor(ctx context.Context, author primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.DeleteMany(ctx, db.NewFilter().ObjectID("author", author).Build())
	if err != nil {
		return fmt.Errorf("delete author answers failed: %w", err)
	}
	return nil
}

// ByQuestion pages a question's answers. Upvote ordering needs the array
// length, so those sorts run through an aggregation.
func (r *answerRepository) ByQuestion(ctx context.Context, questionID primitive.ObjectID, sortBy string, params db.PageParams) (*db.Page[model.Answer], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	match := db.NewFilter().ObjectID("question", questionID).Build()

	switch sortBy {
	case AnswerSortHighestUpvotes:
		return r.pageByUpvotes(ctx, match, -1, params)
	case AnswerSortLowestUpvotes:
		return r.pageByUpvotes(ctx, match, 1, params)
	case AnswerSortOld:
		params.Sort = bson.D{{Key: "created_at", Value: 1}}
	default: // recent
		params.Sort = bson.D{{Key: "created_at", Value: -1}}
	}

	page, err := r.mongoRepo.FindPage(ctx, match, params)
	if err != nil {
		r.logger.Error("failed to list answers", zap.Error(err), zap.String("question_id", questionID.Hex()))
		return nil, fmt.Errorf("list answers failed: %w", err)
	}
	return page, nil
}

func (r *answerRepository) ByAuthor(ctx context.Context, author primitive.ObjectID, params db.PageParams) (*db.Page[model.Answer], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	return r.pageByUpvotes(ctx, db.NewFilter().ObjectID("author", author).Build(), -1, params)
}

func (r *answerRepository) pageByUpvotes(ctx context.Context, match bson.M, order int, params db.PageParams) (*db.Page[model.Answer], error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 10
	}
	skip := (params.Page - 1) * params.PageSize

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"upvote_count": bson.M{"$size": "$upvotes"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "upvote_count", Value: order}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: params.PageSize}},
	}

	answers, err := db.Aggregate[model.Answer, model.Answer](ctx, r.mongoRepo, pipeline)
	if err != nil {
		r.logger.Error("failed to page answers by upvotes", zap.Error(err))
		return nil, fmt.Errorf("page answers failed: %w", err)
	}

	total, err := r.mongoRepo.Count(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count answers failed: %w", err)
	}

	return &db.Page[model.Answer]{
		Data:     answers,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		HasNext:  db.HasNextPage(total, skip, len(answers)),
	}, nil
}

func (r *answerRepository) IDsByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	answers, err := r.mongoRepo.FindAll(ctx, db.NewFilter().ObjectID("question", questionID).Build())
	if err != nil {
		return nil, fmt.Errorf("find question answer ids failed: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// RefsByAuthor returns all of an author's answers, used by the
// user-delete cascade to pull each answer out of its parent question.
func (r *answerRepository) RefsByAuthor(ctx context.Context, author primitive.ObjectID) ([]model.Answer, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	answers, err := r.mongoRepo.FindAll(ctx, db.NewFilter().ObjectID("author", author).Build())
	if err != nil {
		return nil, fmt.Errorf("find author answers failed: %w", err)
	}
	return answers, nil
}

func (r *answerRepository) SearchContent(ctx context.Context, query string, limit int64) ([]model.Answer, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	answers, err := r.mongoRepo.FindAll(ctx,
		db.NewFilter().Contains("content", query).Build(),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search answers failed: %w", err)
	}
	return answers, nil
}

func (r *answerRepository) CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	return castVote[model.Answer](ctx, r.mongoRepo, id, voter, dir)
}

func (r *answerRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	return r.mongoRepo.Count(ctx, db.NewFilter().ObjectID("author", author).Build())
}

func (r *answerRepository) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": author}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "value": bson.M{"$size": "$upvotes"}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$value"}}}},
	}

	rows, err := db.Aggregate[model.Answer, totalRow](ctx, r.mongoRepo, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum answer upvotes failed: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
