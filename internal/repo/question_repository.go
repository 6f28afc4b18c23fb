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

// Question listing filters.
const (
	QuestionFilterNewest     = "newest"
	QuestionFilterFrequent   = "frequent"
	QuestionFilterUnanswered = "unanswered"
)

// Saved/tagged question sort filters.
const (
	SavedFilterMostRecent   = "most_recent"
	SavedFilterOldest       = "oldest"
	SavedFilterMostVoted    = "most_voted"
	SavedFilterMostViewed   = "most_viewed"
	SavedFilterMostAnswered = "most_answered"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, title, content string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, search, filter string, params db.PageParams) (*db.Page[model.Question], error)
	ByAuthor(ctx context.Context, author primitive.ObjectID, params db.PageParams) (*db.Page[model.Question], error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID, search, filter string, params db.PageParams) (*db.Page[model.Question], error)
	IDsByAuthor(ctx context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error)
	AttachTags(ctx context.Context, id primitive.ObjectID, tagIDs []primitive.ObjectID) error
	AttachAnswer(ctx context.Context, id, answerID primitive.ObjectID) error
	PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error)
	Hot(ctx context.Context) ([]model.HotQuestion, error)
	SearchTitle(ctx context.Context, query string, limit int64) ([]model.Question, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}

type questionRepository struct {
	mongoRepo *db.Repository[model.Question]
	logger    *zap.Logger
}

func NewQuestionRepository(repo *db.Repository[model.Question], logger *zap.Logger) QuestionRepository {
	return &questionRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) (primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitForRetry(ctx, attempt); err != nil {
				return primitive.NilObjectID, err
			}
		}

		result, err := r.mongoRepo.Create(ctx, *question)
		if err == nil {
			id, _ := result.InsertedID.(primitive.ObjectID)
			r.logger.Info("question created",
				zap.String("question_id", id.Hex()),
				zap.String("author", question.Author.Hex()),
				zap.Int("attempt", attempt+1),
			)
			return id, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}

		r.logger.Warn("question insert failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	r.logger.Error("failed to create question", zap.Error(lastErr))
	return primitive.NilObjectID, fmt.Errorf("create question failed: %w", lastErr)
}

func (r *questionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	question, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return question, nil
}

func (r *questionRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, title, content string) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.UpdateByID(ctx, id, bson.M{"title": title, "content": content})
	if err != nil {
		r.logger.Error("failed to update question", zap.Error(err), zap.String("question_id", id.Hex()))
		return fmt.Errorf("update question failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.DeleteByID(ctx, id)
	if err != nil {
		r.logger.Error("failed to delete question", zap.Error(err), zap.String("question_id", id.Hex()))
		return fmt.Errorf("delete question failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) List(ctx context.Context, search, filter string, params db.PageParams) (*db.Page[model.Question], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	fb := db.NewFilter()
	if search != "" {
		fb.Or(
			bson.M{"title": db.ContainsPattern(search)},
			bson.M{"content": db.ContainsPattern(search)},
		)
	}

	switch filter {
	case QuestionFilterFrequent:
		params.Sort = bson.D{{Key: "views", Value: -1}}
	case QuestionFilterUnanswered:
		fb.Size("answers", 0)
		params.Sort = bson.D{{Key: "created_at", Value: -1}}
	default: // newest
		params.Sort = bson.D{{Key: "created_at", Value: -1}}
	}

	page, err := r.mongoRepo.FindPage(ctx, fb.Build(), params)
	if err != nil {
		r.logger.Error("failed to list questions", zap.Error(err), zap.String("filter", filter))
		return nil, fmt.Errorf("list questions failed: %w", err)
	}
	return page, nil
}

func (r *questionRepository) ByAuthor(ctx context.Context, author primitive.ObjectID, params db.PageParams) (*db.Page[model.Question], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	params.Sort = bson.D{
		{Key: "created_at", Value: -1},
		{Key: "views", Value: -1},
	}

	page, err := r.mongoRepo.FindPage(ctx, db.NewFilter().ObjectID("author", author).Build(), params)
	if err != nil {
		r.logger.Error("failed to list author questions", zap.Error(err), zap.String("author", author.Hex()))
		return nil, fmt.Errorf("list author questions failed: %w", err)
	}
	return page, nil
}

// ByIDs pages through an explicit id set (a user's saved list or a tag's
// back-references). Sorting by vote or answer counts needs the array
// lengths, so this path runs an aggregation instead of a plain find.
func (r *questionRepository) ByIDs(ctx context.Context, ids []primitive.ObjectID, search, filter string, params db.PageParams) (*db.Page[model.Question], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 10
	}

	match := bson.M{"_id": bson.M{"$in": ids}}
	if search != "" {
		match["title"] = db.ContainsPattern(search)
	}

	var sort bson.D
	switch filter {
	case SavedFilterOldest:
		sort = bson.D{{Key: "created_at", Value: 1}}
	case SavedFilterMostVoted:
		sort = bson.D{{Key: "upvote_count", Value: -1}}
	case SavedFilterMostViewed:
		sort = bson.D{{Key: "views", Value: -1}}
	case SavedFilterMostAnswered:
		sort = bson.D{{Key: "answer_count", Value: -1}}
	default: // most_recent
		sort = bson.D{{Key: "created_at", Value: -1}}
	}

	skip := (params.Page - 1) * params.PageSize
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"upvote_count": bson.M{"$size": "$upvotes"},
			"answer_count": bson.M{"$size": "$answers"},
		}}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: params.PageSize}},
	}

	questions, err := db.Aggregate[model.Question, model.Question](ctx, r.mongoRepo, pipeline)
	if err != nil {
		r.logger.Error("failed to page questions by ids", zap.Error(err))
		return nil, fmt.Errorf("page questions by ids failed: %w", err)
	}

	total, err := r.mongoRepo.Count(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count questions by ids failed: %w", err)
	}

	return &db.Page[model.Question]{
		Data:     questions,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		HasNext:  db.HasNextPage(total, skip, len(questions)),
	}, nil
}

func (r *questionRepository) IDsByAuthor(ctx context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	questions, err := r.mongoRepo.FindAll(ctx, db.NewFilter().ObjectID("author", author).Build())
	if err != nil {
		return nil, fmt.Errorf("find author question ids failed: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (r *questionRepository) AttachTags(ctx context.Context, id primitive.ObjectID, tagIDs []primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.ApplyByID(ctx, id, bson.M{
		"$push": bson.M{"tags": bson.M{"$each": tagIDs}},
	})
	if err != nil {
		r.logger.Error("failed to attach tags", zap.Error(err), zap.String("question_id", id.Hex()))
		return fmt.Errorf("attach tags failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) AttachAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.ApplyByID(ctx, id, bson.M{"$push": bson.M{"answers": answerID}})
	if err != nil {
		return fmt.Errorf("attach answer failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.ApplyByID(ctx, id, bson.M{"$pull": bson.M{"answers": answerID}})
	if err != nil {
		return fmt.Errorf("pull answer failed: %w", err)
	}
	return nil
}

func (r *questionRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.ApplyByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	return castVote[model.Question](ctx, r.mongoRepo, id, voter, dir)
}

// Hot returns the five most viewed questions, upvote count breaking ties.
// The upvotes field is a reference list, so its length is projected before
// sorting.
func (r *questionRepository) Hot(ctx context.Context) ([]model.HotQuestion, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"title":        1,
			"views":        1,
			"upvote_count": bson.M{"$size": "$upvotes"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "views", Value: -1},
			{Key: "upvote_count", Value: -1},
		}}},
		{{Key: "$limit", Value: 5}},
	}

	hot, err := db.Aggregate[model.Question, model.HotQuestion](ctx, r.mongoRepo, pipeline)
	if err != nil {
		r.logger.Error("failed to aggregate hot questions", zap.Error(err))
		return nil, fmt.Errorf("hot questions failed: %w", err)
	}
	return hot, nil
}

func (r *questionRepository) SearchTitle(ctx context.Context, query string, limit int64) ([]model.Question, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	questions, err := r.mongoRepo.FindAll(ctx,
		db.NewFilter().Contains("title", query).Build(),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search questions failed: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	return r.mongoRepo.Count(ctx, db.NewFilter().ObjectID("author", author).Build())
}

func (r *questionRepository) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return r.sumByAuthor(ctx, author, bson.M{"$size": "$upvotes"})
}

func (r *questionRepository) SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return r.sumByAuthor(ctx, author, "$views")
}

type totalRow struct {
	Total int64 `bson:"total"`
}

func (r *questionRepository) sumByAuthor(ctx context.Context, author primitive.ObjectID, expr interface{}) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": author}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "value": expr}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$value"}}}},
	}

	rows, err := db.Aggregate[model.Question, totalRow](ctx, r.mongoRepo, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum by author failed: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
