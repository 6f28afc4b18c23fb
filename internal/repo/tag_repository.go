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

type TagRepository interface {
	UpsertByName(ctx context.Context, name string, questionID primitive.ObjectID) (*model.Tag, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tag, error)
	List(ctx context.Context, search string, params db.PageParams) (*db.Page[model.Tag], error)
	PullQuestion(ctx context.Context, questionID primitive.ObjectID) error
	Popular(ctx context.Context) ([]model.PopularTag, error)
	ToggleFollow(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error)
	SearchName(ctx context.Context, query string, limit int64) ([]model.Tag, error)
}

type tagRepository struct {
	mongoRepo *db.Repository[model.Tag]
	logger    *zap.Logger
}

func NewTagRepository(repo *db.Repository[model.Tag], logger *zap.Logger) TagRepository {
	return &tagRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// UpsertByName resolves a free-text tag to its canonical document and
// attaches the question in one atomic upsert. The name match is
// case-insensitive with the input escaped, so "React" and "react" resolve
// to the same document while the first-seen casing is preserved by
// $setOnInsert.
//
// Two concurrent upserts for an unseen name can still race on the unique
// name index; the loser gets a duplicate-key error. Policy: retry the
// lookup once without upsert and attach to the winner.
func (r *tagRepository) UpsertByName(ctx context.Context, name string, questionID primitive.ObjectID) (*model.Tag, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().EqFold("name", name).Build()
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":       name,
			"created_on": time.Now().UTC(),
		},
		"$addToSet": bson.M{"questions": questionID},
	}

	tag, err := r.mongoRepo.FindOneAndApply(ctx, filter, update, true)
	if err == nil {
		return tag, nil
	}

	if !mongo.IsDuplicateKeyError(err) {
		r.logger.Error("failed to upsert tag", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("upsert tag failed: %w", err)
	}

	r.logger.Warn("tag upsert lost creation race, attaching to winner", zap.String("name", name))
	tag, err = r.mongoRepo.FindOneAndApply(ctx, filter, bson.M{"$addToSet": bson.M{"questions": questionID}}, false)
	if err != nil {
		r.logger.Error("failed to attach to winning tag", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("upsert tag failed after retry: %w", mapFindErr(err))
	}
	return tag, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	tag, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return tag, nil
}

func (r *tagRepository) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tag, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	tags, err := r.mongoRepo.FindAll(ctx, db.NewFilter().In("_id", ids).Build())
	if err != nil {
		return nil, fmt.Errorf("find tags by ids failed: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context, search string, params db.PageParams) (*db.Page[model.Tag], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	fb := db.NewFilter()
	if search != "" {
		fb.Contains("name", search)
	}
	if len(params.Sort) == 0 {
		params.Sort = bson.D{{Key: "created_on", Value: -1}}
	}

	page, err := r.mongoRepo.FindPage(ctx, fb.Build(), params)
	if err != nil {
		r.logger.Error("failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("list tags failed: %w", err)
	}
	return page, nil
}

// PullQuestion detaches a deleted question from every tag's back-reference
// list. Tags left with no questions are kept; they are only ever removed
// by operational cleanup.
func (r *tagRepository) PullQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.ApplyMany(ctx,
		bson.M{"questions": questionID},
		bson.M{"$pull": bson.M{"questions": questionID}},
	)
	if err != nil {
		r.logger.Error("failed to detach question from tags", zap.Error(err), zap.String("question_id", questionID.Hex()))
		return fmt.Errorf("detach question from tags failed: %w", err)
	}
	return nil
}

// Popular projects each tag's question count as the array length of its
// back-reference list, top five.
func (r *tagRepository) Popular(ctx context.Context) ([]model.PopularTag, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"name":           1,
			"question_count": bson.M{"$size": "$questions"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "question_count", Value: -1}}}},
		{{Key: "$limit", Value: 5}},
	}

	tags, err := db.Aggregate[model.Tag, model.PopularTag](ctx, r.mongoRepo, pipeline)
	if err != nil {
		r.logger.Error("failed to aggregate popular tags", zap.Error(err))
		return nil, fmt.Errorf("popular tags failed: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) SearchName(ctx context.Context, query string, limit int64) ([]model.Tag, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	tags, err := r.mongoRepo.FindAll(ctx,
		db.NewFilter().Contains("name", query).Build(),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search tags failed: %w", err)
	}
	return tags, nil
}

// ToggleFollow adds the user to the tag's followers set, or removes them
// if already following. Returns true when the user ended up following.
func (r *tagRepository) ToggleFollow(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.Apply(ctx,
		bson.M{"_id": tagID, "followers": userID},
		bson.M{"$pull": bson.M{"followers": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("toggle follow failed: %w", err)
	}
	if res.ModifiedCount == 1 {
		return false, nil
	}

	res, err = r.mongoRepo.ApplyByID(ctx, tagID, bson.M{"$addToSet": bson.M{"followers": userID}})
	if err != nil {
		return false, fmt.Errorf("toggle follow failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}
