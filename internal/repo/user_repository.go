package repo

import (
	"DevFlow/internal/db"
	"DevFlow/internal/model"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// User listing filters.
const (
	UserFilterNew             = "new_users"
	UserFilterOld             = "old_users"
	UserFilterTopContributors = "top_contributors"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByAuthID(ctx context.Context, authID string) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, search, filter string, params db.PageParams) (*db.Page[model.User], error)
	AdjustReputation(ctx context.Context, id primitive.ObjectID, delta int) error
	ToggleSaved(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error)
	SavedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	PullSavedQuestion(ctx context.Context, questionID primitive.ObjectID) error
	SearchName(ctx context.Context, query string, limit int64) ([]model.User, error)
}

type userRepository struct {
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(repo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// Upsert maps an external auth subject id to a user document, creating it
// on first sight. The upsert is a single atomic findOneAndUpdate keyed on
// auth_id, so concurrent first sign-ins cannot create two documents.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	joined := user.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	result, err := r.mongoRepo.FindOneAndApply(ctx,
		bson.M{"auth_id": user.AuthID},
		bson.M{"$setOnInsert": bson.M{
			"auth_id":    user.AuthID,
			"name":       user.Name,
			"username":   user.Username,
			"email":      user.Email,
			"picture":    user.Picture,
			"reputation": 0,
			"saved":      []primitive.ObjectID{},
			"joined_at":  joined,
		}},
		true,
	)
	if err != nil {
		r.logger.Error("failed to upsert user", zap.Error(err), zap.String("auth_id", user.AuthID))
		return nil, fmt.Errorf("upsert user failed: %w", err)
	}
	return result, nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return user, nil
}

func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*model.User, error) {
	if authID == "" {
		return nil, ErrInvalidID
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, bson.M{"auth_id": authID})
	if err != nil {
		return nil, mapFindErr(err)
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.UpdateByID(ctx, id, bson.M{
		"name":      update.Name,
		"username":  update.Username,
		"bio":       update.Bio,
		"location":  update.Location,
		"portfolio": update.Portfolio,
	})
	if err != nil {
		r.logger.Error("failed to update profile", zap.Error(err), zap.String("user_id", id.Hex()))
		return fmt.Errorf("update profile failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.DeleteByID(ctx, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.String("user_id", id.Hex()))
		return fmt.Errorf("delete user failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, search, filter string, params db.PageParams) (*db.Page[model.User], error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	fb := db.NewFilter()
	if search != "" {
		fb.Or(
			bson.M{"name": db.ContainsPattern(search)},
			bson.M{"username": db.ContainsPattern(search)},
		)
	}

	switch filter {
	case UserFilterOld:
		params.Sort = bson.D{{Key: "joined_at", Value: 1}}
	case UserFilterTopContributors:
		params.Sort = bson.D{{Key: "reputation", Value: -1}}
	default: // new_users
		params.Sort = bson.D{{Key: "joined_at", Value: -1}}
	}

	page, err := r.mongoRepo.FindPage(ctx, fb.Build(), params)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err), zap.String("filter", filter))
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return page, nil
}

func (r *userRepository) AdjustReputation(ctx context.Context, id primitive.ObjectID, delta int) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.ApplyByID(ctx, id, bson.M{"$inc": bson.M{"reputation": delta}})
	if err != nil {
		r.logger.Error("failed to adjust reputation",
			zap.Error(err),
			zap.String("user_id", id.Hex()),
			zap.Int("delta", delta),
		)
		return fmt.Errorf("adjust reputation failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleSaved adds the question to the user's saved set, or removes it if
// already present. Membership is derived inside the conditional update.
// Returns true when the question ended up saved.
func (r *userRepository) ToggleSaved(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := r.mongoRepo.Apply(ctx,
		bson.M{"_id": userID, "saved": questionID},
		bson.M{"$pull": bson.M{"saved": questionID}},
	)
	if err != nil {
		return false, fmt.Errorf("toggle saved failed: %w", err)
	}
	if res.ModifiedCount == 1 {
		return false, nil
	}

	res, err = r.mongoRepo.ApplyByID(ctx, userID, bson.M{"$addToSet": bson.M{"saved": questionID}})
	if err != nil {
		return false, fmt.Errorf("toggle saved failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

func (r *userRepository) SavedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return user.Saved, nil
}

func (r *userRepository) SearchName(ctx context.Context, query string, limit int64) ([]model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	users, err := r.mongoRepo.FindAll(ctx,
		db.NewFilter().Contains("name", query).Build(),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search users failed: %w", err)
	}
	return users, nil
}

// PullSavedQuestion detaches a deleted question from every user's saved
// list.
func (r *userRepository) PullSavedQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.ApplyMany(ctx,
		bson.M{"saved": questionID},
		bson.M{"$pull": bson.M{"saved": questionID}},
	)
	if err != nil {
		return fmt.Errorf("pull saved question failed: %w", err)
	}
	return nil
}
