package service

import (
	"DevFlow/internal/db"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagService interface {
	List(ctx context.Context, search string, page, pageSize int64) (*db.Page[model.Tag], error)
	Popular(ctx context.Context) ([]model.PopularTag, error)
	ToggleFollow(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error)
}

type tagService struct {
	tags repo.TagRepository
}

func NewTagService(tags repo.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) List(ctx context.Context, search string, page, pageSize int64) (*db.Page[model.Tag], error) {
	return s.tags.List(ctx, search, db.PageParams{Page: page, PageSize: pageSize})
}

func (s *tagService) Popular(ctx context.Context) ([]model.PopularTag, error) {
	return s.tags.Popular(ctx)
}

func (s *tagService) ToggleFollow(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error) {
	return s.tags.ToggleFollow(ctx, tagID, userID)
}
