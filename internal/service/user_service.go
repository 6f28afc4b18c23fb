package service

import (
	"DevFlow/internal/badge"
	"DevFlow/internal/db"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserInfo is the profile view: counters, reputation and the badge counts
// derived from them. Badges are recomputed on every call, never stored.
type UserInfo struct {
	User           model.User   `json:"user"`
	TotalQuestions int64        `json:"totalQuestions"`
	TotalAnswers   int64        `json:"totalAnswers"`
	BadgeCounts    badge.Counts `json:"badgeCounts"`
	Reputation     int          `json:"reputation"`
}

type UserService interface {
	EnsureUser(ctx context.Context, authID, name, username, email, picture string) (*model.User, error)
	GetByAuthID(ctx context.Context, authID string) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, search, filter string, page, pageSize int64) (*db.Page[model.User], error)
	Info(ctx context.Context, authID string) (*UserInfo, error)
	ToggleSave(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error)
	SavedQuestions(ctx context.Context, userID primitive.ObjectID, search, filter string, page, pageSize int64) (*db.Page[model.Question], error)
	Questions(ctx context.Context, userID primitive.ObjectID, page, pageSize int64) (*db.Page[model.Question], error)
	Answers(ctx context.Context, userID primitive.ObjectID, page, pageSize int64) (*db.Page[model.Answer], error)
	TopInteractedTags(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Tag, error)
}

type userService struct {
	users        repo.UserRepository
	questions    repo.QuestionRepository
	answers      repo.AnswerRepository
	tags         repo.TagRepository
	interactions repo.InteractionRepository
	logger       *zap.Logger
}

func NewUserService(
	users repo.UserRepository,
	questions repo.QuestionRepository,
	answers repo.AnswerRepository,
	tags repo.TagRepository,
	interactions repo.InteractionRepository,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:        users,
		questions:    questions,
		answers:      answers,
		tags:         tags,
		interactions: interactions,
		logger:       logger,
	}
}

// EnsureUser maps an external auth subject id to a user document, creating
// it on first sign-in.
func (s *userService) EnsureUser(ctx context.Context, authID, name, username, email, picture string) (*model.User, error) {
	return s.users.Upsert(ctx, &model.User{
		AuthID:   authID,
		Name:     name,
		Username: username,
		Email:    email,
		Picture:  picture,
	})
}

func (s *userService) GetByAuthID(ctx context.Context, authID string) (*model.User, error) {
	return s.users.GetByAuthID(ctx, authID)
}

func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) error {
	if err := model.ValidateProfile(update); err != nil {
		return err
	}
	return s.users.UpdateProfile(ctx, id, update)
}

// Delete removes the user and cascades over their content: every owned
// question with its full cascade, their answers on other questions (pulled
// from the parents), and their interaction log. Steps are not atomic;
// partial state is left for operational reconciliation.
func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) error {
	questionIDs, err := s.questions.IDsByAuthor(ctx, id)
	if err != nil {
		return err
	}
	for _, qid := range questionIDs {
		// A concurrent delete of the same question already cascaded it.
		if _, err := deleteQuestionCascade(ctx, s.questions, s.answers, s.tags, s.users, s.interactions, qid); err != nil && err != repo.ErrNotFound {
			return err
		}
	}

	answers, err := s.answers.RefsByAuthor(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range answers {
		if err := s.questions.PullAnswer(ctx, a.Question, a.ID); err != nil {
			return err
		}
		if err := s.interactions.DeleteByAnswer(ctx, a.ID); err != nil {
			return err
		}
	}
	if err := s.answers.DeleteByAuthor(ctx, id); err != nil {
		return err
	}
	if err := s.interactions.DeleteByUser(ctx, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.Hex()),
		zap.Int("questions_removed", len(questionIDs)),
		zap.Int("answers_removed", len(answers)),
	)
	return nil
}

func (s *userService) List(ctx context.Context, search, filter string, page, pageSize int64) (*db.Page[model.User], error) {
	return s.users.List(ctx, search, filter, db.PageParams{Page: page, PageSize: pageSize})
}

// Info aggregates the activity counters for a profile view and derives
// badge counts from them.
func (s *userService) Info(ctx context.Context, authID string) (*UserInfo, error) {
	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	totalQuestions, err := s.questions.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	totalAnswers, err := s.answers.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	questionUpvotes, err := s.questions.SumUpvotesByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	answerUpvotes, err := s.answers.SumUpvotesByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	totalViews, err := s.questions.SumViewsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	badgeCounts := badge.Assign([]badge.CriterionCount{
		{Type: badge.QuestionCount, Count: totalQuestions},
		{Type: badge.AnswerCount, Count: totalAnswers},
		{Type: badge.QuestionUpvotes, Count: questionUpvotes},
		{Type: badge.AnswerUpvotes, Count: answerUpvotes},
		{Type: badge.TotalViews, Count: totalViews},
	})

	return &UserInfo{
		User:           *user,
		TotalQuestions: totalQuestions,
		TotalAnswers:   totalAnswers,
		BadgeCounts:    badgeCounts,
		Reputation:     user.Reputation,
	}, nil
}

func (s *userService) ToggleSave(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		return false, err
	}
	return s.users.ToggleSaved(ctx, userID, questionID)
}

func (s *userService) SavedQuestions(ctx context.Context, userID primitive.ObjectID, search, filter string, page, pageSize int64) (*db.Page[model.Question], error) {
	ids, err := s.users.SavedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.questions.ByIDs(ctx, ids, search, filter, db.PageParams{Page: page, PageSize: pageSize})
}

func (s *userService) Questions(ctx context.Context, userID primitive.ObjectID, page, pageSize int64) (*db.Page[model.Question], error) {
	return s.questions.ByAuthor(ctx, userID, db.PageParams{Page: page, PageSize: pageSize})
}

func (s *userService) Answers(ctx context.Context, userID primitive.ObjectID, page, pageSize int64) (*db.Page[model.Answer], error) {
	return s.answers.ByAuthor(ctx, userID, db.PageParams{Page: page, PageSize: pageSize})
}

// TopInteractedTags resolves the user's most frequent interaction tags to
// tag documents, preserving frequency order.
func (s *userService) TopInteractedTags(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Tag, error) {
	counts, err := s.interactions.TopTagsForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []model.Tag{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.TagID)
	}

	tags, err := s.tags.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]model.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	ordered := make([]model.Tag, 0, len(counts))
	for _, c := range counts {
		if t, ok := byID[c.TagID]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}
