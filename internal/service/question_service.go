package service

import (
	"DevFlow/internal/db"
	"DevFlow/internal/event"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reputation granted for posting content.
const (
	askQuestionReputation = 5
	postAnswerReputation  = 10
)

// QuestionDetail is a question with its references resolved for display.
type QuestionDetail struct {
	Question model.Question `json:"question"`
	Author   *model.User    `json:"author,omitempty"`
	Tags     []model.Tag    `json:"tags"`
}

// TagQuestions is one tag's question listing.
type TagQuestions struct {
	TagName   string                   `json:"tagName"`
	Questions *db.Page[model.Question] `json:"questions"`
}

type QuestionService interface {
	Create(ctx context.Context, author primitive.ObjectID, title, content string, tags []string) (*model.Question, error)
	Get(ctx context.Context, id primitive.ObjectID) (*QuestionDetail, error)
	Edit(ctx context.Context, id primitive.ObjectID, title, content string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, search, filter string, page, pageSize int64) (*db.Page[model.Question], error)
	View(ctx context.Context, id, viewer primitive.ObjectID) error
	Hot(ctx context.Context) ([]model.HotQuestion, error)
	ByTag(ctx context.Context, tagID primitive.ObjectID, search string, page, pageSize int64) (*TagQuestions, error)
}

type questionService struct {
	questions    repo.QuestionRepository
	answers      repo.AnswerRepository
	tags         repo.TagRepository
	users        repo.UserRepository
	interactions repo.InteractionRepository
	feed         event.Publisher
	logger       *zap.Logger
}

func NewQuestionService(
	questions repo.QuestionRepository,
	answers repo.AnswerRepository,
	tags repo.TagRepository,
	users repo.UserRepository,
	interactions repo.InteractionRepository,
	feed event.Publisher,
	logger *zap.Logger,
) QuestionService {
	return &questionService{
		questions:    questions,
		answers:      answers,
		tags:         tags,
		users:        users,
		interactions: interactions,
		feed:         feed,
		logger:       logger,
	}
}

// Create validates and inserts a question, resolves its free-text tags to
// canonical tag documents, logs the ask_question interaction with the tag
// snapshot, and grants the author reputation.
func (s *questionService) Create(ctx context.Context, author primitive.ObjectID, title, content string, tagNames []string) (*model.Question, error) {
	tagNames = Filter(tagNames, func(t string) bool {
		return strings.TrimSpace(t) != ""
	})
	if err := model.ValidateQuestion(title, content, tagNames); err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:     title,
		Content:   content,
		Author:    author,
		Tags:      []primitive.ObjectID{},
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		Answers:   []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.questions.Create(ctx, question)
	if err != nil {
		return nil, err
	}
	question.ID = id

	tagIDs := make([]primitive.ObjectID, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := s.tags.UpsertByName(ctx, strings.TrimSpace(name), id)
		if err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.questions.AttachTags(ctx, id, tagIDs); err != nil {
		return nil, err
	}
	question.Tags = tagIDs

	if err := s.interactions.Record(ctx, &model.Interaction{
		User:     author,
		Action:   model.ActionAskQuestion,
		Question: id,
		Tags:     tagIDs,
	}); err != nil {
		s.logger.Warn("ask_question interaction not recorded", zap.Error(err))
	}

	if err := s.users.AdjustReputation(ctx, author, askQuestionReputation); err != nil {
		s.logger.Warn("author reputation not granted", zap.Error(err), zap.String("author", author.Hex()))
	}

	s.feed.Publish(event.Event{
		Type:       event.EventQuestionPosted,
		QuestionID: id.Hex(),
		ActorID:    author.Hex(),
		Title:      title,
		At:         time.Now().UTC(),
	})

	return question, nil
}

func (s *questionService) Get(ctx context.Context, id primitive.ObjectID) (*QuestionDetail, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tags.ByIDs(ctx, question.Tags)
	if err != nil {
		return nil, err
	}

	detail := &QuestionDetail{Question: *question, Tags: tags}

	author, err := s.users.GetByID(ctx, question.Author)
	if err == nil {
		detail.Author = author
	} else if err != repo.ErrNotFound {
		return nil, err
	}

	return detail, nil
}

func (s *questionService) Edit(ctx context.Context, id primitive.ObjectID, title, content string) error {
	if err := model.ValidateQuestionContent(title, content); err != nil {
		return err
	}
	return s.questions.UpdateContent(ctx, id, title, content)
}

// Delete removes the question and cascades: its answers, every interaction
// referencing it or its answers, its id in each tag's back-reference list,
// and its id in users' saved lists. The steps are not atomic; a failure
// part-way leaves partial state for operational reconciliation.
func (s *questionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	removed, err := deleteQuestionCascade(ctx, s.questions, s.answers, s.tags, s.users, s.interactions, id)
	if err != nil {
		return err
	}

	s.logger.Info("question deleted",
		zap.String("question_id", id.Hex()),
		zap.Int("answers_removed", removed),
	)
	return nil
}

// deleteQuestionCascade removes one question and everything hanging off
// it, in the order answers, interactions, tag back-references, saved-list
// entries, then the question itself. Returns how many answers went with
// it. Shared by question deletion and the per-question loop of user
// deletion so the two cascades cannot drift apart.
func deleteQuestionCascade(
	ctx context.Context,
	questions repo.QuestionRepository,
	answers repo.AnswerRepository,
	tags repo.TagRepository,
	users repo.UserRepository,
	interactions repo.InteractionRepository,
	id primitive.ObjectID,
) (int, error) {
	answerIDs, err := answers.IDsByQuestion(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := answers.DeleteByQuestion(ctx, id); err != nil {
		return 0, err
	}
	if err := interactions.DeleteByQuestion(ctx, id, answerIDs); err != nil {
		return 0, err
	}
	if err := tags.PullQuestion(ctx, id); err != nil {
		return 0, err
	}
	if err := users.PullSavedQuestion(ctx, id); err != nil {
		return 0, err
	}
	if err := questions.Delete(ctx, id); err != nil {
		return 0, err
	}
	return len(answerIDs), nil
}

func (s *questionService) List(ctx context.Context, search, filter string, page, pageSize int64) (*db.Page[model.Question], error) {
	return s.questions.List(ctx, search, filter, db.PageParams{Page: page, PageSize: pageSize})
}

// View bumps the monotonic view counter and logs a view interaction once
// per viewer.
func (s *questionService) View(ctx context.Context, id, viewer primitive.ObjectID) error {
	if err := s.questions.IncrementViews(ctx, id); err != nil {
		return err
	}

	if viewer.IsZero() {
		return nil
	}

	viewed, err := s.interactions.HasViewed(ctx, viewer, id)
	if err != nil {
		s.logger.Warn("view lookup failed", zap.Error(err))
		return nil
	}
	if viewed {
		return nil
	}

	if err := s.interactions.Record(ctx, &model.Interaction{
		User:     viewer,
		Action:   model.ActionView,
		Question: id,
	}); err != nil {
		s.logger.Warn("view interaction not recorded", zap.Error(err))
	}
	return nil
}

func (s *questionService) Hot(ctx context.Context) ([]model.HotQuestion, error) {
	return s.questions.Hot(ctx)
}

func (s *questionService) ByTag(ctx context.Context, tagID primitive.ObjectID, search string, page, pageSize int64) (*TagQuestions, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ByIDs(ctx, tag.Questions, search, repo.SavedFilterMostRecent, db.PageParams{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &TagQuestions{TagName: tag.Name, Questions: questions}, nil
}
