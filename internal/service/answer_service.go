package service

import (
	"DevFlow/internal/db"
	"DevFlow/internal/event"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AnswerService interface {
	Create(ctx context.Context, author, questionID primitive.ObjectID, content string) (*model.Answer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ByQuestion(ctx context.Context, questionID primitive.ObjectID, sortBy string, page, pageSize int64) (*db.Page[model.Answer], error)
}

type answerService struct {
	answers      repo.AnswerRepository
	questions    repo.QuestionRepository
	users        repo.UserRepository
	interactions repo.InteractionRepository
	feed         event.Publisher
	logger       *zap.Logger
}

func NewAnswerService(
	answers repo.AnswerRepository,
	questions repo.QuestionRepository,
	users repo.UserRepository,
	interactions repo.InteractionRepository,
	feed event.Publisher,
	logger *zap.Logger,
) AnswerService {
	return &answerService{
		answers:      answers,
		questions:    questions,
		users:        users,
		interactions: interactions,
		feed:         feed,
		logger:       logger,
	}
}

// Create validates and inserts an answer, appends it to the parent
// question's answers list, logs the answer interaction with the question's
// tag snapshot, and grants the author reputation.
func (s *answerService) Create(ctx context.Context, author, questionID primitive.ObjectID, content string) (*model.Answer, error) {
	if err := model.ValidateAnswer(content); err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		Content:   content,
		Author:    author,
		Question:  questionID,
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.answers.Create(ctx, answer)
	if err != nil {
		return nil, err
	}
	answer.ID = id

	if err := s.questions.AttachAnswer(ctx, questionID, id); err != nil {
		return nil, err
	}

	if err := s.interactions.Record(ctx, &model.Interaction{
		User:     author,
		Action:   model.ActionAnswer,
		Question: questionID,
		Answer:   id,
		Tags:     question.Tags,
	}); err != nil {
		s.logger.Warn("answer interaction not recorded", zap.Error(err))
	}

	if err := s.users.AdjustReputation(ctx, author, postAnswerReputation); err != nil {
		s.logger.Warn("author reputation not granted", zap.Error(err), zap.String("author", author.Hex()))
	}

	s.feed.Publish(event.Event{
		Type:       event.EventAnswerPosted,
		QuestionID: questionID.Hex(),
		AnswerID:   id.Hex(),
		ActorID:    author.Hex(),
		At:         time.Now().UTC(),
	})

	return answer, nil
}

// Delete removes the answer, pulls its id from the parent question and
// deletes the interactions referencing it.
func (s *answerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	answer, err := s.answers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.answers.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.questions.PullAnswer(ctx, answer.Question, id); err != nil {
		return err
	}
	if err := s.interactions.DeleteByAnswer(ctx, id); err != nil {
		return err
	}

	s.logger.Info("answer deleted",
		zap.String("answer_id", id.Hex()),
		zap.String("question_id", answer.Question.Hex()),
	)
	return nil
}

func (s *answerService) ByQuestion(ctx context.Context, questionID primitive.ObjectID, sortBy string, page, pageSize int64) (*db.Page[model.Answer], error) {
	return s.answers.ByQuestion(ctx, questionID, sortBy, db.PageParams{Page: page, PageSize: pageSize})
}
