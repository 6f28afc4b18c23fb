package configuration

import (
	"context"
	"fmt"
	"time"

	"DevFlow/internal/auth"
	"DevFlow/internal/db"
	"DevFlow/internal/handler"
	"DevFlow/internal/hub"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"
	"DevFlow/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Container struct {
	QuestionHandler handler.QuestionHandler
	AnswerHandler   handler.AnswerHandler
	UserHandler     handler.UserHandler
	TagHandler      handler.TagHandler
	VoteHandler     handler.VoteHandler
	SearchHandler   handler.SearchHandler
	Tokens          *auth.TokenService
	Hub             *hub.Hub
	Config          Config
	Logger          *zap.Logger

	// private - for cleanup
	mongoClient *mongo.Database
}

func BuildContainer() (*Container, error) {
	config, err := LoadConfig(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	con, err := db.OpenConnection(config.Mongo.Uri, config.Mongo.Database)
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(config.Auth.JwtSecret, config.Auth.JwtIssuer)
	if err != nil {
		return nil, err
	}

	userRepo := repo.NewUserRepository(
		db.NewRepository[model.User](con, config.Mongo.UsersCollection), logger)
	questionRepo := repo.NewQuestionRepository(
		db.NewRepository[model.Question](con, config.Mongo.QuestionsCollection), logger)
	answerRepo := repo.NewAnswerRepository(
		db.NewRepository[model.Answer](con, config.Mongo.AnswersCollection), logger)
	tagRepo := repo.NewTagRepository(
		db.NewRepository[model.Tag](con, config.Mongo.TagsCollection), logger)
	interactionRepo := repo.NewInteractionRepository(
		db.NewRepository[model.Interaction](con, config.Mongo.InteractionsCollection), logger)

	feedHub := hub.NewHub(config.Server.CorsOrigins, logger)

	userService := service.NewUserService(
		userRepo, questionRepo, answerRepo, tagRepo, interactionRepo, logger)
	questionService := service.NewQuestionService(
		questionRepo, answerRepo, tagRepo, userRepo, interactionRepo, feedHub, logger)
	answerService := service.NewAnswerService(
		answerRepo, questionRepo, userRepo, interactionRepo, feedHub, logger)
	voteService := service.NewVoteService(
		questionRepo, answerRepo, userRepo, interactionRepo, feedHub, logger)
	tagService := service.NewTagService(tagRepo)
	searchService := service.NewSearchService(
		questionRepo, answerRepo, userRepo, tagRepo, logger)

	return &Container{
		QuestionHandler: handler.NewQuestionHandler(questionService, userService),
		AnswerHandler:   handler.NewAnswerHandler(answerService, userService),
		UserHandler:     handler.NewUserHandler(userService),
		TagHandler:      handler.NewTagHandler(tagService, userService),
		VoteHandler:     handler.NewVoteHandler(voteService, userService),
		SearchHandler:   handler.NewSearchHandler(searchService),
		Tokens:          tokens,
		Hub:             feedHub,
		Config:          *config,
		Logger:          logger,
		mongoClient:     con,
	}, nil
}

// Close gracefully shuts down all connections
func (c *Container) Close() error {
	// Stop the hub first (closes all WebSocket connections)
	if c.Hub != nil {
		c.Hub.Stop()
	}

	// Sync logger
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	// Close MongoDB connection pool
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
