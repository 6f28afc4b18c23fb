package service

import (
	"DevFlow/internal/repo"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Global search result caps: 2 per class when scanning every class, 8 when
// restricted to one.
const (
	globalSearchLimit   = 2
	filteredSearchLimit = 8
)

// Searchable entity classes.
const (
	SearchTypeQuestion = "question"
	SearchTypeAnswer   = "answer"
	SearchTypeUser     = "user"
	SearchTypeTag      = "tag"
)

// SearchResult is one global search hit. For answers the id points at the
// parent question; for users it is the external auth id.
type SearchResult struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

type SearchService interface {
	Global(ctx context.Context, query, searchType string) ([]SearchResult, error)
}

type searchService struct {
	questions repo.QuestionRepository
	answers   repo.AnswerRepository
	users     repo.UserRepository
	tags      repo.TagRepository
	logger    *zap.Logger
}

func NewSearchService(
	questions repo.QuestionRepository,
	answers repo.AnswerRepository,
	users repo.UserRepository,
	tags repo.TagRepository,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		questions: questions,
		answers:   answers,
		users:     users,
		tags:      tags,
		logger:    logger,
	}
}

// Global matches the query case-insensitively against question titles,
// user names, answer contents and tag names. An unknown or empty type
// scans every class with the small cap; a valid type restricts to that
// class with the larger cap.
func (s *searchService) Global(ctx context.Context, query, searchType string) ([]SearchResult, error) {
	searchType = strings.ToLower(searchType)

	types := []string{SearchTypeQuestion, SearchTypeUser, SearchTypeAnswer, SearchTypeTag}
	limit := int64(globalSearchLimit)
	if isSearchableType(searchType) {
		types = []string{searchType}
		limit = filteredSearchLimit
	}

	results := make([]SearchResult, 0, limit*int64(len(types)))
	for _, t := range types {
		hits, err := s.searchClass(ctx, t, query, limit)
		if err != nil {
			s.logger.Error("global search failed", zap.Error(err), zap.String("type", t))
			return nil, err
		}
		results = append(results, hits...)
	}
	return results, nil
}

func (s *searchService) searchClass(ctx context.Context, searchType, query string, limit int64) ([]SearchResult, error) {
	switch searchType {
	case SearchTypeQuestion:
		questions, err := s.questions.SearchTitle(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results := make([]SearchResult, 0, len(questions))
		for _, q := range questions {
			results = append(results, SearchResult{ID: q.ID.Hex(), Type: SearchTypeQuestion, Title: q.Title})
		}
		return results, nil

	case SearchTypeUser:
		users, err := s.users.SearchName(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results := make([]SearchResult, 0, len(users))
		for _, u := range users {
			results = append(results, SearchResult{ID: u.AuthID, Type: SearchTypeUser, Title: u.Name})
		}
		return results, nil

	case SearchTypeAnswer:
		answers, err := s.answers.SearchContent(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results := make([]SearchResult, 0, len(answers))
		for _, a := range answers {
			results = append(results, SearchResult{
				ID:    a.Question.Hex(),
				Type:  SearchTypeAnswer,
				Title: fmt.Sprintf("Answers containing %s", query),
			})
		}
		return results, nil

	case SearchTypeTag:
		tags, err := s.tags.SearchName(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results := make([]SearchResult, 0, len(tags))
		for _, t := range tags {
			results = append(results, SearchResult{ID: t.ID.Hex(), Type: SearchTypeTag, Title: t.Name})
		}
		return results, nil
	}

	return nil, fmt.Errorf("invalid search type %q", searchType)
}

func isSearchableType(t string) bool {
	switch t {
	case SearchTypeQuestion, SearchTypeAnswer, SearchTypeUser, SearchTypeTag:
		return true
	}
	return false
}
