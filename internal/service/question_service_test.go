package service

import (
	"context"
	"strings"
	"testing"

	"DevFlow/internal/event"
	"DevFlow/internal/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newQuestionFixture() (QuestionService, *fakeQuestionRepo, *fakeTagRepo, *fakeUserRepo, *fakeInteractionRepo, *capturePublisher) {
	questions := newFakeQuestionRepo()
	answers := newFakeAnswerRepo()
	tags := newFakeTagRepo()
	users := newFakeUserRepo()
	interactions := &fakeInteractionRepo{}
	feed := &capturePublisher{}

	svc := NewQuestionService(questions, answers, tags, users, interactions, feed, zap.NewNop())
	return svc, questions, tags, users, interactions, feed
}

func validQuestionContent() string {
	return strings.Repeat("how does this work ", 3)
}

func TestCreateQuestionResolvesTagsCaseInsensitively(t *testing.T) {
	svc, questions, tags, _, _, _ := newQuestionFixture()
	author := primitive.NewObjectID()

	// Three askers spell the same tag differently; all must resolve to one
	// canonical document carrying the first-seen casing.
	for _, spelling := range []string{"React", "react", "REACT"} {
		_, err := svc.Create(context.Background(), author,
			"How do hooks work?", validQuestionContent(), []string{spelling})
		require.NoError(t, err)
	}

	require.Len(t, tags.tags, 1)
	tag := tags.tags["react"]
	require.Equal(t, "React", tag.Name)
	require.Len(t, tag.Questions, 3)
	require.Len(t, questions.created, 3)
}

func TestCreateQuestionAttachesResolvedTags(t *testing.T) {
	svc, questions, tags, _, _, _ := newQuestionFixture()
	author := primitive.NewObjectID()

	question, err := svc.Create(context.Background(), author,
		"How do goroutines leak?", validQuestionContent(), []string{"go", "concurrency"})
	require.NoError(t, err)

	require.Len(t, question.Tags, 2)
	require.Equal(t, question.Tags, questions.attached[question.ID])
	require.Len(t, tags.tags, 2)
}

func TestCreateQuestionGrantsReputationAndLogs(t *testing.T) {
	svc, _, _, users, interactions, feed := newQuestionFixture()
	author := primitive.NewObjectID()

	question, err := svc.Create(context.Background(), author,
		"How do goroutines leak?", validQuestionContent(), []string{"go"})
	require.NoError(t, err)

	require.Equal(t, 5, users.reputation[author])

	require.Len(t, interactions.recorded, 1)
	require.Equal(t, model.ActionAskQuestion, interactions.recorded[0].Action)
	require.Equal(t, question.ID, interactions.recorded[0].Question)
	require.Equal(t, question.Tags, interactions.recorded[0].Tags)

	require.Len(t, feed.events, 1)
	require.Equal(t, event.EventQuestionPosted, feed.events[0].Type)
	require.Equal(t, question.ID.Hex(), feed.events[0].QuestionID)
}

func TestCreateQuestionDropsBlankTagsBeforeValidation(t *testing.T) {
	svc, _, tags, _, _, _ := newQuestionFixture()

	_, err := svc.Create(context.Background(), primitive.NewObjectID(),
		"How do goroutines leak?", validQuestionContent(), []string{"go", "  ", ""})
	require.NoError(t, err)
	require.Len(t, tags.tags, 1)
}

func TestCreateQuestionRejectsInvalidInput(t *testing.T) {
	svc, questions, _, users, _, _ := newQuestionFixture()

	_, err := svc.Create(context.Background(), primitive.NewObjectID(),
		"Hm?", validQuestionContent(), []string{"go"})
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "title", vErr.Field)

	// Only blank tags left after trimming means no tags at all.
	_, err = svc.Create(context.Background(), primitive.NewObjectID(),
		"How do goroutines leak?", validQuestionContent(), []string{" ", ""})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "tags", vErr.Field)

	require.Empty(t, questions.created)
	require.Empty(t, users.reputation)
}

func TestViewCountsOncePerViewer(t *testing.T) {
	svc, questions, _, _, interactions, _ := newQuestionFixture()

	question := &model.Question{ID: primitive.NewObjectID()}
	questions.questions[question.ID] = question
	viewer := primitive.NewObjectID()

	require.NoError(t, svc.View(context.Background(), question.ID, viewer))
	require.EqualValues(t, 1, question.Views)
	require.Len(t, interactions.recorded, 1)
	require.Equal(t, model.ActionView, interactions.recorded[0].Action)

	// A repeat view still bumps the counter but logs nothing new.
	interactions.viewed = true
	require.NoError(t, svc.View(context.Background(), question.ID, viewer))
	require.EqualValues(t, 2, question.Views)
	require.Len(t, interactions.recorded, 1)
}

func TestViewAnonymousViewerSkipsInteraction(t *testing.T) {
	svc, questions, _, _, interactions, _ := newQuestionFixture()

	question := &model.Question{ID: primitive.NewObjectID()}
	questions.questions[question.ID] = question

	require.NoError(t, svc.View(context.Background(), question.ID, primitive.NilObjectID))
	require.EqualValues(t, 1, question.Views)
	require.Empty(t, interactions.recorded)
}

func TestDeleteQuestionCascades(t *testing.T) {
	questions := newFakeQuestionRepo()
	answers := newFakeAnswerRepo()
	tags := newFakeTagRepo()
	users := newFakeUserRepo()
	interactions := &fakeInteractionRepo{}
	svc := NewQuestionService(questions, answers, tags, users, interactions, &capturePublisher{}, zap.NewNop())

	author := primitive.NewObjectID()
	question := &model.Question{ID: primitive.NewObjectID(), Author: author}
	questions.questions[question.ID] = question

	answer := &model.Answer{Question: question.ID, Author: primitive.NewObjectID()}
	_, err := answers.Create(context.Background(), answer)
	require.NoError(t, err)

	tag, err := tags.UpsertByName(context.Background(), "go", question.ID)
	require.NoError(t, err)

	saver := &model.User{ID: primitive.NewObjectID(), Saved: []primitive.ObjectID{question.ID}}
	users.users[saver.ID] = saver

	unrelated := primitive.NewObjectID()
	interactions.recorded = []*model.Interaction{
		{User: author, Action: model.ActionAskQuestion, Question: question.ID},
		{User: saver.ID, Action: model.ActionAnswer, Answer: answer.ID},
		{User: saver.ID, Action: model.ActionView, Question: unrelated},
	}

	require.NoError(t, svc.Delete(context.Background(), question.ID))

	require.Empty(t, questions.questions)
	require.Empty(t, answers.answers)
	require.Empty(t, tag.Questions)
	require.Empty(t, saver.Saved)

	// Only the interaction on the unrelated question survives.
	require.Len(t, interactions.recorded, 1)
	require.Equal(t, unrelated, interactions.recorded[0].Question)
}

func TestEditQuestionValidates(t *testing.T) {
	svc, _, _, _, _, _ := newQuestionFixture()

	err := svc.Edit(context.Background(), primitive.NewObjectID(), "ok title", "short")
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "content", vErr.Field)
}
