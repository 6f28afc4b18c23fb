package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"DevFlow/internal/event"
	"DevFlow/internal/model"
	"DevFlow/internal/repo"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fakes embed the repository interface so only the methods a test exercises
// need stubbing; calling anything else panics on the nil embed.

type fakeQuestionRepo struct {
	repo.QuestionRepository

	questions map[primitive.ObjectID]*model.Question
	created   []*model.Question
	attached  map[primitive.ObjectID][]primitive.ObjectID
	deleted   []primitive.ObjectID

	transition model.VoteTransition
	castErr    error
	castCalls  int

	searchOut   []model.Question
	searchLimit int64

	countByAuthor int64
	sumUpvotes    int64
	sumViews      int64
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: make(map[primitive.ObjectID]*model.Question),
		attached:  make(map[primitive.ObjectID][]primitive.ObjectID),
	}
}

func (f *fakeQuestionRepo) Create(ctx context.Context, question *model.Question) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	question.ID = id
	f.questions[id] = question
	f.created = append(f.created, question)
	return id, nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionRepo) AttachTags(ctx context.Context, id primitive.ObjectID, tagIDs []primitive.ObjectID) error {
	f.attached[id] = append(f.attached[id], tagIDs...)
	return nil
}

func (f *fakeQuestionRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	q, ok := f.questions[id]
	if !ok {
		return repo.ErrNotFound
	}
	q.Views++
	return nil
}

func (f *fakeQuestionRepo) AttachAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	q, ok := f.questions[id]
	if !ok {
		return repo.ErrNotFound
	}
	q.Answers = append(q.Answers, answerID)
	return nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.questions[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.questions, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeQuestionRepo) IDsByAuthor(ctx context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, q := range f.questions {
		if q.Author == author {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeQuestionRepo) PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	q, ok := f.questions[id]
	if !ok {
		return nil
	}
	q.Answers = Filter(q.Answers, func(a primitive.ObjectID) bool { return a != answerID })
	return nil
}

func (f *fakeQuestionRepo) CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	f.castCalls++
	if f.castErr != nil {
		return "", f.castErr
	}
	return f.transition, nil
}

func (f *fakeQuestionRepo) SearchTitle(ctx context.Context, query string, limit int64) ([]model.Question, error) {
	f.searchLimit = limit
	if int64(len(f.searchOut)) > limit {
		return f.searchOut[:limit], nil
	}
	return f.searchOut, nil
}

func (f *fakeQuestionRepo) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return f.countByAuthor, nil
}

func (f *fakeQuestionRepo) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return f.sumUpvotes, nil
}

func (f *fakeQuestionRepo) SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return f.sumViews, nil
}

type fakeAnswerRepo struct {
	repo.AnswerRepository

	answers map[primitive.ObjectID]*model.Answer

	transition model.VoteTransition
	castErr    error
	castCalls  int

	searchOut   []model.Answer
	searchLimit int64

	countByAuthor int64
	sumUpvotes    int64
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[primitive.ObjectID]*model.Answer)}
}

func (f *fakeAnswerRepo) Create(ctx context.Context, answer *model.Answer) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	answer.ID = id
	f.answers[id] = answer
	return id, nil
}

func (f *fakeAnswerRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error) {
	a, ok := f.answers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (f *fakeAnswerRepo) IDsByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, a := range f.answers {
		if a.Question == questionID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeAnswerRepo) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	for id, a := range f.answers {
		if a.Question == questionID {
			delete(f.answers, id)
		}
	}
	return nil
}

func (f *fakeAnswerRepo) DeleteByAuthor(ctx context.Context, author primitive.ObjectID) error {
	for id, a := range f.answers {
		if a.Author == author {
			delete(f.answers, id)
		}
	}
	return nil
}

func (f *fakeAnswerRepo) RefsByAuthor(ctx context.Context, author primitive.ObjectID) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range f.answers {
		if a.Author == author {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnswerRepo) CastVote(ctx context.Context, id, voter primitive.ObjectID, dir model.VoteDirection) (model.VoteTransition, error) {
	f.castCalls++
	if f.castErr != nil {
		return "", f.castErr
	}
	return f.transition, nil
}

func (f *fakeAnswerRepo) SearchContent(ctx context.Context, query string, limit int64) ([]model.Answer, error) {
	f.searchLimit = limit
	if int64(len(f.searchOut)) > limit {
		return f.searchOut[:limit], nil
	}
	return f.searchOut, nil
}

func (f *fakeAnswerRepo) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return f.countByAuthor, nil
}

func (f *fakeAnswerRepo) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return f.sumUpvotes, nil
}

type fakeUserRepo struct {
	repo.UserRepository

	users      map[primitive.ObjectID]*model.User
	reputation map[primitive.ObjectID]int
	adjustErr  error

	searchOut   []model.User
	searchLimit int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[primitive.ObjectID]*model.User),
		reputation: make(map[primitive.ObjectID]int),
	}
}

func (f *fakeUserRepo) GetByAuthID(ctx context.Context, authID string) (*model.User, error) {
	for _, u := range f.users {
		if u.AuthID == authID {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) AdjustReputation(ctx context.Context, id primitive.ObjectID, delta int) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.reputation[id] += delta
	return nil
}

func (f *fakeUserRepo) PullSavedQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	for _, u := range f.users {
		u.Saved = Filter(u.Saved, func(q primitive.ObjectID) bool { return q != questionID })
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SearchName(ctx context.Context, query string, limit int64) ([]model.User, error) {
	f.searchLimit = limit
	if int64(len(f.searchOut)) > limit {
		return f.searchOut[:limit], nil
	}
	return f.searchOut, nil
}

// fakeTagRepo resolves names case-insensitively the way the real upsert
// does, keyed on the lowercased name with the first-seen casing kept.
type fakeTagRepo struct {
	repo.TagRepository

	mu   sync.Mutex
	tags map[string]*model.Tag

	searchOut   []model.Tag
	searchLimit int64
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*model.Tag)}
}

func (f *fakeTagRepo) UpsertByName(ctx context.Context, name string, questionID primitive.ObjectID) (*model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(name)
	tag, ok := f.tags[key]
	if !ok {
		tag = &model.Tag{
			ID:        primitive.NewObjectID(),
			Name:      name,
			CreatedOn: time.Now().UTC(),
		}
		f.tags[key] = tag
	}
	tag.Questions = append(tag.Questions, questionID)
	return tag, nil
}

func (f *fakeTagRepo) PullQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tag := range f.tags {
		tag.Questions = Filter(tag.Questions, func(q primitive.ObjectID) bool { return q != questionID })
	}
	return nil
}

func (f *fakeTagRepo) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tag, error) {
	out := make([]model.Tag, 0, len(ids))
	for _, tag := range f.tags {
		for _, id := range ids {
			if tag.ID == id {
				out = append(out, *tag)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTagRepo) SearchName(ctx context.Context, query string, limit int64) ([]model.Tag, error) {
	f.searchLimit = limit
	if int64(len(f.searchOut)) > limit {
		return f.searchOut[:limit], nil
	}
	return f.searchOut, nil
}

type fakeInteractionRepo struct {
	repo.InteractionRepository

	recorded  []*model.Interaction
	recordErr error
	viewed    bool
	topTags   []model.TagCount
}

func (f *fakeInteractionRepo) Record(ctx context.Context, interaction *model.Interaction) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, interaction)
	return nil
}

func (f *fakeInteractionRepo) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID, answerIDs []primitive.ObjectID) error {
	f.recorded = Filter(f.recorded, func(in *model.Interaction) bool {
		if in.Question == questionID {
			return false
		}
		for _, aid := range answerIDs {
			if in.Answer == aid {
				return false
			}
		}
		return true
	})
	return nil
}

func (f *fakeInteractionRepo) DeleteByAnswer(ctx context.Context, answerID primitive.ObjectID) error {
	f.recorded = Filter(f.recorded, func(in *model.Interaction) bool { return in.Answer != answerID })
	return nil
}

func (f *fakeInteractionRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	f.recorded = Filter(f.recorded, func(in *model.Interaction) bool { return in.User != userID })
	return nil
}

func (f *fakeInteractionRepo) HasViewed(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	return f.viewed, nil
}

func (f *fakeInteractionRepo) TopTagsForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.TagCount, error) {
	return f.topTags, nil
}

// capturePublisher records published feed events.
type capturePublisher struct {
	events []event.Event
}

func (p *capturePublisher) Publish(ev event.Event) {
	p.events = append(p.events, ev)
}
