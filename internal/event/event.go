package event

import "time"

// Feed event types pushed to activity-feed subscribers.
const (
	EventQuestionPosted = "question_posted"
	EventAnswerPosted   = "answer_posted"
	EventVoteCast       = "vote_cast"
)

// Event is one activity-feed entry. Ids are hex object ids; fields not
// relevant to the event type are left empty.
type Event struct {
	Type       string    `json:"type"`
	QuestionID string    `json:"questionId,omitempty"`
	AnswerID   string    `json:"answerId,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	Title      string    `json:"title,omitempty"`
	Direction  string    `json:"direction,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher pushes events to feed subscribers. Publishing is best-effort:
// implementations must never block the request path.
type Publisher interface {
	Publish(ev Event)
}

// NopPublisher discards events. Used where no feed is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
