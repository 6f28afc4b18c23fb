package model

// VoteDirection is the action requested by the voter.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// VoteTarget selects which entity class a vote applies to.
type VoteTarget string

const (
	VoteQuestion VoteTarget = "question"
	VoteAnswer   VoteTarget = "answer"
)

// VoteTransition is the state change a vote produced. The prior vote state
// is derived from the entity document inside the update itself, never
// supplied by the caller.
type VoteTransition string

const (
	// VoteAdded: the voter had no vote and one was inserted.
	VoteAdded VoteTransition = "added"
	// VoteRetracted: the voter's existing vote in the same direction was
	// removed.
	VoteRetracted VoteTransition = "retracted"
	// VoteFlipped: the voter's vote in the opposite direction was replaced.
	VoteFlipped VoteTransition = "flipped"
)
