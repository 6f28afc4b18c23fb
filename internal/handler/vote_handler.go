package handler

import (
	"net/http"

	"DevFlow/internal/auth"
	"DevFlow/internal/model"
	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler interface {
	VoteQuestion(c *gin.Context)
	VoteAnswer(c *gin.Context)
}

type voteHandler struct {
	votes service.VoteService
	users service.UserService
}

func NewVoteHandler(votes service.VoteService, users service.UserService) VoteHandler {
	return &voteHandler{
		votes: votes,
		users: users,
	}
}

type voteRequest struct {
	Direction string `json:"direction" binding:"required"`
}

func (h *voteHandler) VoteQuestion(c *gin.Context) {
	h.vote(c, model.VoteQuestion, "questionId")
}

func (h *voteHandler) VoteAnswer(c *gin.Context) {
	h.vote(c, model.VoteAnswer, "answerId")
}

// vote applies an up or down vote for the authenticated user. The voter's
// prior vote state is derived server-side; the request carries only the
// direction.
func (h *voteHandler) vote(c *gin.Context, target model.VoteTarget, param string) {
	id, ok := objectIDParam(c, param)
	if !ok {
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dir := model.VoteDirection(req.Direction)
	if dir != model.VoteUp && dir != model.VoteDown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be up or down"})
		return
	}

	voter, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	transition, err := h.votes.Vote(c.Request.Context(), target, id, voter.ID, dir)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transition": transition})
}
