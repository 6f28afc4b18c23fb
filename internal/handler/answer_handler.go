package handler

import (
	"net/http"

	"DevFlow/internal/auth"
	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler interface {
	Create(c *gin.Context)
	Delete(c *gin.Context)
	ByQuestion(c *gin.Context)
}

type answerHandler struct {
	answers service.AnswerService
	users   service.UserService
}

func NewAnswerHandler(answers service.AnswerService, users service.UserService) AnswerHandler {
	return &answerHandler{
		answers: answers,
		users:   users,
	}
}

type createAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *answerHandler) Create(c *gin.Context) {
	questionID, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	author, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), author.ID, questionID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

func (h *answerHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "answerId")
	if !ok {
		return
	}

	if err := h.answers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *answerHandler) ByQuestion(c *gin.Context) {
	questionID, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.answers.ByQuestion(c.Request.Context(), questionID, c.Query("sortBy"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers": result.Data,
		"hasNext": result.HasNext,
	})
}
