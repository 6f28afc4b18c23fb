package handler

import (
	"net/http"

	"DevFlow/internal/auth"
	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Edit(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	View(c *gin.Context)
	Hot(c *gin.Context)
	ByTag(c *gin.Context)
}

type questionHandler struct {
	questions service.QuestionService
	users     service.UserService
}

func NewQuestionHandler(questions service.QuestionService, users service.UserService) QuestionHandler {
	return &questionHandler{
		questions: questions,
		users:     users,
	}
}

type createQuestionRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required"`
}

func (h *questionHandler) Create(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	author, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	question, err := h.questions.Create(c.Request.Context(), author.ID, req.Title, req.Content, req.Tags)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (h *questionHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	detail, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type editQuestionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *questionHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	var req editQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.questions.Edit(c.Request.Context(), id, req.Title, req.Content); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *questionHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *questionHandler) List(c *gin.Context) {
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.questions.List(c.Request.Context(),
		c.Query("q"), c.Query("filter"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": result.Data,
		"hasNext":   result.HasNext,
	})
}

// View records one view of the question. The viewer is taken from the
// auth context so repeat views by the same user log a single interaction.
func (h *questionHandler) View(c *gin.Context) {
	id, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	viewer := primitive.NilObjectID
	if subject := auth.Subject(c); subject != "" {
		user, err := h.users.GetByAuthID(c.Request.Context(), subject)
		if err == nil {
			viewer = user.ID
		}
	}

	if err := h.questions.View(c.Request.Context(), id, viewer); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"viewed": true})
}

func (h *questionHandler) Hot(c *gin.Context) {
	hot, err := h.questions.Hot(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": hot})
}

func (h *questionHandler) ByTag(c *gin.Context) {
	tagID, ok := objectIDParam(c, "tagId")
	if !ok {
		return
	}
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.questions.ByTag(c.Request.Context(), tagID, c.Query("q"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tagTitle":  result.TagName,
		"questions": result.Questions.Data,
		"hasNext":   result.Questions.HasNext,
	})
}
