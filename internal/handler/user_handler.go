package handler

import (
	"net/http"

	"DevFlow/internal/auth"
	"DevFlow/internal/model"
	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Ensure(c *gin.Context)
	Info(c *gin.Context)
	UpdateProfile(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	ToggleSave(c *gin.Context)
	Saved(c *gin.Context)
	Questions(c *gin.Context)
	Answers(c *gin.Context)
	TopTags(c *gin.Context)
}

type userHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) UserHandler {
	return &userHandler{users: users}
}

type ensureUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}

// Ensure maps the authenticated subject id onto a user document, creating
// it on first sign-in.
func (h *userHandler) Ensure(c *gin.Context) {
	var req ensureUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.EnsureUser(c.Request.Context(),
		auth.Subject(c), req.Name, req.Username, req.Email, req.Picture)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *userHandler) Info(c *gin.Context) {
	info, err := h.users.Info(c.Request.Context(), c.Param("authId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user.ID, req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *userHandler) Delete(c *gin.Context) {
	user, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *userHandler) List(c *gin.Context) {
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.users.List(c.Request.Context(),
		c.Query("q"), c.Query("filter"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":   result.Data,
		"hasNext": result.HasNext,
	})
}

func (h *userHandler) ToggleSave(c *gin.Context) {
	questionID, ok := objectIDParam(c, "questionId")
	if !ok {
		return
	}

	user, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	saved, err := h.users.ToggleSave(c.Request.Context(), user.ID, questionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *userHandler) Saved(c *gin.Context) {
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	user, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.users.SavedQuestions(c.Request.Context(),
		user.ID, c.Query("q"), c.Query("filter"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": result.Data,
		"hasNext":   result.HasNext,
	})
}

func (h *userHandler) Questions(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.users.Questions(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalQuestions": result.Total,
		"questions":      result.Data,
		"hasNext":        result.HasNext,
	})
}

func (h *userHandler) Answers(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.users.Answers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalAnswers": result.Total,
		"answers":      result.Data,
		"hasNext":      result.HasNext,
	})
}

func (h *userHandler) TopTags(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	tags, err := h.users.TopInteractedTags(c.Request.Context(), userID, 3)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
