package handler

import (
	"net/http"

	"DevFlow/internal/auth"
	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
)

type TagHandler interface {
	List(c *gin.Context)
	Popular(c *gin.Context)
	ToggleFollow(c *gin.Context)
}

type tagHandler struct {
	tags  service.TagService
	users service.UserService
}

func NewTagHandler(tags service.TagService, users service.UserService) TagHandler {
	return &tagHandler{
		tags:  tags,
		users: users,
	}
}

func (h *tagHandler) List(c *gin.Context) {
	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	result, err := h.tags.List(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":    result.Data,
		"hasNext": result.HasNext,
	})
}

func (h *tagHandler) Popular(c *gin.Context) {
	tags, err := h.tags.Popular(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *tagHandler) ToggleFollow(c *gin.Context) {
	tagID, ok := objectIDParam(c, "tagId")
	if !ok {
		return
	}

	user, err := h.users.GetByAuthID(c.Request.Context(), auth.Subject(c))
	if err != nil {
		writeError(c, err)
		return
	}

	following, err := h.tags.ToggleFollow(c.Request.Context(), tagID, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}
