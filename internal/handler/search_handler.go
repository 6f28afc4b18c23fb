package handler

import (
	"net/http"

	"DevFlow/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler interface {
	Global(c *gin.Context)
}

type searchHandler struct {
	search service.SearchService
}

func NewSearchHandler(search service.SearchService) SearchHandler {
	return &searchHandler{search: search}
}

func (h *searchHandler) Global(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	results, err := h.search.Global(c.Request.Context(), query, c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
