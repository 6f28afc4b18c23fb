package approuters

import (
	"DevFlow/internal/auth"
	"DevFlow/internal/configuration"

	"github.com/gin-gonic/gin"
)

func TagRouters(router *gin.Engine, container *configuration.Container) {
	tagRoute := router.Group("/df/api/tags")
	{
		tagRoute.GET("", container.TagHandler.List)
		tagRoute.GET("/popular", container.TagHandler.Popular)
		tagRoute.GET("/:tagId/questions", container.QuestionHandler.ByTag)
	}

	authed := router.Group("/df/api/tags", auth.Middleware(container.Tokens))
	{
		authed.POST("/:tagId/follow", container.TagHandler.ToggleFollow)
	}
}
