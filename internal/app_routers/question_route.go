package approuters

import (
	"DevFlow/internal/auth"
	"DevFlow/internal/configuration"

	"github.com/gin-gonic/gin"
)

func QuestionRouters(router *gin.Engine, container *configuration.Container) {
	questionRoute := router.Group("/df/api/questions")
	{
		questionRoute.GET("", container.QuestionHandler.List)
		questionRoute.GET("/hot", container.QuestionHandler.Hot)
		questionRoute.GET("/:questionId", container.QuestionHandler.Get)
		questionRoute.GET("/:questionId/answers", container.AnswerHandler.ByQuestion)

		// Anonymous views count; signed-in viewers are tracked once each.
		questionRoute.POST("/:questionId/view",
			auth.OptionalMiddleware(container.Tokens), container.QuestionHandler.View)
	}

	authed := router.Group("/df/api/questions", auth.Middleware(container.Tokens))
	{
		authed.POST("", container.QuestionHandler.Create)
		authed.PUT("/:questionId", container.QuestionHandler.Edit)
		authed.DELETE("/:questionId", container.QuestionHandler.Delete)
		authed.POST("/:questionId/answers", container.AnswerHandler.Create)
		authed.POST("/:questionId/vote", container.VoteHandler.VoteQuestion)
		authed.POST("/:questionId/save", container.UserHandler.ToggleSave)
	}
}
