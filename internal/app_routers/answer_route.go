package approuters

import (
	"DevFlow/internal/auth"
	"DevFlow/internal/configuration"

	"github.com/gin-gonic/gin"
)

func AnswerRouters(router *gin.Engine, container *configuration.Container) {
	answerRoute := router.Group("/df/api/answers", auth.Middleware(container.Tokens))
	{
		answerRoute.DELETE("/:answerId", container.AnswerHandler.Delete)
		answerRoute.POST("/:answerId/vote", container.VoteHandler.VoteAnswer)
	}
}
