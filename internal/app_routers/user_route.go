package approuters

import (
	"DevFlow/internal/auth"
	"DevFlow/internal/configuration"

	"github.com/gin-gonic/gin"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/df/api/users")
	{
		userRoute.GET("", container.UserHandler.List)
		userRoute.GET("/:authId/info", container.UserHandler.Info)
	}

	// ObjectID-keyed public profile listings
	profileRoute := router.Group("/df/api/profiles")
	{
		profileRoute.GET("/:userId/questions", container.UserHandler.Questions)
		profileRoute.GET("/:userId/answers", container.UserHandler.Answers)
		profileRoute.GET("/:userId/top-tags", container.UserHandler.TopTags)
	}

	meRoute := router.Group("/df/api/me", auth.Middleware(container.Tokens))
	{
		meRoute.POST("", container.UserHandler.Ensure)
		meRoute.PUT("/profile", container.UserHandler.UpdateProfile)
		meRoute.DELETE("", container.UserHandler.Delete)
		meRoute.GET("/saved", container.UserHandler.Saved)
	}
}
