package approuters

import (
	"DevFlow/internal/configuration"

	"github.com/gin-gonic/gin"
)

func SearchRouters(router *gin.Engine, container *configuration.Container) {
	searchRoute := router.Group("/df/api/search")
	{
		searchRoute.GET("", container.SearchHandler.Global)
	}
}
