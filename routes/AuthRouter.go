package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mkblast/blazon-api/controllers"
)

func AuthRouter(router *gin.Engine, auth *controllers.AuthController) {
	group := router.Group("/api/auth")

	group.POST("/signup", auth.Signup)
	group.POST("/login", auth.Login)
}
