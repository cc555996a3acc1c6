package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mkblast/blazon-api/config"
	"github.com/mkblast/blazon-api/controllers"
	"github.com/mkblast/blazon-api/middlewares"
	"github.com/mkblast/blazon-api/repository"
)

// MainRouter mounts every authenticated route under /api/main.
func MainRouter(
	router *gin.Engine,
	cfg *config.Config,
	users repository.UserRepository,
	me *controllers.MeController,
	posts *controllers.PostController,
	userCtl *controllers.UserController,
) {
	group := router.Group("/api/main")
	group.Use(middlewares.RequireAuth(cfg, users))

	group.GET("/me", me.Me)
	group.POST("/me", me.UpdateAbout)
	group.POST("/me/profile_image", me.UploadProfileImage)
	group.GET("/images/:imageId", middlewares.ValidateID, me.GetImage)

	group.GET("/posts", posts.Feed)
	group.GET("/posts/all", posts.All)
	group.GET("/posts/:postId", middlewares.ValidateID, posts.GetByID)
	group.GET("/posts/:postId/replies", middlewares.ValidateID, posts.GetReplies)
	group.POST("/posts", posts.Create)
	group.POST("/posts/:postId/replies", middlewares.ValidateID, posts.CreateReply)
	group.PUT("/posts/:postId", middlewares.ValidateID, posts.Update)
	group.DELETE("/posts/:postId", middlewares.ValidateID, posts.Delete)
	group.POST("/posts/:postId/like", middlewares.ValidateID, posts.Like)
	group.DELETE("/posts/:postId/like", middlewares.ValidateID, posts.Unlike)

	group.GET("/users", userCtl.List)
	group.GET("/users/:userId", middlewares.ValidateID, userCtl.GetByID)
	group.GET("/users/:userId/posts", middlewares.ValidateID, userCtl.GetPosts)
	group.POST("/users/:userId/follow", middlewares.ValidateID, userCtl.Follow)
	group.DELETE("/users/:userId/follow", middlewares.ValidateID, userCtl.Unfollow)
}
