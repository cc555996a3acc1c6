package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mkblast/blazon-api/config"
	"github.com/mkblast/blazon-api/controllers"
	"github.com/mkblast/blazon-api/database"
	"github.com/mkblast/blazon-api/repository"
	"github.com/mkblast/blazon-api/routes"
	"github.com/mkblast/blazon-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	bucket, err := database.OpenBucket(client, cfg)
	if err != nil {
		log.Fatal(err)
	}

	users := repository.NewMongoUserRepository(database.OpenCollection(client, cfg, "users"))
	posts := repository.NewMongoPostRepository(database.OpenCollection(client, cfg, "posts"))
	images := storage.NewGridFSStore(bucket, cfg.BaseURL)

	auth := controllers.NewAuthController(cfg, users)
	me := controllers.NewMeController(users, images)
	postCtl := controllers.NewPostController(posts, users)
	userCtl := controllers.NewUserController(users, posts)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	routes.AuthRouter(router, auth)
	routes.MainRouter(router, cfg, users, me, postCtl, userCtl)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "Route not found.",
				"errors": []gin.H{{"msg": "Route not found."}},
			})
			return
		}
		c.Status(http.StatusNotFound)
	})

	log.Printf("server started at http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
