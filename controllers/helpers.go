package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkblast/blazon-api/models"
	"github.com/mkblast/blazon-api/repository"
	"github.com/mkblast/blazon-api/validation"
)

// currentUser returns the user attached by RequireAuth. Routes behind the
// middleware always have one; a missing user means broken wiring.
func currentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "AuthenticationError",
			"errors": []gin.H{{"msg": "No authenticated user"}},
		})
		return models.User{}, false
	}
	return value.(models.User), true
}

func failWith(c *gin.Context, code int, status, msg string) {
	c.JSON(code, gin.H{
		"status": status,
		"errors": []gin.H{{"msg": msg}},
	})
}

func failValidation(c *gin.Context, status string, violations []validation.Violation) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": status,
		"errors": violations,
	})
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"status": "Internal server error.",
		"errors": []gin.H{{"msg": err.Error()}},
	})
}

// populateAuthors inlines each post's author document, the way a populated
// query would. Posts whose author has been removed are skipped.
func populateAuthors(c *gin.Context, users repository.UserRepository, posts []models.Post) ([]models.PostView, error) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, post := range posts {
		if !seen[post.Author] {
			seen[post.Author] = true
			ids = append(ids, post.Author)
		}
	}

	authors, err := users.FindManyByID(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.PublicUser, len(authors))
	for _, author := range authors {
		byID[author.ID] = author.Public()
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		author, ok := byID[post.Author]
		if !ok {
			continue
		}
		views = append(views, post.View(author))
	}
	return views, nil
}
