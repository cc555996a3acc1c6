package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkblast/blazon-api/models"
	"github.com/mkblast/blazon-api/repository"
)

type UserController struct {
	users repository.UserRepository
	posts repository.PostRepository
}

func NewUserController(users repository.UserRepository, posts repository.PostRepository) *UserController {
	return &UserController{users: users, posts: posts}
}

// List returns every user except the caller.
func (uc *UserController) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	others, err := uc.users.ListOthers(c.Request.Context(), user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	public := make([]models.PublicUser, 0, len(others))
	for _, other := range others {
		public = append(public, other.Public())
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"users":  public,
	})
}

func (uc *UserController) GetByID(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	user, err := uc.users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "Query failed.", "User not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"user":   user.Public(),
	})
}

// GetPosts lists a user's top-level posts; ?replies=true includes replies.
func (uc *UserController) GetPosts(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	includeReplies := c.Query("replies") == "true"

	posts, err := uc.posts.ByAuthor(c.Request.Context(), userID, includeReplies)
	if err != nil {
		serverError(c, err)
		return
	}

	views, err := populateAuthors(c, uc.users, posts)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"posts":  views,
	})
}

func (uc *UserController) Follow(c *gin.Context) {
	uc.updateFollowing(c, true)
}

func (uc *UserController) Unfollow(c *gin.Context) {
	uc.updateFollowing(c, false)
}

func (uc *UserController) updateFollowing(c *gin.Context, follow bool) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	if _, err := uc.users.FindByID(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			failWith(c, http.StatusNotFound, "Operation failed.", "User not found")
			return
		}
		serverError(c, err)
		return
	}

	if targetID == user.ID {
		if follow {
			failWith(c, http.StatusBadRequest, "Operation failed.", "Cannot follow yourself")
		} else {
			failWith(c, http.StatusBadRequest, "Operation failed.", "Cannot unfollow yourself")
		}
		return
	}

	var updated models.User
	if follow {
		updated, err = uc.users.Follow(c.Request.Context(), user.ID, targetID)
	} else {
		updated, err = uc.users.Unfollow(c.Request.Context(), user.ID, targetID)
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Operation succeed.",
		"user":   updated.Public(),
	})
}
