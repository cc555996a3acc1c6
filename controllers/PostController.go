package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkblast/blazon-api/models"
	"github.com/mkblast/blazon-api/repository"
	"github.com/mkblast/blazon-api/validation"
)

type PostController struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostController(posts repository.PostRepository, users repository.UserRepository) *PostController {
	return &PostController{posts: posts, users: users}
}

// Feed lists top-level posts written by the caller or anyone they follow,
// newest first.
func (pc *PostController) Feed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	authors := append([]primitive.ObjectID{user.ID}, user.Following...)

	posts, err := pc.posts.Feed(c.Request.Context(), authors)
	if err != nil {
		serverError(c, err)
		return
	}

	views, err := populateAuthors(c, pc.users, posts)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"posts":  views,
	})
}

func (pc *PostController) All(c *gin.Context) {
	posts, err := pc.posts.AllTopLevel(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	views, err := populateAuthors(c, pc.users, posts)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"posts":  views,
	})
}

func (pc *PostController) GetByID(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	post, err := pc.posts.FindByID(c.Request.Context(), postID)
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "Query failed.", "Post not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	author, err := pc.users.FindByID(c.Request.Context(), post.Author)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"post":   post.View(author.Public()),
	})
}

func (pc *PostController) GetReplies(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	replies, err := pc.posts.Replies(c.Request.Context(), postID)
	if err != nil {
		serverError(c, err)
		return
	}

	views, err := populateAuthors(c, pc.users, replies)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Query succeed.",
		"replies": views,
	})
}

type postInput struct {
	Body string `json:"body"`
}

func (pc *PostController) Create(c *gin.Context) {
	pc.create(c, nil)
}

// CreateReply links the new post to its parent; the parent must exist.
func (pc *PostController) CreateReply(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	if _, err := pc.posts.FindByID(c.Request.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			failWith(c, http.StatusNotFound, "Posting failed.", "Post not found.")
			return
		}
		serverError(c, err)
		return
	}

	pc.create(c, &postID)
}

func (pc *PostController) create(c *gin.Context, replyTo *primitive.ObjectID) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		failWith(c, http.StatusBadRequest, "Posting failed: input validation error.", err.Error())
		return
	}

	fields, violations := validation.Run(
		map[string]string{"body": input.Body},
		validation.PostBodyRules(),
	)
	if len(violations) > 0 {
		failValidation(c, "Posting failed: input validation error.", violations)
		return
	}

	post := models.Post{
		ID:      primitive.NewObjectID(),
		Body:    fields["body"],
		Author:  user.ID,
		Likes:   []primitive.ObjectID{},
		ReplyTo: replyTo,
		Date:    time.Now(),
	}

	if err := pc.posts.Insert(c.Request.Context(), post); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Posting succeed.",
		"post":   post.View(user.Public()),
	})
}

// checkAuthor loads the post and confirms the caller wrote it.
func (pc *PostController) checkAuthor(c *gin.Context, user models.User) (models.Post, bool) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return models.Post{}, false
	}

	post, err := pc.posts.FindByID(c.Request.Context(), postID)
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "Operation failed.", "Post not found.")
		return models.Post{}, false
	}
	if err != nil {
		serverError(c, err)
		return models.Post{}, false
	}

	if post.Author != user.ID {
		failWith(c, http.StatusNotFound, "Operation failed.", "Not authorized.")
		return models.Post{}, false
	}

	return post, true
}

func (pc *PostController) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	post, ok := pc.checkAuthor(c, user)
	if !ok {
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		failWith(c, http.StatusBadRequest, "Posting failed: input validation error.", err.Error())
		return
	}

	fields, violations := validation.Run(
		map[string]string{"body": input.Body},
		validation.PostBodyRules(),
	)
	if len(violations) > 0 {
		failValidation(c, "Posting failed: input validation error.", violations)
		return
	}

	updated, err := pc.posts.UpdateBody(c.Request.Context(), post.ID, fields["body"])
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Updating succeed.",
		"post":   updated,
	})
}

func (pc *PostController) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	post, ok := pc.checkAuthor(c, user)
	if !ok {
		return
	}

	deleted, err := pc.posts.Delete(c.Request.Context(), post.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Deleting succeed.",
		"post":   deleted,
	})
}

func (pc *PostController) Like(c *gin.Context) {
	pc.updateLikes(c, true)
}

func (pc *PostController) Unlike(c *gin.Context) {
	pc.updateLikes(c, false)
}

func (pc *PostController) updateLikes(c *gin.Context, add bool) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "not a valid Id.")
		return
	}

	var post models.Post
	if add {
		post, err = pc.posts.Like(c.Request.Context(), postID, user.ID)
	} else {
		post, err = pc.posts.Unlike(c.Request.Context(), postID, user.ID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "Operation failed.", "Post not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	author, err := pc.users.FindByID(c.Request.Context(), post.Author)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Operation succeed.",
		"post":   post.View(author.Public()),
	})
}
