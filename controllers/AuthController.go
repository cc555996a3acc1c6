package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkblast/blazon-api/config"
	"github.com/mkblast/blazon-api/models"
	"github.com/mkblast/blazon-api/repository"
	"github.com/mkblast/blazon-api/storage"
	"github.com/mkblast/blazon-api/validation"
)

const tokenLifetime = 30 * 24 * time.Hour

type AuthController struct {
	cfg   *config.Config
	users repository.UserRepository
}

func NewAuthController(cfg *config.Config, users repository.UserRepository) *AuthController {
	return &AuthController{cfg: cfg, users: users}
}

type signupInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		failWith(c, http.StatusBadRequest, "Input validation failed.", err.Error())
		return
	}

	fields, violations := validation.Run(
		map[string]string{
			"username": input.Username,
			"name":     input.Name,
			"email":    input.Email,
			"password": input.Password,
		},
		validation.UsernameRules(),
		validation.NameRules(),
		validation.SignupEmailRules(),
		validation.SignupPasswordRules(),
	)
	if len(violations) > 0 {
		failValidation(c, "Input validation failed.", violations)
		return
	}

	// both uniqueness lookups run at once
	usernameCh := make(chan error, 1)
	emailCh := make(chan error, 1)
	go func() {
		_, err := ac.users.FindByUsername(c.Request.Context(), fields["username"])
		usernameCh <- err
	}()
	go func() {
		_, err := ac.users.FindByEmail(c.Request.Context(), fields["email"])
		emailCh <- err
	}()
	usernameErr := <-usernameCh
	emailErr := <-emailCh

	if usernameErr == nil {
		failWith(c, http.StatusBadRequest, "Input validation failed.", "User with the same username already exists")
		return
	}
	if !errors.Is(usernameErr, repository.ErrNotFound) {
		serverError(c, usernameErr)
		return
	}

	if emailErr == nil {
		failWith(c, http.StatusBadRequest, "Input validation failed.", "User with the same email already exists")
		return
	}
	if !errors.Is(emailErr, repository.ErrNotFound) {
		serverError(c, emailErr)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(fields["password"]), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, err)
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     fields["username"],
		Name:         fields["name"],
		Email:        fields["email"],
		Password:     string(hashed),
		About:        "",
		Date:         time.Now(),
		Following:    []primitive.ObjectID{},
		ProfileImage: storage.DefaultProfileImage(fields["email"], 200),
	}

	if err := ac.users.Insert(c.Request.Context(), user); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "User has been created successfully.",
		"user":   user.Own(),
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		failWith(c, http.StatusBadRequest, "Input validation failed.", err.Error())
		return
	}

	fields, violations := validation.Run(
		map[string]string{
			"email":    input.Email,
			"password": input.Password,
		},
		validation.LoginEmailRules(),
		validation.LoginPasswordRules(),
	)
	if len(violations) > 0 {
		failValidation(c, "Input validation failed.", violations)
		return
	}

	user, err := ac.users.FindByEmail(c.Request.Context(), fields["email"])
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "Login failed", "User not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(fields["password"])); err != nil {
		failWith(c, http.StatusNotFound, "Login failed", "Password is incorrect.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  user.ID.Hex(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
	})

	tokenString, err := token.SignedString([]byte(ac.cfg.JWTSecret))
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Log in succeeded.",
		"token":  tokenString,
	})
}
