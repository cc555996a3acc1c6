package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkblast/blazon-api/config"
	"github.com/mkblast/blazon-api/repository"
)

// RequireAuth guards every /api/main route. It verifies the bearer token,
// resolves the encoded user id against the store and attaches the full user
// document to the gin context under "user".
func RequireAuth(cfg *config.Config, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "No auth token")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		// Parse verifies signature and expiry; a token without an exp
		// claim is rejected outright.
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token")
			return
		}

		hexID, ok := claims["id"].(string)
		if !ok {
			abortUnauthorized(c, "Invalid token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "Unknown user")
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": "AuthenticationError",
		"errors": []gin.H{{"msg": msg}},
	})
}
