package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateID rejects requests whose path parameters are not well-formed
// ObjectIDs, before any database work happens.
func ValidateID(c *gin.Context) {
	for _, param := range c.Params {
		if _, err := primitive.ObjectIDFromHex(param.Value); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"status": "Query failed.",
				"errors": []gin.H{{"msg": "not a valid Id."}},
			})
			return
		}
	}
	c.Next()
}
