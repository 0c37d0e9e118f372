package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-service/internal/apperr"
)

// fail renders an error response. Taxonomy errors become HTTP 400 with the
// bare message; anything else is an unexpected repo or image-store failure
// and surfaces as a generic 500.
func fail(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
		return
	}
	log.Printf("unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// ok renders the mutation success marker.
func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK})
}

// paramID parses a numeric path parameter.
func paramID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.Validation("Parameter must be a number.")
	}
	return id, nil
}

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func actingUserID(c *gin.Context) int {
	return c.GetInt("userID")
}
