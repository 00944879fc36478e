package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
)

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// Fail maps err to its status and writes it as an HTTPError. Server side
// failures are logged with the underlying cause.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("route", route(c)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, HTTPError{Error: apperr.PublicMessage(err)})
}

// BadRequest writes a 400 with msg.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{Error: msg})
}

// UUIDParam returns the path parameter name after checking it is a uuid.
func UUIDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		BadRequest(c, "invalid "+name)
		return "", false
	}
	return id, true
}
