package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error half of every failed response. The frontend reads
// Message and shows it to the user.
type ErrorBody struct {
	Status  int               `json:"status"`
	Name    string            `json:"name"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type envelope struct {
	Data  any        `json:"data"`
	Meta  any        `json:"meta,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

func respondData(c *gin.Context, status int, data any, meta any) {
	c.JSON(status, envelope{Data: data, Meta: meta})
}

func respondError(c *gin.Context, status int, message string, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	c.AbortWithStatusJSON(status, envelope{Error: &ErrorBody{
		Status:  status,
		Name:    errorName(status),
		Message: message,
		Details: details,
	}})
}

func errorName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusNotFound:
		return "NotFoundError"
	case http.StatusTooManyRequests:
		return "RateLimitError"
	default:
		return "ApplicationError"
	}
}
