package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every REST endpoint answers with.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Page wraps paginated list payloads.
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// RespondError maps sentinel errors to HTTP status codes. Authorization
// failures and not-found conditions stay distinguishable for the client.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	}

	c.JSON(status, Envelope{Success: false, Message: message})
}
