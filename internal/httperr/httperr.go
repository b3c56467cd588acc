package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond writes err using its business kind. Anything else becomes a 500
// without leaking the underlying message.
func Respond(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) {
		Write(c, e.Kind.Status(), e.Code, e.Message)
		return
	}
	_ = c.Error(err)
	Internal(c, "internal_error", "Unexpected error.")
}
