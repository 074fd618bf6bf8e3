package httperr

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code      string    `json:"error_code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// WriteError maps an AppError kind to its HTTP status. Internal detail
// (wrapped causes, stack context) never reaches the response body.
func WriteError(c *gin.Context, err error) {
	ae, ok := As(err)
	if !ok {
		Write(c, http.StatusInternalServerError, CodeDatabaseError, "internal error")
		return
	}

	switch ae.Kind {
	case KindValidation:
		Write(c, http.StatusBadRequest, ae.Code, ae.Message)
	case KindNotFound:
		Write(c, http.StatusNotFound, ae.Code, ae.Message)
	case KindConflict:
		Write(c, http.StatusConflict, ae.Code, ae.Message)
	default:
		Write(c, http.StatusInternalServerError, ae.Code, "internal error")
	}
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}
