package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Envelope renders err the way every error response body looks.
func Envelope(err error) (int, ErrorEnvelope) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	msg := "unknown error"
	if ae.Err != nil {
		msg = ae.Err.Error()
	}
	return ae.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code}}
}

// RespondError maps err to its status and aborts the handler chain. The error is attached
// to the context so the access log can report it.
func RespondError(c *gin.Context, err error) {
	status, env := Envelope(err)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, env)
}

func RespondBadRequest(c *gin.Context, err error) {
	RespondError(c, apierr.New(http.StatusBadRequest, "invalid_request", err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
