package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope. A nil err falls back to the
// status text.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// RespondAPIError maps err onto its apierr status. Unknown errors are 500.
// Upstream failures are reported as "service unavailable" without detail;
// the cause is attached to the gin context for the request log.
func RespondAPIError(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if masked(ae) {
		_ = c.Error(err)
		RespondError(c, status, ae.Code, errors.New("service unavailable"))
		return
	}
	RespondError(c, status, ae.Code, ae)
}

func masked(ae *apierr.Error) bool {
	return errors.Is(ae, apierr.ErrStoreUnavailable) || errors.Is(ae, apierr.ErrProvider)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
