package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

var messages = map[Kind]string{
	KindNotFound:                   "Resource not found.",
	KindForbidden:                  "Forbidden.",
	KindInvalidTransition:          "Transition not allowed in the current state.",
	KindConflict:                   "Time slot conflict.",
	KindPaymentNotComplete:         "Payment not completed.",
	KindPaymentProviderUnavailable: "Payment provider unavailable.",
	KindValidation:                 "Invalid request.",
	KindUnavailable:                "Service temporarily unavailable.",
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindPaymentProviderUnavailable, KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInvalidTransition, KindPaymentNotComplete, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Respond writes err using the business kind mapping; anything else is
// logged and reported as internal_error.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		logging.GetLogger().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	Write(c, StatusFor(be.Kind), be.Code, messages[be.Kind])
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}
