package apierr

import (
	"log/slog"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"sportsevents/models"
)

// ServerErrorMessage is the only text a caller sees for unexpected failures.
const ServerErrorMessage = "Server error"

// Respond aborts the request with the status and body for err. Server errors
// are logged with full detail and returned opaquely.
func Respond(c *gin.Context, logger *slog.Logger, err error) {
	kind := models.KindOf(err)
	status := StatusFor(kind)

	message := sentence(err.Error())
	if kind == models.KindServer {
		logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString(RequestIDKey)),
			slog.String("error", err.Error()),
		)
		message = ServerErrorMessage
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": kind})
}

// InvalidRequest responds 400 for a body or parameter that could not be parsed.
func InvalidRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code": models.KindValidation})
}

// sentence upper-cases the first letter of an error string for display.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation, models.KindDuplicate, models.KindInvalidOperation, models.KindRegistrationClosed:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RequestIDKey is the gin context key holding the per-request id.
const RequestIDKey = "request_id"
