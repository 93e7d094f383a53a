package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"sportsevents/apierr"
	"sportsevents/models"
	"sportsevents/services"
)

const principalKey = "principal"

// TokenParser verifies a bearer token and returns the caller it names.
type TokenParser interface {
	ParseToken(token string) (*services.Principal, error)
}

// Authenticate resolves the bearer token, if any, into a principal. Requests
// without a token continue anonymously; a token that fails verification is
// rejected outright.
func Authenticate(tokens TokenParser, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			apierr.Respond(c, logger, models.ErrUnauthenticated)
			return
		}

		principal, err := tokens.ParseToken(strings.TrimSpace(token))
		if err != nil {
			apierr.Respond(c, logger, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Authorize gates a route on the access policy for op.
func Authorize(op services.Operation, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.AuthorizeRoute(PrincipalFrom(c), op); err != nil {
			apierr.Respond(c, logger, err)
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller, or nil for anonymous requests.
func PrincipalFrom(c *gin.Context) *services.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*services.Principal)
	return principal
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p *services.Principal) {
	c.Set(principalKey, p)
}
