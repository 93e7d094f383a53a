package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sportsevents/apierr"
	"sportsevents/middleware"
	"sportsevents/services"
)

// ActivityHandler serves the admin live feed over a websocket.
type ActivityHandler struct {
	hub      *services.Hub
	tokens   middleware.TokenParser
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewActivityHandler(hub *services.Hub, tokens middleware.TokenParser, allowedOrigin string, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// Watch authenticates with the token query parameter, since browsers cannot
// set headers on a websocket handshake, then hands the connection to the hub.
func (h *ActivityHandler) Watch(c *gin.Context) {
	principal, err := h.tokens.ParseToken(c.Query("token"))
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	if err := services.Authorize(principal, services.OpWatchActivity, 0); err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("activity upgrade failed", slog.String("error", err.Error()))
		return
	}
	h.hub.RegisterClient(conn, principal.UserID)
}
