package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsevents/apierr"
	"sportsevents/services"
)

type GameHandler struct {
	gameService *services.GameService
	logger      *slog.Logger
}

func NewGameHandler(gameService *services.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		apierr.InvalidRequest(c, "Invalid game ID")
		return
	}

	game, err := h.gameService.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req services.CreateGameRequest
	if !bindJSON(c, &req, gameMessages) {
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		apierr.InvalidRequest(c, "Invalid game ID")
		return
	}

	var req services.UpdateGameRequest
	if !bindJSON(c, &req, gameMessages) {
		return
	}

	game, err := h.gameService.Update(c.Request.Context(), id, &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame removes the catalog entry only. Registrations that point at it
// are left in place.
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		apierr.InvalidRequest(c, "Invalid game ID")
		return
	}

	if err := h.gameService.Delete(c.Request.Context(), id); err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}
