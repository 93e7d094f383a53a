package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sportsevents/apierr"
	"sportsevents/middleware"
	"sportsevents/models"
	"sportsevents/services"
)

type RegistrationHandler struct {
	registrations *services.RegistrationService
	logger        *slog.Logger
	location      *time.Location
	now           func() time.Time
}

// NewRegistrationHandler builds the ledger handler. location is the zone
// export timestamps are rendered in.
func NewRegistrationHandler(registrations *services.RegistrationService, location *time.Location, logger *slog.Logger) *RegistrationHandler {
	if location == nil {
		location = time.UTC
	}
	return &RegistrationHandler{
		registrations: registrations,
		logger:        logger,
		location:      location,
		now:           time.Now,
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		apierr.Respond(c, h.logger, models.ErrUnauthenticated)
		return
	}

	var req services.RegisterRequest
	if !bindJSON(c, &req, registerMessages) {
		return
	}

	reg, err := h.registrations.Register(c.Request.Context(), principal.UserID, req.GameID)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) ListMine(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		apierr.Respond(c, h.logger, models.ErrUnauthenticated)
		return
	}

	regs, err := h.registrations.ListMine(c.Request.Context(), principal.UserID)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (h *RegistrationHandler) ListAll(c *gin.Context) {
	filter, ok := h.filterFromQuery(c)
	if !ok {
		return
	}

	regs, err := h.registrations.ListAll(c.Request.Context(), filter)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// Export streams the filtered ledger as a CSV attachment.
func (h *RegistrationHandler) Export(c *gin.Context) {
	filter, ok := h.filterFromQuery(c)
	if !ok {
		return
	}

	regs, err := h.registrations.ListAll(c.Request.Context(), filter)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, services.BuildExportRows(regs, h.location)); err != nil {
		apierr.Respond(c, h.logger, fmt.Errorf("export registrations: %w", err))
		return
	}

	filename := services.ExportFilename(h.now().In(h.location))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *RegistrationHandler) Unregister(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		apierr.InvalidRequest(c, "Invalid registration ID")
		return
	}

	if err := h.registrations.Unregister(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted successfully"})
}

func (h *RegistrationHandler) filterFromQuery(c *gin.Context) (services.RegistrationFilter, bool) {
	gameID, ok := optionalIDQuery(c, "gameId")
	if !ok {
		apierr.InvalidRequest(c, "Invalid game ID")
		return services.RegistrationFilter{}, false
	}
	return services.RegistrationFilter{GameID: gameID, Search: c.Query("search")}, true
}
