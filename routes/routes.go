package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsevents/factory"
	"sportsevents/handlers"
	"sportsevents/middleware"
	"sportsevents/services"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Games         *handlers.GameHandler
	Registrations *handlers.RegistrationHandler
	Activity      *handlers.ActivityHandler
}

func SetupRoutes(router *gin.Engine, h Handlers, tokens middleware.TokenParser, logger *slog.Logger) {
	allow := func(op services.Operation) gin.HandlerFunc {
		return middleware.Authorize(op, logger)
	}

	api := router.Group("/api")
	api.Use(middleware.Authenticate(tokens, logger))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", allow(services.OpViewProfile), h.Auth.Me)
		}

		games := api.Group("/games")
		{
			games.GET("", allow(services.OpListGames), h.Games.ListGames)
			games.GET("/:id", allow(services.OpGetGame), h.Games.GetGame)
			games.POST("", allow(services.OpCreateGame), h.Games.CreateGame)
			games.PUT("/:id", allow(services.OpUpdateGame), h.Games.UpdateGame)
			games.DELETE("/:id", allow(services.OpDeleteGame), h.Games.DeleteGame)
		}

		registrations := api.Group("/registrations")
		{
			registrations.POST("", allow(services.OpRegister), h.Registrations.Register)
			registrations.GET("/my-registrations", allow(services.OpListOwnRegistrations), h.Registrations.ListMine)
			registrations.GET("/all", allow(services.OpListAllRegistrations), h.Registrations.ListAll)
			registrations.GET("/export", allow(services.OpExportRegistrations), h.Registrations.Export)
			registrations.DELETE("/:id", allow(services.OpUnregister), h.Registrations.Unregister)
		}
	}

	if h.Activity != nil {
		router.GET("/ws/activity", h.Activity.Watch)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// NewRouter builds the gin engine with the middleware chain and every route
// mounted for app.
func NewRouter(app *factory.App, allowedOrigin string, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(allowedOrigin),
	)

	SetupRoutes(router, Handlers{
		Auth:          handlers.NewAuthHandler(app.AuthService, logger),
		Games:         handlers.NewGameHandler(app.GameService, logger),
		Registrations: handlers.NewRegistrationHandler(app.RegistrationService, app.Location, logger),
		Activity:      handlers.NewActivityHandler(app.Hub, app.AuthService, allowedOrigin, logger),
	}, app.AuthService, logger)

	return router
}
