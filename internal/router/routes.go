package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/auth"
	"github.com/octobees/foodbot/internal/config"
	"github.com/octobees/foodbot/internal/handler"
	middlewarepkg "github.com/octobees/foodbot/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Events  *handler.EventsHandler
	Webhook *handler.WebhookHandler
	Admin   *handler.AdminHandler
}

// Register wires all HTTP routes for the bot.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	events := e.Group("/slack", middlewarepkg.VerifySlackSignature(cfg.SlackSigningSecret))
	events.POST("/events", handlers.Events.Receive, middlewarepkg.EventsRateLimiter(cfg.RateLimitEvents))
	events.POST("/webhook", handlers.Webhook.WakeUp)

	if handlers.Admin != nil {
		e.POST("/admin/login", handlers.Admin.Login)

		admin := e.Group("/admin", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole("admin"))
		admin.GET("/conversations", handlers.Admin.Conversations)
		admin.GET("/stats", handlers.Admin.Stats)
	}
}
