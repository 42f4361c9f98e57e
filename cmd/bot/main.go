package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/foodbot/internal/auth"
	"github.com/octobees/foodbot/internal/config"
	"github.com/octobees/foodbot/internal/dialogue"
	"github.com/octobees/foodbot/internal/handler"
	"github.com/octobees/foodbot/internal/intent"
	middlewarepkg "github.com/octobees/foodbot/internal/middleware"
	"github.com/octobees/foodbot/internal/router"
	"github.com/octobees/foodbot/internal/service"
	"github.com/octobees/foodbot/internal/slack"
	"github.com/octobees/foodbot/internal/store"
	"github.com/octobees/foodbot/internal/yelp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	conversations, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to connect conversation store: %v", err)
	}

	slackClient := slack.NewClient(nil, cfg.SlackBaseURL, cfg.SlackBotToken)
	searchClient := yelp.NewClient(nil, cfg.YelpBaseURL, yelp.Credentials{
		ConsumerKey:    cfg.Yelp.ConsumerKey,
		ConsumerSecret: cfg.Yelp.ConsumerSecret,
		Token:          cfg.Yelp.Token,
		TokenSecret:    cfg.Yelp.TokenSecret,
	})

	stats := service.NewStats()
	dialogues := dialogue.NewManager(conversations, slackClient, searchClient, dialogue.NewClassifier(), cfg.MaxReprompts, stats)
	messageRouter := intent.NewRouter(slackClient, slackClient, dialogues, stats)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	adminService := service.NewAdminService(cfg.AdminEmail, cfg.AdminPasswordHash, jwtManager)

	handlers := router.Handlers{
		Events:  handler.NewEventsHandler(messageRouter),
		Webhook: handler.NewWebhookHandler(),
	}
	if cfg.AdminEnabled() {
		handlers.Admin = handler.NewAdminHandler(adminService, conversations, stats)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Printf("foodbot listening on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// buildStore picks Redis when configured, in-process memory otherwise.
func buildStore(cfg *config.Config) (store.ConversationStore, error) {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStore(cfg.DialogueTTL), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.DialogueTTL)
}
