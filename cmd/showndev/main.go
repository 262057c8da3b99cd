package main

import (
	"context"
	"time"

	appconfig "github.com/FilippTrigub/showNDev/internal/config"
	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/internal/credentials"
	"github.com/FilippTrigub/showNDev/internal/handlers"
	"github.com/FilippTrigub/showNDev/internal/lifecycle"
	"github.com/FilippTrigub/showNDev/internal/publish"
	"github.com/FilippTrigub/showNDev/internal/rephrase"
	"github.com/FilippTrigub/showNDev/pkg/config"
	"github.com/FilippTrigub/showNDev/pkg/database"
	"github.com/FilippTrigub/showNDev/pkg/llm"
	"github.com/FilippTrigub/showNDev/pkg/logging"
	"github.com/FilippTrigub/showNDev/pkg/monitoring"
	"github.com/FilippTrigub/showNDev/pkg/server"
	"github.com/FilippTrigub/showNDev/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("showndev")
	config.LoadEnv(logger)

	cfg := appconfig.LoadConfig()

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.WithError(err).Fatal("Failed to apply database schema")
	}
	cancel()

	provider, err := llm.NewProvider(llm.Config{
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		APIURL:    cfg.LLMAPIURL,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if err != nil {
		logger.WithError(err).Warn("LLM provider not configured, rephrase disabled")
	}

	contentStore := content.NewStore(db)
	credStore := credentials.NewStore(db)
	registry := publish.NewRegistry(credStore, publish.NewThrottle(cfg.PublishInterval), logger)
	rephraser := rephrase.NewService(provider, logger)
	controller := lifecycle.NewController(contentStore, registry, rephraser, logger)

	healthChecker := monitoring.NewHealthChecker("showndev", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("showndev", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
	}))

	contentMetrics := &handlers.ContentMetrics{
		PublishAttempts: metricsCollector.NewCounter(
			"publish_attempts_total",
			"Publish attempts by platform and outcome",
			[]string{"platform", "outcome"},
		),
		RephraseRequests: metricsCollector.NewCounter(
			"rephrase_requests_total",
			"Rephrase requests by outcome",
			[]string{"outcome"},
		),
	}

	app := server.SetupServiceRouter(logger, "showndev", healthChecker, metricsCollector)

	contentHandler := handlers.NewContentHandler(contentStore, controller, logger, contentMetrics)
	socialEnvHandler := handlers.NewSocialEnvHandler(credStore, logger)

	api := app.Group("/api")
	api.GET("/content", contentHandler.List)
	api.GET("/content/:id", contentHandler.Get)
	api.PATCH("/content/:id", contentHandler.Edit)
	api.POST("/content/:id/rephrase", contentHandler.Rephrase)
	api.POST("/content/:id/approve", contentHandler.Approve)
	api.POST("/content/:id/reject", contentHandler.Reject)
	api.GET("/social-env/status", socialEnvHandler.Status)
	api.POST("/social-env", socialEnvHandler.Upsert)
	api.DELETE("/social-env", socialEnvHandler.Clear)

	serverConfig := server.DefaultConfig("showndev", cfg.Port)
	if err := server.Start(serverConfig, app, logger); err != nil {
		logger.Fatal(err.Error())
	}
}
