package main

import (
	"log"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/audit"
	"github.com/veridata/veridata-engine/pkg/config"
	"github.com/veridata/veridata-engine/pkg/handlers"
	"github.com/veridata/veridata-engine/pkg/llm"
	"github.com/veridata/veridata-engine/pkg/middleware"
	"github.com/veridata/veridata-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model),
		zap.Bool("ai_credentials", cfg.AI.HasCredentials()),
		zap.Int("insight_max_attempts", cfg.Insights.MaxAttempts))

	client := buildModelClient(cfg, logger)

	// Services
	profileService := services.NewDatasetProfileService(logger)
	insightCache := services.NewInsightCache(cfg.Insights.CacheMaxEntries)
	auditor := audit.NewValidationAuditor(logger)
	insightService := services.NewInsightService(client, insightCache, auditor, services.InsightOptions{
		MaxAttempts: cfg.Insights.MaxAttempts,
		SampleLimit: cfg.Insights.SampleLimit,
	}, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewDatasetHandler(logger).RegisterRoutes(mux)
	handlers.NewProfileHandler(profileService, logger).RegisterRoutes(mux)
	handlers.NewInsightHandler(insightService, logger).RegisterRoutes(mux)
	handlers.NewReportHandler(logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting veridata-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// buildLogger selects a console logger locally and JSON elsewhere.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildModelClient constructs the configured provider client, or nil when
// no credential is present. The insight service turns nil into a fail-fast
// configuration error per request.
func buildModelClient(cfg *config.Config, logger *zap.Logger) llm.ModelClient {
	if !cfg.AI.HasCredentials() {
		logger.Warn("No AI credentials configured; insight requests will be rejected",
			zap.String("provider", cfg.AI.Provider))
		return nil
	}

	llmCfg := &llm.Config{
		Endpoint:    cfg.AI.Endpoint,
		Model:       cfg.AI.Model,
		APIKey:      cfg.AI.APIKey(),
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	}

	var client llm.ModelClient
	var err error
	if cfg.AI.Provider == "anthropic" {
		client, err = llm.NewAnthropicClient(llmCfg, logger)
	} else {
		client, err = llm.NewClient(llmCfg, logger)
	}
	if err != nil {
		logger.Fatal("Failed to build model client",
			zap.String("provider", cfg.AI.Provider),
			zap.Error(err))
	}
	return client
}
