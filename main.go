package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelbridge/internal/bridge"
	"modelbridge/internal/config"
	"modelbridge/internal/extract"
	"modelbridge/internal/metrics"
	"modelbridge/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(envOr("BRIDGE_CONFIG", "config/config.yaml"), envOr("BRIDGE_ENV_FILE", ".env"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize router
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		ExposeHeaders:    cfg.CORS.ExposeHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	}))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Initialize upstream client and bridge
	var client upstream.Client
	switch cfg.Upstream.Protocol {
	case config.ProtocolOpenAI:
		client = upstream.NewOpenAIClient(cfg.Upstream)
	default:
		client = upstream.NewGenericClient(cfg.Upstream)
	}

	strategies := extract.DefaultStrategies(cfg.Upstream.ResponseField)
	bridgeService := bridge.NewService(client, strategies, cfg.Defaults)
	bridgeController := bridge.NewController(bridgeService, collector)
	bridgeController.RegisterRoutes(router)

	log.Printf("Forwarding completions to %s (%s protocol)", cfg.Upstream.BaseURL, cfg.Upstream.Protocol)

	// Start server
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
