package main

import (
	"fmt"
	"log"
	"time"

	"sketch-studio/internal/common/config"
	"sketch-studio/internal/common/middleware"
	"sketch-studio/internal/gateway/handlers"
	"sketch-studio/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	spec, err := handlers.LoadSpec()
	if err != nil {
		log.Fatalf("load openapi spec: %v", err)
	}

	studio := proxy.New(cfg.StudioURL, time.Duration(cfg.WriteTimeout)*time.Second)
	health := handlers.NewHealth(studio)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(middleware.Recover(cfg.Environment))
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)
	app.Get("/docs/openapi.json", handlers.SwaggerSpecJSON(spec))

	// ============================================================
	// Studio Routes (Proxy)
	// ============================================================

	api := app.Group("/api/v1")
	api.All("/*", studio.Handler())

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1/* to %s", cfg.StudioURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
