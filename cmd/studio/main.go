package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"sketch-studio/internal/common/config"
	"sketch-studio/internal/common/middleware"
	"sketch-studio/internal/studio/export"
	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/handlers"
	"sketch-studio/internal/studio/imports"
	"sketch-studio/internal/studio/repository"
	"sketch-studio/internal/studio/scene"
	"sketch-studio/internal/studio/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Studio Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := service.NewSessionManager(func(id string) scene.Registry {
		return repo.Registry(id)
	})
	studio := service.New(
		sessions,
		geometry.NewSolidMesher(),
		imports.New(cfg.PanelMaxSegments, cfg.PanelMaxPixels),
		export.New(),
		service.Options{UniformPresets: cfg.UniformPresets},
	)
	studioHandler := handlers.NewStudioHandler(studio, cfg.DefaultDepth)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "Studio Service",
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

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ready", "sessions": sessions.Len()})
	})

	// ============================================================
	// Studio Routes
	// ============================================================

	studioHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Studio Service on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
