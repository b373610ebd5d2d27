package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	BodyLimitMB  int    `yaml:"body_limit_mb"`

	// Gateway
	StudioURL string `yaml:"studio_url"`

	// Studio
	DBPath           string `yaml:"db_path"`
	UniformPresets   bool   `yaml:"uniform_presets"`
	PanelMaxSegments int    `yaml:"panel_max_segments"`
	PanelMaxPixels   int    `yaml:"panel_max_pixels"`
	DefaultDepth     int    `yaml:"default_depth"`
}

func defaults() *Config {
	return &Config{
		Port:           "3000",
		Environment:    "development",
		ReadTimeout:    10,
		WriteTimeout:   10,
		BodyLimitMB:    32,
		StudioURL:      "http://localhost:3001",
		DBPath:         ":memory:",
		PanelMaxPixels: 1 << 20,
		DefaultDepth:   10,
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE,
// затем переменные окружения.
func Load() *Config {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			log.Printf("[CONFIG] %v, using defaults", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.BodyLimitMB = getEnvAsInt("BODY_LIMIT_MB", cfg.BodyLimitMB)
	cfg.StudioURL = getEnv("STUDIO_URL", cfg.StudioURL)
	cfg.DBPath = getEnv("STUDIO_DB_PATH", cfg.DBPath)
	cfg.UniformPresets = getEnvAsBool("STUDIO_UNIFORM_PRESETS", cfg.UniformPresets)
	cfg.PanelMaxSegments = getEnvAsInt("STUDIO_PANEL_MAX_SEGMENTS", cfg.PanelMaxSegments)
	cfg.PanelMaxPixels = getEnvAsInt("STUDIO_PANEL_MAX_PIXELS", cfg.PanelMaxPixels)
	cfg.DefaultDepth = getEnvAsInt("STUDIO_DEFAULT_DEPTH", cfg.DefaultDepth)

	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
