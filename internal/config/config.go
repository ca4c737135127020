package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	PORT string

	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	JWT_SECRET     string
	JWT_EXPIRES_IN time.Duration

	ADMIN_EMAIL    string
	ADMIN_PASSWORD string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	// Session tokens default to a one hour lifetime
	expiresIn := time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			slog.Warn("Invalid JWT_EXPIRES_IN, falling back to 1h", slog.String("value", raw))
		} else {
			expiresIn = d
		}
	}

	return &Config{
		PORT: GetEnvOrDefault("PORT", "4000"),

		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		JWT_EXPIRES_IN: expiresIn,

		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
