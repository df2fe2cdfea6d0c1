package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
	// ContactPhone is the storefront's default contact number, surfaced at
	// /api/site. It lives here so business code never reads the process
	// environment directly.
	ContactPhone string
	// FrontendOrigin is the storefront frontend allowed through CORS.
	FrontendOrigin string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8080"),
		DBDSN:          getenv("DB_DSN", "kurtikart.db"),
		LogFile:        getenv("LOG_FILE", "./kurtikart.log"),
		ContactPhone:   getenv("CONTACT_PHONE", "+919999999999"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "http://localhost:3000"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
