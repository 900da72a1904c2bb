package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Host string
	Port string

	// Database
	MongoURI string
	DBName   string

	// Auth
	JWTSecret string

	// Y-Note / MTN MoMo gateway
	YNoteBaseURL      string
	YNoteTokenURL     string
	YNoteClientID     string
	YNoteClientSecret string
	CallbackURL       string

	Currency   string
	APITimeout int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	cfg := &Config{
		Host:              getEnv("HOST", "0.0.0.0"),
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGOURI", ""),
		DBName:            getEnv("DB_NAME", "campaignpaydb"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		YNoteBaseURL:      getEnv("YNOTE_BASE_URL", ""),
		YNoteTokenURL:     getEnv("YNOTE_TOKEN_URL", ""),
		YNoteClientID:     getEnv("YNOTE_CLIENT_ID", ""),
		YNoteClientSecret: getEnv("YNOTE_CLIENT_SECRET", ""),
		CallbackURL:       getEnv("CALLBACK_URL", ""),
		Currency:          getEnv("CURRENCY", "XAF"),
	}

	timeout, err := strconv.Atoi(getEnv("API_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}
	cfg.APITimeout = timeout

	required := []struct {
		value string
		key   string
	}{
		{cfg.MongoURI, "MONGOURI"},
		{cfg.JWTSecret, "JWT_SECRET"},
		{cfg.YNoteBaseURL, "YNOTE_BASE_URL"},
		{cfg.YNoteTokenURL, "YNOTE_TOKEN_URL"},
		{cfg.YNoteClientID, "YNOTE_CLIENT_ID"},
		{cfg.YNoteClientSecret, "YNOTE_CLIENT_SECRET"},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("environment variable %s is not set", r.key)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
