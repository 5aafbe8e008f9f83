package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL string

	TokenDBPath string

	HTTPTimeoutSeconds int

	LogLevel string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServerURL:          EnvDefault("SERVER_URL", "http://localhost:8080"),
		TokenDBPath:        EnvDefault("TOKEN_DB_PATH", defaultTokenDBPath()),
		HTTPTimeoutSeconds: EnvIntDefault("HTTP_TIMEOUT_SECONDS", 10),
		LogLevel:           EnvDefault("LOG_LEVEL", "info"),
	}
}

func defaultTokenDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(dir, "storefront", "storefront.db")
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
