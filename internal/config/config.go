package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	MetricsAddr         string
	Timezone            string
	SigningKey          string
	NotificationWorkers int
}

// Load reads configuration from the environment, with an optional .env
// file. Missing variables fall back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:         getEnv("METRICS_ADDR", ":9090"),
		Timezone:            getEnv("TIMEZONE", "Asia/Makassar"),
		SigningKey:          getEnv("SIGNING_KEY", ""),
		NotificationWorkers: getEnvInt("NOTIFICATION_WORKERS", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
