package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP_PORT   string `env:"HTTP_PORT"`
	STATUS_PORT string `env:"STATUS_PORT"`
	DB_STRING   string `env:"DB_STRING"`

	// Куда воркер ходит за вердиктом, например http://localhost:8282/status
	STATUS_URL string `env:"STATUS_URL"`

	// Таймаут исходящего вызова статус-сервиса
	StatusTimeout time.Duration

	// Верхняя граница случайной задержки перед верификацией, в секундах.
	// 0 отключает задержку (удобно в тестах).
	VerifyDelayMaxSec int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:         getEnv("HTTP_PORT", "8080"),
		STATUS_PORT:       getEnv("STATUS_PORT", "8282"),
		DB_STRING:         os.Getenv("DB_STRING"),
		STATUS_URL:        getEnv("STATUS_URL", "http://localhost:8282/status"),
		StatusTimeout:     time.Duration(getEnvAsInt("STATUS_TIMEOUT_SECONDS", 30)) * time.Second,
		VerifyDelayMaxSec: getEnvAsInt("VERIFY_DELAY_MAX_SECONDS", 10),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
