package configutil

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the working directory into the
// process environment if one exists. Missing files are not an error.
func LoadDotenv() {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		slog.Warn("failed to load .env file", "err", err)
		return
	}
	slog.Info("loaded environment from .env")
}

func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-integer environment variable", "key", key, "value", v)
		return fallback
	}
	return n
}

func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring non-boolean environment variable", "key", key, "value", v)
		return fallback
	}
	return b
}

func EnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring unparsable duration environment variable", "key", key, "value", v)
		return fallback
	}
	return d
}
