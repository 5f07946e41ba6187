package imagegen

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIURL  = "MOLEPUZZLE_IMAGE_API_URL"
	EnvAPIKey  = "MOLEPUZZLE_IMAGE_API_KEY"
	EnvTimeout = "MOLEPUZZLE_IMAGE_TIMEOUT_SEC"
)

// Config describes the image backend. An empty URL or key means only
// placeholders are produced.
type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether a backend is available.
func (c Config) Configured() bool {
	return c.APIURL != "" && c.APIKey != ""
}

// ConfigFromEnv loads the given .env files (missing files are fine) and
// reads the backend settings from the environment. With no files, ./.env
// is tried.
func ConfigFromEnv(files ...string) Config {
	_ = godotenv.Load(files...)

	return Config{
		APIURL:  os.Getenv(EnvAPIURL),
		APIKey:  os.Getenv(EnvAPIKey),
		Timeout: time.Duration(getEnvAsInt(EnvTimeout, 30)) * time.Second,
	}
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
