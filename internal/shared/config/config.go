package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Toolkit binaries
	FFmpegPath  string
	FFprobePath string

	// Output policy
	OutputDir string // default directory for produced files ("" = alongside input)
	Overwrite bool   // pass -y instead of -n to the encoder

	// Scratch space for intermediate artifacts (palettes, pass logs, concat lists).
	// Empty means os.TempDir().
	WorkDir string

	// Watch mode
	WatchSettleMillis int // how long a file's size must hold steady before it is picked up
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		FFmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:       getEnv("FFPROBE_PATH", "ffprobe"),
		OutputDir:         getEnv("CLIPFORGE_OUTPUT_DIR", ""),
		Overwrite:         getEnvBool("CLIPFORGE_OVERWRITE", true),
		WorkDir:           getEnv("CLIPFORGE_WORK_DIR", ""),
		WatchSettleMillis: getEnvInt("CLIPFORGE_WATCH_SETTLE_MS", 500),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
