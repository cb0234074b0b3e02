package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all triage configuration.
type Config struct {
	Data    DataConfig
	Trainer TrainerConfig
	Engine  EngineConfig
	Server  ServerConfig
	Log     LogConfig
}

// DataConfig holds dataset and cache locations.
type DataConfig struct {
	Dir       string // directory containing the four source CSV tables
	CachePath string // persisted model artifact path
}

// TrainerConfig holds random-forest training settings.
type TrainerConfig struct {
	Trees    int   // ensemble size
	MaxDepth int   // 0 = unlimited
	Seed     int64 // rng seed, fixed for reproducibility
}

// EngineConfig holds resolver and confidence-calibration settings.
type EngineConfig struct {
	FuzzyThreshold    float64 // minimum edit-similarity for a fuzzy match
	ConfidenceFloor   float64
	ConfidenceCeiling float64
	ConfidenceBoost   float64 // applied on an exact training-signature match
}

// ServerConfig holds HTTP boundary settings.
type ServerConfig struct {
	Port string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Data: DataConfig{
			Dir:       getenv("TRIAGE_DATA_DIR", "data"),
			CachePath: getenv("TRIAGE_CACHE_PATH", "cache/model.json"),
		},
		Trainer: TrainerConfig{
			Trees:    getenvInt("TRIAGE_TREES", 300),
			MaxDepth: getenvInt("TRIAGE_MAX_DEPTH", 0),
			Seed:     int64(getenvInt("TRIAGE_SEED", 42)),
		},
		Engine: EngineConfig{
			FuzzyThreshold:    getenvFloat("TRIAGE_FUZZY_THRESHOLD", 0.70),
			ConfidenceFloor:   getenvFloat("TRIAGE_CONFIDENCE_FLOOR", 0.25),
			ConfidenceCeiling: getenvFloat("TRIAGE_CONFIDENCE_CEILING", 0.95),
			ConfidenceBoost:   getenvFloat("TRIAGE_CONFIDENCE_BOOST", 0.20),
		},
		Server: ServerConfig{
			Port: getenv("TRIAGE_PORT", "5001"),
		},
		Log: LogConfig{
			Level:  getenv("TRIAGE_LOG_LEVEL", "info"),
			Format: getenv("TRIAGE_LOG_FORMAT", "text"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
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

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
