package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries all runtime settings. Values come from the environment;
// main loads .env first so local runs work without exported variables.
type Config struct {
	Addr        string
	Environment string

	// Artifact store
	StorageBackend string // "s3" or "local"
	Bucket         string
	DataDir        string

	// AWS
	AWSRegion string

	// Transcription
	LanguageCode string
	MaxSpeakers  int

	// Notes generation
	ModelID string

	// Status polling
	PollInterval   time.Duration
	PollMaxWait    time.Duration
	PollMaxElapsed time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Addr:           ":" + envOr("PORT", "8080"),
		Environment:    envOr("ENVIRONMENT", "local"),
		StorageBackend: envOr("STORAGE_BACKEND", "s3"),
		Bucket:         os.Getenv("S3_BUCKET_NAME"),
		DataDir:        envOr("DATA_DIR", "./data"),
		AWSRegion:      envOr("AWS_REGION", "us-east-1"),
		LanguageCode:   envOr("TRANSCRIBE_LANGUAGE", "en-US"),
		MaxSpeakers:    envIntOr("TRANSCRIBE_MAX_SPEAKERS", 10),
		ModelID:        envOr("NOTES_MODEL_ID", "anthropic.claude-v2"),
		PollInterval:   envDurationOr("POLL_INTERVAL", 10*time.Second),
		PollMaxWait:    envDurationOr("POLL_MAX_WAIT", time.Minute),
		PollMaxElapsed: envDurationOr("POLL_MAX_ELAPSED", 2*time.Hour),
	}

	if cfg.StorageBackend == "s3" && cfg.Bucket == "" {
		return Config{}, fmt.Errorf("S3_BUCKET_NAME not set")
	}

	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envIntOr(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDurationOr(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
