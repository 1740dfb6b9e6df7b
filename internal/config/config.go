package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth; empty disables it.
	APIKey string

	// Document loading
	MaxUploadBytes int64
	FetchTimeout   time.Duration

	// Session and job state
	SessionTTL   time.Duration
	JobTTL       time.Duration
	MaxQueueSize int

	// Highlights preloaded per document URL.
	SeedFile string

	// Export
	DownloadName          string
	CommentOriginFallback bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PDFMARK_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		FetchTimeout:   envDuration("FETCH_TIMEOUT", 30*time.Second),

		SessionTTL:   envDuration("SESSION_TTL", 2*time.Hour),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 16),

		SeedFile: os.Getenv("SEED_FILE"),

		DownloadName:          envOr("DOWNLOAD_NAME", "file.pdf"),
		CommentOriginFallback: envBool("COMMENT_ORIGIN_FALLBACK", false),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DownloadName == "" {
		return fmt.Errorf("DOWNLOAD_NAME must not be empty")
	}
	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); err != nil {
			return fmt.Errorf("SEED_FILE: %w", err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
