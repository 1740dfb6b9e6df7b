package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PDFMARK_API_KEY", "MAX_UPLOAD_BYTES", "FETCH_TIMEOUT", "SESSION_TTL", "JOB_TTL", "MAX_QUEUE_SIZE", "SEED_FILE", "DOWNLOAD_NAME", "COMMENT_ORIGIN_FALLBACK"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.APIKey != "" {
		t.Errorf("expected auth disabled by default")
	}
	if cfg.DownloadName != "file.pdf" {
		t.Errorf("expected download name file.pdf, got %q", cfg.DownloadName)
	}
	if cfg.MaxQueueSize != 16 {
		t.Errorf("expected queue size 16, got %d", cfg.MaxQueueSize)
	}
	if cfg.CommentOriginFallback {
		t.Errorf("expected origin fallback off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PDFMARK_API_KEY", "secret")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MAX_QUEUE_SIZE", "-3")
	t.Setenv("COMMENT_ORIGIN_FALLBACK", "true")
	t.Setenv("JOB_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "9000" || cfg.APIKey != "secret" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("expected 5s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.MaxQueueSize != 16 {
		t.Errorf("expected non-positive queue size to fall back to 16, got %d", cfg.MaxQueueSize)
	}
	if !cfg.CommentOriginFallback {
		t.Errorf("expected origin fallback on")
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected unparsable JOB_TTL to fall back to 1h, got %s", cfg.JobTTL)
	}
}

func TestValidate_SeedFile(t *testing.T) {
	cfg := Config{Port: "8090", DownloadName: "file.pdf", SeedFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing seed file")
	}

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.SeedFile = path
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
