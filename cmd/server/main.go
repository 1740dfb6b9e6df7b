package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pdfmark/internal/api"
	"github.com/dgallion1/pdfmark/internal/config"
	"github.com/dgallion1/pdfmark/internal/export"
	"github.com/dgallion1/pdfmark/internal/fetch"
	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/session"
	"github.com/dgallion1/pdfmark/internal/transform"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	seed, err := highlight.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Error("failed to load seed file", "path", cfg.SeedFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.MaxUploadBytes, "pdfmark/1.0")
	sessions := session.NewStore(cfg.SessionTTL)
	opener := session.NewOpener(sessions, fetcher, seed, log)

	// Initialize export pipeline.
	orch := export.NewOrchestrator(export.Config{
		QueueSize: cfg.MaxQueueSize,
		JobTTL:    cfg.JobTTL,
		Options: export.Options{
			Options: transform.Options{OriginFallback: cfg.CommentOriginFallback},
		},
	}, export.NewStats(time.Hour), log)
	orch.Start(ctx)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					log.Info("expired sessions removed", "count", n, "remaining", sessions.Len())
				}
			}
		}
	}()

	// Initialize HTTP server.
	srv := api.NewServer(opener, sessions, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		cancel()
		fetcher.Close()
	}()

	log.Info("starting pdfmark",
		"port", cfg.Port,
		"auth", cfg.APIKey != "",
		"seeded_documents", len(seed),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
