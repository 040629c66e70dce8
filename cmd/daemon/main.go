// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgebridge/forgebridge/internal/api"
	"github.com/forgebridge/forgebridge/internal/config"
	fblog "github.com/forgebridge/forgebridge/internal/log"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	listen := flag.String("listen", "", "listen address override (e.g. :8069)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	fblog.Configure(fblog.Config{
		Level:   "info",
		Service: "forgebridge",
		Version: version,
	})

	logger := fblog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(fblog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	// Command-line override wins over ENV and file.
	if *listen != "" {
		cfg.Listen = *listen
	}

	server := api.New(cfg)

	logger.Info().
		Str(fblog.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Msg("starting forgebridge")
	logger.Info().Msgf("→ Gitea: %s (timeout: %s)", cfg.GiteaBaseURL, cfg.GiteaTimeout)
	if server.Resolver().HasFallback() {
		logger.Info().Msg("→ Fallback token: configured")
	} else {
		logger.Warn().
			Msg("→ Fallback token: NOT configured. Requests without an Authorization header will be rejected. Set " + config.EnvFallbackToken + " to allow them.")
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal().
			Err(err).
			Str(fblog.FieldEvent, "server.failed").
			Msg("HTTP server failed")
	case <-ctx.Done():
		logger.Info().
			Str(fblog.FieldEvent, "shutdown.signal").
			Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().
			Err(err).
			Str(fblog.FieldEvent, "shutdown.failed").
			Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().
		Str(fblog.FieldEvent, "shutdown.complete").
		Msg("forgebridge stopped")
}
