// Command echochamber serves an Echo Chamber curation session over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/echo-chamber/internal/api"
	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/entropy"
	"github.com/talgya/echo-chamber/internal/motion"
	"github.com/talgya/echo-chamber/internal/persistence"
)

func main() {
	cfg, err := config.Load(envOrDefault("ECHO_CONFIG", "configs/echochamber.yaml"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Seed = entropy.Resolve(cfg.Seed)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Echo Chamber — feed curation simulation",
		"max_days", cfg.MaxDays,
		"citizens", cfg.Citizens,
		"seed", cfg.Seed,
	)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	if cfg.ArchiveDir != "" {
		db.SetArchiver(persistence.NewArchiver(cfg.ArchiveDir))
		slog.Info("decision archive enabled", "dir", cfg.ArchiveDir)
	}

	// ── Session ───────────────────────────────────────────────────────
	hub := api.NewHub(cfg.StreamMax, cfg.CORSOrigins)
	session := engine.NewSession(engine.Options{
		Seed:      cfg.Seed,
		MaxDays:   cfg.MaxDays,
		CrowdSize: cfg.Citizens,
		Settings:  cfg.Settings,
		Store:     db,
		Renderer:  hub,
	})

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("ECHO_ADMIN_KEY not set — restart endpoint is open")
	}

	apiServer := &api.Server{
		Session:  session,
		Hub:      hub,
		Motion:   motion.NewStepper(cfg.Seed),
		DB:       db,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
		Pacing:   cfg.Pacing(),
		Origins:  cfg.CORSOrigins,
	}
	apiServer.Start()

	loop := motion.NewLoop(cfg.FrameInterval(), apiServer.Frame)

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	fmt.Printf("\n%d citizens are waiting for today's feed.\n", len(session.Citizens))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	fmt.Printf("Stream: ws://localhost:%d/api/v1/stream\n", cfg.Port)
	fmt.Println("Serving... (Ctrl+C to stop)")

	loop.Run()

	if err := apiServer.Close(); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	fmt.Println("Echo Chamber stopped.")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
