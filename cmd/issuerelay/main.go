package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"issuerelay/internal/config"
	"issuerelay/internal/dispatch"
	"issuerelay/internal/ledger"
	"issuerelay/internal/log"
	"issuerelay/internal/notify"
	"issuerelay/internal/storage"
	"issuerelay/internal/webhook"
)

var version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("issuerelay", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to YAML config file (optional; env vars override)")
	listen := fs.String("listen", "", "Listen address override (e.g. :8080)")
	dbPath := fs.String("db", "", "SQLite database path override")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Printf("issuerelay %s\n", version)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Service.Listen = *listen
	}
	if *dbPath != "" {
		cfg.State.Path = *dbPath
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")

	if *configPath != "" {
		if fp, err := config.Fingerprint(*configPath); err == nil {
			logger.Info("configuration loaded", "path", *configPath, "fingerprint", fp)
		}
	}

	// Only the built-in default path goes through platform data-dir probing;
	// an explicit path (flag, env, or file) is taken as-is.
	if cfg.State.Path == config.Defaults().State.Path {
		cfg.State.Path = storage.ResolveDataPath(cfg.State.Path, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.State.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.State.Path, "error", err)
		return 1
	}
	defer func() { _ = db.Close() }()
	logger.Info("database initialized", "path", cfg.State.Path)

	channel, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		logger.Error("failed to create telegram channel", "error", err)
		return 1
	}

	allow := config.NewAllowlist(cfg.Repositories)
	dispatcher := dispatch.New(cfg.Webhook.Secret, allow, ledger.New(db), channel)

	logger.Info("starting issue relay",
		"version", version,
		"listen", cfg.Service.Listen,
		"repositories", allow.Len(),
		"secret_configured", cfg.Webhook.Secret != "",
	)

	// Best effort: a failed startup announcement should not stop the relay.
	sendStartupNotification(ctx, channel, allow, cfg.State.Path, logger)

	server := webhook.New(cfg.Service.Listen, dispatcher)
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", "error", err)
		return 1
	}

	logger.Info("issue relay stopped")
	return 0
}

func sendStartupNotification(ctx context.Context, channel *notify.Telegram, allow config.Allowlist, dbPath string, logger *slog.Logger) {
	sctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := channel.Send(sctx, notify.FormatStartup(allow.Repos(), dbPath)); err != nil {
		logger.Warn("startup notification failed", "error", err)
	}
}
