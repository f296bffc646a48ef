// Package main is the entry point for the ledger Telegram bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/yelinaung/ledger-bot/internal/bot"
	"gitlab.com/yelinaung/ledger-bot/internal/config"
	"gitlab.com/yelinaung/ledger-bot/internal/health"
	"gitlab.com/yelinaung/ledger-bot/internal/ledger"
	"gitlab.com/yelinaung/ledger-bot/internal/logger"
	"gitlab.com/yelinaung/ledger-bot/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("ledger-bot %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetJSON()
	}
	if err := logger.InitHashSalt(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize log hash salt")
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	gateway := ledger.NewWebhookClient(cfg.WebhookURL, cfg.QueryWebhookURL, cfg.GatewayTimeout)

	telegramBot, err := bot.New(cfg, gateway)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create bot")
	}

	logger.Log.Info().
		Str("version", version).
		Str("timezone", cfg.LedgerTimezone).
		Str("telemetry", cfg.TelemetryExporter).
		Msg("Ledger bot starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.Run(gctx, health.NewServer(cfg.HealthAddr()))
	})
	g.Go(func() error {
		telegramBot.Start(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error().Err(err).Msg("Shutting down after failure")
	}

	telegramBot.Stop()
	logger.Log.Info().Msg("Shutting down...")
}
