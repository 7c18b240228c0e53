package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"feature-inspector/config"
	telegram "feature-inspector/internal/api"
	"feature-inspector/internal/cli"
	"feature-inspector/internal/container"
	"feature-inspector/internal/infrastructure/storage"
	"feature-inspector/internal/infrastructure/vision"
	"feature-inspector/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	// Шаблоны и журнал инспекций в SQLite, диалоги в памяти
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	repos := container.Repositories{
		Users:       storage.NewMemoryUserRepository(),
		Templates:   store,
		Inspections: store.Records(),
	}
	appContainer := container.New(repos, vision.NewGoCVRenderer(), cfg.Matching(), cfg.Strategy, log)

	var runBot cli.BotRunner
	if cfg.TelegramToken != "" {
		runBot = func(ctx context.Context) error {
			bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
			if err != nil {
				return fmt.Errorf("create bot: %w", err)
			}
			log.Info("bot is running")
			return bot.Run(ctx)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(appContainer, runBot).ExecuteContext(ctx)
}
