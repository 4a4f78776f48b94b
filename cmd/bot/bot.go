package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/brew-bot/internal/api"
	"github.com/abelzeko/brew-bot/internal/config"
	"github.com/abelzeko/brew-bot/internal/integration"
	"github.com/abelzeko/brew-bot/internal/integration/openai"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/abelzeko/brew-bot/internal/usecases"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Brew Bot stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("INFO", nil)
		return err
	}
	logger.Init(cfg.LogLevel, nil)
	slog.Info("Starting Brew Bot...")

	if err := cfg.RequireBot(); err != nil {
		return err
	}

	// Free-text questions are optional
	var intents openai.IntentService
	if cfg.OpenAIKey != "" {
		if intents, err = openai.NewIntentService(cfg.OpenAIKey); err != nil {
			return err
		}
	} else {
		slog.Warn("OPENAI_API_KEY is not set, free-text questions are disabled")
	}

	// Initialize repository
	store, err := repository.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	brew := usecases.NewBrewUseCase(store, integration.NewRecipeScraper(nil), intents)
	calc := usecases.NewCalcUseCase()

	telegramBot, err := api.NewTelegramBot(cfg.BotToken, cfg.OwnerChatID, brew, calc, cfg.Debounce)
	if err != nil {
		return err
	}
	if cfg.OwnerChatID == 0 {
		slog.Warn("OWNER_CHAT_ID is not set, the bot answers every chat")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telegramBot.Start(ctx) })
	if cfg.HealthAddr != "" {
		health := api.NewHealthServer(cfg.HealthAddr, store)
		g.Go(func() error { return health.Start(ctx) })
	}
	return g.Wait()
}
