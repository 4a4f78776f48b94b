package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/brew-bot/internal/api"
	"github.com/abelzeko/brew-bot/internal/config"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/abelzeko/brew-bot/internal/usecases"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Reminder stopped with error", "error", err)
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
	slog.Info("Starting Brew Bot Reminder...")

	if err := cfg.RequireBot(); err != nil {
		return err
	}
	if cfg.OwnerChatID == 0 {
		return fmt.Errorf("OWNER_CHAT_ID environment variable is not set")
	}

	// Initialize repository
	store, err := repository.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	notifier, err := api.NewTelegramNotifier(cfg.BotToken, cfg.OwnerChatID)
	if err != nil {
		return err
	}
	reminders := usecases.NewReminderUseCase(store, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	check := func() {
		runCtx := logger.WithRequestID(ctx, logger.GenerateRequestID())
		sent, err := reminders.SendDueReminders(runCtx)
		if err != nil {
			logger.FromContext(runCtx).Error("Reminder run failed", "error", err)
			return
		}
		logger.FromContext(runCtx).Info("Reminder run finished", "sent", sent)
	}

	// Run immediately on startup
	check()

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReminderSchedule, check); err != nil {
		return fmt.Errorf("failed to set up cron job: %w", err)
	}
	slog.Info("Reminders have been scheduled", "schedule", cfg.ReminderSchedule)
	c.Start()

	<-ctx.Done()
	slog.Info("Shutting down reminder")
	<-c.Stop().Done()
	return nil
}
